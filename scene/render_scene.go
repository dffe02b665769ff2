package scene

// RenderScene is the list of models to draw this frame, in submission order
type RenderScene struct {
	models []*Model
}

func (rs *RenderScene) AddModel(m *Model) {
	rs.models = append(rs.models, m)
}

// RemoveModels clears the list. The models themselves are owned by whoever added them.
func (rs *RenderScene) RemoveModels() {
	clear(rs.models)
	rs.models = rs.models[:0]
}

func (rs *RenderScene) Models() []*Model {
	return rs.models
}

// VisibleModels appends to out the models whose culling mask intersects cameraMask
func (rs *RenderScene) VisibleModels(cameraMask uint32, out []*Model) []*Model {

	for i := 0; i < len(rs.models); i++ {
		if rs.models[i].cullingMask&cameraMask != 0 {
			out = append(out, rs.models[i])
		}
	}

	return out
}

func NewRenderScene() *RenderScene {
	return &RenderScene{
		models: make([]*Model, 0, 64),
	}
}
