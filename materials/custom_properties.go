package materials

import (
	"sort"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/buffers"
)

// Uniform is a single custom property value. Data holds Type.CompCount() floats.
type Uniform struct {
	Type buffers.ElementType
	Data [16]float32
}

// Floats returns the used part of Data
func (u *Uniform) Floats() []float32 {
	return u.Data[:u.Type.CompCount()]
}

// CustomProperties are per draw uniform overrides that travel with an effect
// without changing its hash (e.g. a tint shared by a batch).
type CustomProperties struct {
	uniforms map[string]Uniform
}

func (cp *CustomProperties) SetFloat32(name string, v float32) {
	u := Uniform{Type: buffers.DataTypeFloat32}
	u.Data[0] = v
	cp.uniforms[name] = u
}

func (cp *CustomProperties) SetVec4(name string, v *gglm.Vec4) {
	u := Uniform{Type: buffers.DataTypeVec4}
	copy(u.Data[:], v.Data[:])
	cp.uniforms[name] = u
}

func (cp *CustomProperties) SetMat4(name string, m *gglm.Mat4) {

	u := Uniform{Type: buffers.DataTypeMat4}
	for c := 0; c < 4; c++ {
		copy(u.Data[c*4:c*4+4], m.Data[c][:])
	}

	cp.uniforms[name] = u
}

func (cp *CustomProperties) Get(name string) (Uniform, bool) {
	u, ok := cp.uniforms[name]
	return u, ok
}

func (cp *CustomProperties) Len() int {
	return len(cp.uniforms)
}

// Names returns the property names sorted, so uploads happen in a stable order
func (cp *CustomProperties) Names() []string {

	names := make([]string, 0, len(cp.uniforms))
	for k := range cp.uniforms {
		names = append(names, k)
	}

	sort.Strings(names)
	return names
}

func NewCustomProperties() *CustomProperties {
	return &CustomProperties{
		uniforms: make(map[string]Uniform),
	}
}
