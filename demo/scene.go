// Package demo builds the sample scene drawn by the nbatch executable: a grid of sprites,
// a few spinning meshes with their own model matrix, a prebuilt background and a stencil clipped group.
// It has no GL dependency so it can run headless.
package demo

import (
	"fmt"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nbatch/assemblers"
	"github.com/bloeys/nbatch/batcher"
	"github.com/bloeys/nbatch/buffers"
	"github.com/bloeys/nbatch/logging"
	"github.com/bloeys/nbatch/materials"
	"github.com/bloeys/nbatch/meshes"
	"github.com/bloeys/nbatch/renderer"
	"github.com/bloeys/nbatch/scene"
	"github.com/bloeys/nbatch/stencil"
)

const CameraMask uint32 = 1

// ShaderSources are the combined shader sources effects are created with
type ShaderSources struct {
	Sprite []byte
	Mesh   []byte
}

// drawable is something committed to the batcher every frame
type drawable struct {
	asm    assemblers.Assembler
	sprite *assemblers.Sprite
	custom assemblers.CustomAssembler
}

type spinner struct {
	node     *scene.Node
	x, y     float32
	angle    float32
	speedRad float32
}

// maskGroup is drawn between stencil stages: the clear quad, the mask shape, then the clipped content
type maskGroup struct {
	clear   *scene.Node
	shape   *scene.Node
	content *scene.Node
}

type Scene struct {
	Root *scene.Node

	Batcher *batcher.ModelBatcher
	Render  *scene.RenderScene
	Stencil *stencil.Manager

	cfg        Config
	device     buffers.Device
	drawables  map[*scene.Node]drawable
	spinners   []spinner
	mask       *maskGroup
	background *scene.Node
	visible    []*scene.Model

	effects []*materials.Effect
}

func (s *Scene) addDrawable(parent *scene.Node, name string, d drawable) *scene.Node {
	n := scene.NewNode(name)
	parent.AddChild(n)
	s.drawables[n] = d
	return n
}

func (s *Scene) newSpriteEffect(name string, src []byte, texId uint32) *materials.Effect {
	e := materials.NewEffect(name, src)
	e.SetTexture(materials.TextureSlot_Diffuse, texId)
	s.effects = append(s.effects, e)
	return e
}

func (s *Scene) buildBackground(src []byte) {

	w, h := float32(s.cfg.Window.Width), float32(s.cfg.Window.Height)
	rd := meshes.NewQuad(buffers.VFmtPosUvColor, 0, 0, w, h, gglm.NewVec4(0.15, 0.15, 0.2, 1))

	// The background owns its buffers and uploads them once
	vb := s.device.NewVertexBuffer(buffers.VFmtPosUvColor, buffers.BufUsage_Static_Draw)
	ib := s.device.NewIndexBuffer(buffers.BufUsage_Static_Draw)
	s.device.UploadVertices(vb, rd.Vertices)
	s.device.UploadIndices(ib, rd.Indices)

	e := s.newSpriteEffect("background", src, 0)
	c := assemblers.NewCustom(e, &buffers.InputAssembler{VertexBuffer: vb, IndexBuffer: ib, Count: len(rd.Indices)})

	// Committed on its own before the tree, see Commit
	s.background = scene.NewNode("background")
	s.drawables[s.background] = drawable{custom: c}
}

func (s *Scene) buildGrid(parent *scene.Node, src []byte) {

	g := s.cfg.Grid

	gridEffects := make([]*materials.Effect, g.Effects)
	for i := range gridEffects {
		gridEffects[i] = s.newSpriteEffect(fmt.Sprintf("sprite-%d", i), src, uint32(i))
	}

	colors := []gglm.Vec4{
		gglm.NewVec4(0.9, 0.3, 0.3, 1),
		gglm.NewVec4(0.3, 0.9, 0.4, 1),
		gglm.NewVec4(0.3, 0.5, 0.9, 1),
	}

	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {

			i := row*g.Cols + col
			x, y := float32(col)*g.Spacing, float32(row)*g.Spacing

			sp := assemblers.NewSprite(buffers.VFmtPosUvColor, gridEffects[i%len(gridEffects)], 0, 0, g.SpriteSize, g.SpriteSize)
			sp.SetColor(0, colors[i%len(colors)])

			n := s.addDrawable(parent, fmt.Sprintf("sprite-%d-%d", col, row), drawable{asm: sp, sprite: sp})
			n.SetPosition(x, y, 0)
		}
	}
}

func (s *Scene) buildSpinners(parent *scene.Node, src []byte) {

	e := materials.NewEffect("mesh", src)
	e.Settings.Set(materials.EffectSettings_HasModelMtx)
	e.SetDefine("USE_TINT", "1")
	e.InvalidateHash()
	s.effects = append(s.effects, e)

	white := gglm.NewVec4(1, 1, 1, 1)
	mesh := &meshes.Mesh{
		Name: "spinner",
		SubMeshes: []meshes.RenderData{
			meshes.NewQuad(buffers.VFmtPosColor, -40, -40, 80, 80, white),
			meshes.NewQuad(buffers.VFmtPosColor, -10, -60, 20, 120, white),
		},
	}

	w, h := float32(s.cfg.Window.Width), float32(s.cfg.Window.Height)
	for i := 0; i < s.cfg.Meshes; i++ {

		m := assemblers.NewMesh(mesh, e)
		m.SetUseModel(true)

		props := materials.NewCustomProperties()
		tint := gglm.NewVec4(1, 1-float32(i)*0.2, 0.3+float32(i)*0.15, 1)
		props.SetVec4("u_tint", &tint)
		m.Props = props

		n := s.addDrawable(parent, fmt.Sprintf("spinner-%d", i), drawable{asm: m})
		s.spinners = append(s.spinners, spinner{
			node:     n,
			x:        w * float32(i+1) / float32(s.cfg.Meshes+1),
			y:        h * 0.5,
			speedRad: float32(i+1) * 30 * gglm.Deg2Rad,
		})
	}
}

func (s *Scene) buildMask(src []byte) {

	w, h := float32(s.cfg.Window.Width), float32(s.cfg.Window.Height)
	clearEffect := s.newSpriteEffect("mask-clear", src, 0)
	shapeEffect := s.newSpriteEffect("mask-shape", src, 0)
	contentEffect := s.newSpriteEffect("masked-content", src, 0)

	mg := &maskGroup{
		clear:   scene.NewNode("mask-clear"),
		shape:   scene.NewNode("mask-shape"),
		content: scene.NewNode("masked-content"),
	}

	clearQuad := assemblers.NewSprite(buffers.VFmtPosUvColor, clearEffect, 0, 0, w, h)
	s.drawables[mg.clear] = drawable{asm: clearQuad, sprite: clearQuad}

	shape := assemblers.NewSprite(buffers.VFmtPosUvColor, shapeEffect, w-260, h-260, 200, 200)
	s.drawables[mg.shape] = drawable{asm: shape, sprite: shape}

	for i := 0; i < 4; i++ {
		sp := assemblers.NewSprite(buffers.VFmtPosUvColor, contentEffect, w-300+float32(i)*60, h-300, 50, 280)
		sp.SetColor(0, gglm.NewVec4(1, 0.8, 0.2, 1))
		s.addDrawable(mg.content, fmt.Sprintf("masked-%d", i), drawable{asm: sp, sprite: sp})
	}

	// Mask nodes are committed by the mask pass, not by the tree walk
	s.mask = mg
}

// Update advances the animation by dt seconds and recomputes world state
func (s *Scene) Update(dt float32) {

	for i := range s.spinners {

		sp := &s.spinners[i]
		sp.angle += sp.speedRad * dt

		tr := gglm.NewTrMatId()
		tr.Translate(sp.x, sp.y, 0).Rotate(sp.angle, 0, 0, 1)
		sp.node.SetLocalMatrix(&tr.Mat4)
	}

	s.Root.UpdateWorld()
	s.background.UpdateWorld()
	if s.mask != nil {
		s.mask.clear.UpdateWorld()
		s.mask.shape.UpdateWorld()
		s.mask.content.UpdateWorld()
	}
}

func (s *Scene) commitNode(n *scene.Node) {

	d, ok := s.drawables[n]
	if !ok {
		return
	}

	if d.sprite != nil {
		d.sprite.Update(n)
	}

	if d.custom != nil {
		s.Batcher.CommitIA(n, d.custom, CameraMask)
		return
	}

	s.Batcher.Commit(n, d.asm, CameraMask)
}

func (s *Scene) commitMask() {

	mg := s.mask

	// Stencil stages apply to whole batches, so everything before a stage change is flushed
	s.Batcher.Flush()
	s.Batcher.FlushIA()

	s.Stencil.PushMask(stencil.Mask{})
	s.Stencil.Clear()
	s.commitNode(mg.clear)
	s.Batcher.Flush()

	s.Stencil.EnterLevel()
	s.commitNode(mg.shape)
	s.Batcher.Flush()

	s.Stencil.EnableMask()
	mg.content.Walk(s.commitNode)
	s.Batcher.Flush()

	s.Stencil.ExitMask()
}

// Commit runs one batcher frame over the whole scene
func (s *Scene) Commit() batcher.Stats {

	s.Batcher.StartBatch()

	// Custom draws have no bounds, so the reorder pass could move the background over
	// the sprites. Flushing it first pins it to the bottom.
	s.commitNode(s.background)
	s.Batcher.FlushIA()

	s.Root.Walk(s.commitNode)
	if s.mask != nil {
		s.commitMask()
	}
	s.Batcher.TerminateBatch()

	s.Root.ClearDirty()
	s.background.ClearDirty()
	if s.mask != nil {
		s.mask.clear.ClearDirty()
		s.mask.shape.ClearDirty()
		s.mask.content.ClearDirty()
	}

	return s.Batcher.Stats()
}

// Draw hands the visible models of the last committed frame to rend
func (s *Scene) Draw(rend renderer.Render) {
	s.visible = s.Render.VisibleModels(CameraMask, s.visible[:0])
	rend.DrawModels(s.visible)
}

// SetOptions replaces the batcher with one using opts. Mesh buffers are recreated on the next frame.
func (s *Scene) SetOptions(opts batcher.Options) {
	s.Batcher.Reset()
	s.cfg.Batcher = opts
	s.Batcher = batcher.NewModelBatcher(s.Render, s.Stencil, s.device, opts)
	logging.InfoLog.Printf("Batcher options changed. reorder=%v; placement=%s\n", opts.Reorder, opts.FallbackPlacement)
}

// Effects returns every effect the scene created
func (s *Scene) Effects() []*materials.Effect {
	return s.effects
}

func (s *Scene) Options() batcher.Options {
	return s.cfg.Batcher
}

func NewScene(cfg Config, device buffers.Device, src ShaderSources) *Scene {

	s := &Scene{
		Root:      scene.NewNode("root"),
		Render:    scene.NewRenderScene(),
		Stencil:   stencil.NewManager(),
		cfg:       cfg,
		device:    device,
		drawables: make(map[*scene.Node]drawable),
	}

	s.Batcher = batcher.NewModelBatcher(s.Render, s.Stencil, device, cfg.Batcher)

	s.buildBackground(src.Sprite)

	grid := scene.NewNode("grid")
	s.Root.AddChild(grid)
	grid.SetPosition(20, 20, 0)
	s.buildGrid(grid, src.Sprite)

	s.buildSpinners(s.Root, src.Mesh)

	if cfg.Masked {
		s.buildMask(src.Sprite)
	}

	s.Update(0)
	return s
}
