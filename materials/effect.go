package materials

import (
	"encoding/binary"
	"hash/fnv"
	"slices"

	"github.com/bloeys/nbatch/refs"
)

var (
	lastEffectId uint32
)

type TextureSlot uint32

const (
	TextureSlot_Diffuse TextureSlot = 0
	TextureSlot_Mask    TextureSlot = 1
	TextureSlot_Normal  TextureSlot = 2

	TextureSlot_Count = 3
)

type EffectSettings uint64

const (
	EffectSettings_None        EffectSettings = iota
	EffectSettings_HasModelMtx EffectSettings = 1 << (iota - 1)
	EffectSettings_Premultiplied
)

func (es *EffectSettings) Set(flags EffectSettings) {
	*es |= flags
}

func (es *EffectSettings) Remove(flags EffectSettings) {
	*es &= ^flags
}

func (es *EffectSettings) Has(flags EffectSettings) bool {
	return *es&flags == flags
}

type BlendFactor uint8

const (
	BlendFactor_One BlendFactor = iota
	BlendFactor_Zero
	BlendFactor_SrcAlpha
	BlendFactor_OneMinusSrcAlpha
	BlendFactor_DstColor
)

type BlendState struct {
	Enabled bool
	Src     BlendFactor
	Dst     BlendFactor
}

// Effect is the shader state a draw is rendered with. Two draws can share a
// batch only if their effects have the same Hash.
//
// The stencil state is not part of the hash: it is written by the stencil
// manager when a model is emitted, after batching decided what to merge.
type Effect struct {
	refs.Counter

	Id        uint32
	Name      string
	ShaderSrc []byte
	// ShaderProgId is set by the renderer the first time the effect is bound
	ShaderProgId uint32
	Settings     EffectSettings
	Stencil      StencilState

	textures  [TextureSlot_Count]uint32
	blend     BlendState
	depthTest bool
	defines   map[string]string

	hash      uint64
	hashDirty bool
}

func (e *Effect) Texture(slot TextureSlot) uint32 {
	return e.textures[slot]
}

func (e *Effect) SetTexture(slot TextureSlot, texId uint32) {
	e.textures[slot] = texId
	e.hashDirty = true
}

func (e *Effect) Blend() BlendState {
	return e.blend
}

func (e *Effect) SetBlend(b BlendState) {
	e.blend = b
	e.hashDirty = true
}

func (e *Effect) DepthTest() bool {
	return e.depthTest
}

func (e *Effect) SetDepthTest(enabled bool) {
	e.depthTest = enabled
	e.hashDirty = true
}

func (e *Effect) Define(name string) (string, bool) {
	v, ok := e.defines[name]
	return v, ok
}

func (e *Effect) SetDefine(name, value string) {
	e.defines[name] = value
	e.hashDirty = true
}

// Hash identifies the render state of the effect. It is cached until a setter changes the state.
func (e *Effect) Hash() uint64 {

	if !e.hashDirty {
		return e.hash
	}

	h := fnv.New64a()
	h.Write([]byte(e.Name))
	h.Write([]byte{0})
	h.Write(e.ShaderSrc)

	var scratch [8]byte
	for i := 0; i < len(e.textures); i++ {
		binary.LittleEndian.PutUint32(scratch[:4], e.textures[i])
		h.Write(scratch[:4])
	}

	binary.LittleEndian.PutUint64(scratch[:], uint64(e.Settings))
	h.Write(scratch[:])
	h.Write([]byte{boolByte(e.blend.Enabled), byte(e.blend.Src), byte(e.blend.Dst), boolByte(e.depthTest)})

	for _, k := range e.defineNames() {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(e.defines[k]))
		h.Write([]byte{0})
	}

	e.hash = h.Sum64()
	e.hashDirty = false
	return e.hash
}

// DefineLines returns the effect's defines as '#define NAME VALUE' lines sorted by name
func (e *Effect) DefineLines() []string {

	names := e.defineNames()
	lines := make([]string, len(names))
	for i, k := range names {
		lines[i] = "#define " + k + " " + e.defines[k]
	}

	return lines
}

func (e *Effect) defineNames() []string {
	names := make([]string, 0, len(e.defines))
	for k := range e.defines {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// InvalidateHash must be called after changing Name, ShaderSrc or Settings directly
func (e *Effect) InvalidateHash() {
	e.hashDirty = true
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func getNewEffectId() uint32 {
	lastEffectId++
	return lastEffectId
}

func NewEffect(name string, shaderSrc []byte) *Effect {

	return &Effect{
		Id:        getNewEffectId(),
		Name:      name,
		ShaderSrc: shaderSrc,
		blend: BlendState{
			Enabled: true,
			Src:     BlendFactor_SrcAlpha,
			Dst:     BlendFactor_OneMinusSrcAlpha,
		},
		defines:   make(map[string]string),
		hashDirty: true,
	}
}
