package materials

type StencilFunc uint8

const (
	StencilFunc_Always StencilFunc = iota
	StencilFunc_Never
	StencilFunc_Equal
	StencilFunc_NotEqual
	StencilFunc_Less
	StencilFunc_LessEqual
	StencilFunc_Greater
	StencilFunc_GreaterEqual
)

type StencilOp uint8

const (
	StencilOp_Keep StencilOp = iota
	StencilOp_Zero
	StencilOp_Replace
	StencilOp_Incr
	StencilOp_Decr
	StencilOp_Invert
)

// StencilState is written into an effect by the stencil manager and copied into each model emitted with it
type StencilState struct {
	Enabled   bool
	Func      StencilFunc
	Ref       uint8
	ReadMask  uint8
	WriteMask uint8
	FailOp    StencilOp
	ZFailOp   StencilOp
	ZPassOp   StencilOp
}
