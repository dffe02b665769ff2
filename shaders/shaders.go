package shaders

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bloeys/nbatch/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

type Shader struct {
	Id   uint32
	Type ShaderType
}

func (s *Shader) Delete() {
	gl.DeleteShader(s.Id)
	s.Id = 0
}

func NewShaderProgram() (ShaderProgram, error) {

	id := gl.CreateProgram()
	if id == 0 {
		return ShaderProgram{}, errors.New("failed to create shader program")
	}

	return ShaderProgram{Id: id, unifLocs: make(map[string]int32)}, nil
}

// LoadCombinedShader reads a combined shader file and compiles it with the given define lines
func LoadCombinedShader(shaderPath string, defines []string) (ShaderProgram, error) {

	combinedSource, err := os.ReadFile(shaderPath)
	if err != nil {
		return ShaderProgram{}, fmt.Errorf("failed to read shader '%s': %w", shaderPath, err)
	}

	return CompileCombinedSource(combinedSource, defines)
}

// CompileCombinedSource parses a combined source (see ParseSource), inserts the define
// lines into every stage and links the stages into a program
func CompileCombinedSource(src []byte, defines []string) (ShaderProgram, error) {

	parsed, err := ParseSource(src)
	if err != nil {
		return ShaderProgram{}, err
	}

	return CompileSource(parsed.WithDefines(defines))
}

func CompileSource(src Source) (ShaderProgram, error) {

	prog, err := NewShaderProgram()
	if err != nil {
		return ShaderProgram{}, err
	}

	for _, st := range src.Stages {

		shdr, err := CompileShaderOfType(st.Src, st.Type)
		if err != nil {
			prog.Delete()
			return ShaderProgram{}, fmt.Errorf("%s stage: %w", st.Type, err)
		}

		prog.AttachShader(shdr)
	}

	if err := prog.Link(); err != nil {
		prog.Delete()
		return ShaderProgram{}, err
	}

	return prog, nil
}

func CompileShaderOfType(shaderSource []byte, shaderType ShaderType) (Shader, error) {

	glType := shaderType.ToGl()
	if glType == 0 {
		return Shader{}, fmt.Errorf("%w: '%s'", ErrUnknownStage, shaderType)
	}

	shaderId := gl.CreateShader(glType)
	if shaderId == 0 {
		return Shader{}, fmt.Errorf("failed to create OpenGl shader. OpenGl Error=%d", gl.GetError())
	}

	shaderCStr, shaderFree := gl.Strs(string(shaderSource) + "\x00")
	defer shaderFree()
	gl.ShaderSource(shaderId, 1, shaderCStr, nil)

	gl.CompileShader(shaderId)
	if err := shaderCompileError(shaderId); err != nil {
		gl.DeleteShader(shaderId)
		return Shader{}, err
	}

	return Shader{Id: shaderId, Type: shaderType}, nil
}

func shaderCompileError(shaderId uint32) error {

	var status int32
	gl.GetShaderiv(shaderId, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetShaderiv(shaderId, gl.INFO_LOG_LENGTH, &logLength)

	infoLog := gl.Str(strings.Repeat("\x00", int(logLength)+1))
	gl.GetShaderInfoLog(shaderId, logLength, nil, infoLog)

	errMsg := gl.GoStr(infoLog)
	logging.ErrLog.Printf("Compilation of shader %d failed. Err: %s\n", shaderId, errMsg)
	return errors.New(errMsg)
}
