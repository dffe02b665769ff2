package shaders

import (
	"errors"
	"strings"
	"testing"
)

const combined = `//shader:vertex
#version 410
void main() {}

//shader:fragment
#version 410
out vec4 c;
void main() { c = vec4(1); }
`

func TestParseSource(t *testing.T) {

	s, err := ParseSource([]byte(combined))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(s.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(s.Stages))
	}

	if s.Stages[0].Type != ShaderType_Vertex || s.Stages[1].Type != ShaderType_Fragment {
		t.Fatalf("unexpected stage order: %s, %s", s.Stages[0].Type, s.Stages[1].Type)
	}

	if !strings.Contains(string(s.Stages[1].Src), "out vec4 c;") {
		t.Fatalf("fragment stage lost its body: %q", s.Stages[1].Src)
	}
}

func TestParseSourceErrors(t *testing.T) {

	tests := []struct {
		name string
		src  string
		err  error
	}{
		{"empty", "", ErrNoStages},
		{"no vertex", "//shader:fragment\nvoid main() {}", ErrMissingVertex},
		{"no fragment", "//shader:vertex\nvoid main() {}", ErrMissingFragment},
		{"unknown", "//shader:compute\nvoid main() {}", ErrUnknownStage},
		{"leading text", "#version 410\n//shader:vertex\n//shader:fragment\n", ErrUnknownStage},
		{"duplicate", "//shader:vertex\n//shader:vertex\n//shader:fragment\n", ErrDuplicateStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource([]byte(tt.src))
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestWithDefines(t *testing.T) {

	s, err := ParseSource([]byte(combined))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := s.WithDefines([]string{"#define A 1", "#define B 2"})
	for _, st := range d.Stages {
		got := string(st.Src)
		if !strings.Contains(got, "#version 410\n#define A 1\n#define B 2\n") {
			t.Fatalf("%s stage: defines not placed after #version:\n%s", st.Type, got)
		}
	}

	// The parsed source is left untouched
	if strings.Contains(string(s.Stages[0].Src), "#define") {
		t.Fatal("WithDefines modified the parsed source")
	}
}

func TestInjectAfterVersion(t *testing.T) {

	block := []byte("#define X 1\n")
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no version", "void main() {}", "#define X 1\nvoid main() {}"},
		{"version last line", "#version 410", "#version 410\n#define X 1\n"},
		{"version first", "\n#version 410 core\nvoid main() {}", "\n#version 410 core\n#define X 1\nvoid main() {}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(injectAfterVersion([]byte(tt.src), block))
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestShaderTypeTables(t *testing.T) {

	tests := []struct {
		typ  ShaderType
		name string
		gl   bool
	}{
		{ShaderType_Vertex, "vertex", true},
		{ShaderType_Fragment, "fragment", true},
		{ShaderType_Geometry, "geometry", true},
		{ShaderType_Unknown, "unknown", false},
		{ShaderType(200), "unknown", false},
	}

	for _, tt := range tests {
		if tt.typ.String() != tt.name {
			t.Errorf("Expected name '%s' but got '%s'", tt.name, tt.typ.String())
		}

		if (tt.typ.ToGl() != 0) != tt.gl {
			t.Errorf("%s: unexpected gl enum %d", tt.name, tt.typ.ToGl())
		}
	}
}
