package shaders

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const stageMarker = "//shader:"

var stageNames = []struct {
	name string
	typ  ShaderType
}{
	{"vertex", ShaderType_Vertex},
	{"fragment", ShaderType_Fragment},
	{"geometry", ShaderType_Geometry},
}

var (
	ErrNoStages        = errors.New("shader source has no '//shader:' stages")
	ErrMissingVertex   = errors.New("shader source has no '//shader:vertex' stage")
	ErrMissingFragment = errors.New("shader source has no '//shader:fragment' stage")
	ErrUnknownStage    = errors.New("unknown shader stage")
	ErrDuplicateStage  = errors.New("duplicate shader stage")
)

// Stage is the source of one shader stage of a combined source
type Stage struct {
	Type ShaderType
	Src  []byte
}

// Source is a parsed combined shader source. Stages are in the order they appear.
type Source struct {
	Stages []Stage
}

// WithDefines returns a copy of the source where every stage has the given lines inserted
// right after its '#version' line, or at the top when it has none.
func (s Source) WithDefines(lines []string) Source {

	if len(lines) == 0 {
		return s
	}

	block := []byte(strings.Join(lines, "\n") + "\n")
	out := Source{Stages: make([]Stage, len(s.Stages))}
	for i, st := range s.Stages {
		out.Stages[i] = Stage{Type: st.Type, Src: injectAfterVersion(st.Src, block)}
	}

	return out
}

func injectAfterVersion(src, block []byte) []byte {

	res := make([]byte, 0, len(src)+len(block))

	versionAt := bytes.Index(src, []byte("#version"))
	if versionAt == -1 {
		res = append(res, block...)
		return append(res, src...)
	}

	lineEnd := bytes.IndexByte(src[versionAt:], '\n')
	if lineEnd == -1 {
		res = append(res, src...)
		res = append(res, '\n')
		return append(res, block...)
	}

	split := versionAt + lineEnd + 1
	res = append(res, src[:split]...)
	res = append(res, block...)
	return append(res, src[split:]...)
}

// ParseSource splits a combined source into its stages. Each stage starts with a
// '//shader:vertex', '//shader:fragment' or '//shader:geometry' line. Vertex and fragment
// stages are required.
func ParseSource(src []byte) (Source, error) {

	parts := bytes.Split(src, []byte(stageMarker))
	if len(parts) < 2 {
		return Source{}, ErrNoStages
	}

	var s Source
	var seen [shaderType_Count]bool
	for i, part := range parts {

		// Text before the first marker
		if i == 0 {
			if len(bytes.TrimSpace(part)) != 0 {
				return Source{}, fmt.Errorf("%w: text before the first stage marker", ErrUnknownStage)
			}
			continue
		}

		typ, body, ok := stageOf(part)
		if !ok {
			name, _, _ := bytes.Cut(part, []byte("\n"))
			return Source{}, fmt.Errorf("%w: '%s'", ErrUnknownStage, bytes.TrimSpace(name))
		}

		if seen[typ] {
			return Source{}, fmt.Errorf("%w: '%s'", ErrDuplicateStage, typ)
		}

		seen[typ] = true
		s.Stages = append(s.Stages, Stage{Type: typ, Src: body})
	}

	if !seen[ShaderType_Vertex] {
		return Source{}, ErrMissingVertex
	}

	if !seen[ShaderType_Fragment] {
		return Source{}, ErrMissingFragment
	}

	return s, nil
}

func stageOf(part []byte) (ShaderType, []byte, bool) {

	for _, sn := range stageNames {
		if bytes.HasPrefix(part, []byte(sn.name)) {
			return sn.typ, part[len(sn.name):], true
		}
	}

	return ShaderType_Unknown, nil, false
}
