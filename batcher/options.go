package batcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/bloeys/nbatch/buffers"
	"gopkg.in/yaml.v3"
)

// Placement decides where the reorder pass puts a command that neither overlaps
// nor shares an effect with any command placed before it
type Placement uint8

const (
	Placement_Front Placement = iota
	Placement_Back
)

func (p Placement) String() string {
	switch p {
	case Placement_Front:
		return "front"
	case Placement_Back:
		return "back"
	default:
		return "unknown"
	}
}

func ParsePlacement(s string) (Placement, error) {

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return Placement_Front, nil
	case "back":
		return Placement_Back, nil
	}

	return Placement_Front, fmt.Errorf("unknown placement '%s'. Must be 'front' or 'back'", s)
}

type Options struct {
	// InitialModelPool is the number of models allocated up front
	InitialModelPool int
	// Reorder enables the per frame reorder pass. When false draws are batched in commit order.
	Reorder           bool
	FallbackPlacement Placement
	// MaxVerticesPerBuffer caps one GPU vertex buffer, at most 65535 since indices are uint16
	MaxVerticesPerBuffer int
	BufferUsage          buffers.BufUsage
}

func DefaultOptions() Options {
	return Options{
		InitialModelPool:     16,
		Reorder:              true,
		FallbackPlacement:    Placement_Front,
		MaxVerticesPerBuffer: buffers.MaxVerticesPerBuffer,
		BufferUsage:          buffers.BufUsage_Dynamic_Draw,
	}
}

// optionsFile is the yaml shape of Options. Pointers tell missing keys apart from zero values.
type optionsFile struct {
	InitialModelPool     *int   `yaml:"initial_model_pool"`
	Reorder              *bool  `yaml:"reorder"`
	FallbackPlacement    string `yaml:"fallback_placement"`
	MaxVerticesPerBuffer *int   `yaml:"max_vertices_per_buffer"`
	BufferUsage          string `yaml:"buffer_usage"`
}

// UnmarshalYAML implements yaml.Unmarshaler. Keys that are not set keep their default value.
func (o *Options) UnmarshalYAML(value *yaml.Node) error {

	var f optionsFile
	if err := value.Decode(&f); err != nil {
		return err
	}

	opts := DefaultOptions()

	if f.InitialModelPool != nil {
		if *f.InitialModelPool < 0 {
			return fmt.Errorf("initial_model_pool must not be negative, got %d", *f.InitialModelPool)
		}
		opts.InitialModelPool = *f.InitialModelPool
	}

	if f.Reorder != nil {
		opts.Reorder = *f.Reorder
	}

	if f.FallbackPlacement != "" {
		p, err := ParsePlacement(f.FallbackPlacement)
		if err != nil {
			return err
		}
		opts.FallbackPlacement = p
	}

	if f.MaxVerticesPerBuffer != nil {
		if *f.MaxVerticesPerBuffer <= 0 || *f.MaxVerticesPerBuffer > buffers.MaxVerticesPerBuffer {
			return fmt.Errorf("max_vertices_per_buffer must be in [1, %d], got %d", buffers.MaxVerticesPerBuffer, *f.MaxVerticesPerBuffer)
		}
		opts.MaxVerticesPerBuffer = *f.MaxVerticesPerBuffer
	}

	if f.BufferUsage != "" {
		u, err := buffers.ParseBufUsage(f.BufferUsage)
		if err != nil {
			return err
		}
		opts.BufferUsage = u
	}

	*o = opts
	return nil
}

func ParseOptions(data []byte) (Options, error) {

	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing batcher options: %w", err)
	}

	return opts, nil
}

func LoadOptions(path string) (Options, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading batcher options: %w", err)
	}

	return ParseOptions(data)
}
