package inkwell

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// VertexStage selects how inkwell prepares per-vertex data for a program.
// Kage programs only have a fragment stage; the vertex stage runs on the CPU
// and its outputs reach the fragment function through the vertex color and
// source position.
type VertexStage uint8

const (
	// VertexFlat passes the node color with a fixed headlight term applied.
	VertexFlat VertexStage = iota
	// VertexLit passes the node color in rgb and the diffuse term from the
	// "light" input in a.
	VertexLit
	// VertexNormal passes the view-space normal mapped to 0..1 in rgb.
	VertexNormal
	// VertexTexture passes the node color and maps UVs onto Images[0].
	VertexTexture
)

// vertexDirective is the line prefix that selects a program's vertex stage.
const vertexDirective = "//inkwell:vertex"

var vertexStageNames = map[string]VertexStage{
	"flat":    VertexFlat,
	"lit":     VertexLit,
	"normal":  VertexNormal,
	"texture": VertexTexture,
}

// String returns the directive name of the stage.
func (v VertexStage) String() string {
	for name, s := range vertexStageNames {
		if s == v {
			return name
		}
	}
	return "unknown"
}

// Shader is a Kage program plus the vertex stage that feeds it. Compilation
// is deferred to the first draw (no sync.Once; inkwell is single-threaded).
type Shader struct {
	// ID is the identifier the program was loaded under.
	ID    string
	Stage VertexStage

	source   []byte
	path     string
	compiled *ebiten.Shader
	err      error
	version  int
}

// NewShader parses src and returns an uncompiled program.
func NewShader(id string, src []byte) (*Shader, error) {
	stage, err := parseVertexStage(src)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", id, err)
	}
	return &Shader{ID: id, Stage: stage, source: src}, nil
}

// parseVertexStage scans the leading comment block for the vertex directive.
// Programs without one use VertexFlat.
func parseVertexStage(src []byte) (VertexStage, error) {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "//") {
			break
		}
		rest, ok := strings.CutPrefix(line, vertexDirective)
		if !ok {
			continue
		}
		name := strings.TrimSpace(rest)
		stage, known := vertexStageNames[name]
		if !known {
			return 0, fmt.Errorf("unknown vertex stage %q", name)
		}
		return stage, nil
	}
	return VertexFlat, sc.Err()
}

// Source returns the program's Kage source.
func (s *Shader) Source() []byte {
	return s.source
}

// Version counts successful reloads.
func (s *Shader) Version() int {
	return s.version
}

// Err returns the last compile error, if any.
func (s *Shader) Err() error {
	return s.err
}

// program compiles the source on first use. A failed compile is remembered
// and not retried until the source changes.
func (s *Shader) program() (*ebiten.Shader, error) {
	if s.compiled != nil {
		return s.compiled, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	p, err := ebiten.NewShader(s.source)
	if err != nil {
		s.err = fmt.Errorf("compile %s: %w", s.ID, err)
		return nil, s.err
	}
	s.compiled = p
	return p, nil
}

// reload swaps in new source. The previous program stays in use when the new
// source fails to compile.
func (s *Shader) reload(src []byte) error {
	stage, err := parseVertexStage(src)
	if err != nil {
		return fmt.Errorf("reload %s: %w", s.ID, err)
	}
	p, err := ebiten.NewShader(src)
	if err != nil {
		return fmt.Errorf("reload %s: %w", s.ID, err)
	}
	if s.compiled != nil {
		s.compiled.Deallocate()
	}
	s.compiled = p
	s.source = src
	s.Stage = stage
	s.err = nil
	s.version++
	return nil
}

// --- Capability probe ---

const probeShaderSrc = `//kage:unit pixels
package main

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	return color
}
`

// probeShaderSupport compiles a trivial program and reports whether the
// graphics stack accepts shaders.
func probeShaderSupport() bool {
	s, err := ebiten.NewShader([]byte(probeShaderSrc))
	if err != nil {
		return false
	}
	s.Deallocate()
	return true
}
