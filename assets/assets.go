// Package assets embeds the static mesh, audio clip, shaders and default configuration
// shipped with the binary. Nothing is read from disk at runtime.
package assets

import (
	_ "embed"
)

// MeshGLB is the binary glTF mesh drawn every frame.
//
//go:embed torus.glb
var MeshGLB []byte

// LoopAudio is the background track played on an infinite loop.
//
//go:embed loop.wav
var LoopAudio []byte

// VertexShaderSource is the WGSL vertex stage consuming the frame uniform bundle.
//
//go:embed shaders/spin-vert.wgsl
var VertexShaderSource string

// FragmentShaderSource is the WGSL fragment stage shading with the directional light.
//
//go:embed shaders/spin-frag.wgsl
var FragmentShaderSource string

// DefaultConfig is the YAML session configuration.
//
//go:embed spinner.yaml
var DefaultConfig []byte
