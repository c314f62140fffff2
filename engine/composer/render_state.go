package composer

// DepthTest is the comparison applied against the depth buffer.
type DepthTest int

const (
	// DepthTestLess passes fragments closer than the stored depth.
	DepthTestLess DepthTest = iota

	// DepthTestAlways disables depth rejection.
	DepthTestAlways
)

// CullMode selects which screen-space winding is discarded.
type CullMode int

const (
	// CullNone draws both windings.
	CullNone CullMode = iota

	// CullClockwise discards triangles that appear clockwise on screen.
	CullClockwise

	// CullCounterClockwise discards triangles that appear counter-clockwise on screen.
	CullCounterClockwise
)

// RenderState is the fixed-function state a draw is issued with.
type RenderState struct {
	DepthTest  DepthTest
	DepthWrite bool
	Cull       CullMode
}

// DefaultRenderState returns depth test less-than with depth writes on and clockwise culling.
//
// Returns:
//   - RenderState: the state every frame is drawn with
func DefaultRenderState() RenderState {
	return RenderState{
		DepthTest:  DepthTestLess,
		DepthWrite: true,
		Cull:       CullClockwise,
	}
}

// DrawCall is the single draw issued per frame.
type DrawCall struct {
	State RenderState
}

// Target is the graphics backend a frame is composed onto.
// Calls arrive in order BeginFrame, WriteUniforms, Draw, EndFrame, Present, all on the loop thread.
type Target interface {
	// BeginFrame acquires the next surface image and clears color and depth.
	// Returning ErrFrameSkipped drops the frame without error.
	BeginFrame() error

	// WriteUniforms uploads the marshaled uniform bundle.
	WriteUniforms(data []byte) error

	// Draw records one indexed draw of the mesh.
	Draw(call DrawCall) error

	// EndFrame finishes recording and submits the frame's commands.
	EndFrame() error

	// Present shows the submitted image.
	Present() error
}
