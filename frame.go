package layerfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/layerfx/graph"
)

// depthFormat is the descriptor format used when importing the camera's
// depth surface. The graph never realizes imported surfaces, so the
// format only documents what the backing is.
const depthFormat = gputypes.TextureFormatDepth24PlusStencil8

// RenderFrame builds and runs one camera's frame: it imports the camera
// targets into a fresh graph, records every enqueued pass in event order,
// compiles and executes. Handles minted for this frame die with it.
//
// A camera with missing or zero-sized targets still produces a valid,
// empty frame: every pass skips, the graph compiles to nothing, and the
// camera's color buffer is left untouched.
func RenderFrame(frame uint64, cam Camera, cull CullResults, fl *FrameList, ex graph.Executor) error {
	b := graph.NewBuilder(frame)

	target := CameraTarget{
		Width:      cam.Width,
		Height:     cam.Height,
		Backbuffer: cam.Backbuffer,
	}
	target.Color = b.ImportTexture(graph.TextureDesc{
		Label:  "camera color",
		Width:  cam.Width,
		Height: cam.Height,
		Format: tempFormat,
	}, cam.Color)
	target.Depth = b.ImportTexture(graph.TextureDesc{
		Label:  "camera depth",
		Width:  cam.Width,
		Height: cam.Height,
		Format: depthFormat,
	}, cam.Depth)

	fc := &FrameContext{
		Frame:  frame,
		Camera: target,
		Cull:   cull,
	}
	for _, p := range fl.Passes() {
		p.Record(fc, b)
	}

	g, err := b.Compile()
	if err != nil {
		return fmt.Errorf("layerfx: frame %d: %w", frame, err)
	}
	propagateLogger(ex, Logger())
	return g.Execute(ex)
}
