// Command layerfxdemo renders the layer effect pipeline on the software
// executor and saves the composited camera target as a PNG.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/layerfx"
	"github.com/gogpu/layerfx/softrender"
)

func main() {
	var (
		width      = flag.Int("width", 640, "image width")
		height     = flag.Int("height", 480, "image height")
		radius     = flag.Float64("radius", 0.9, "falloff radius in normalized units")
		smoothness = flag.Float64("smoothness", 0.6, "falloff edge width")
		output     = flag.String("output", "layerfx.png", "output file")
	)
	flag.Parse()

	target := drawBackground(*width, *height)

	feature, err := layerfx.NewFeature(
		layerfx.WithLayers(1<<2),
		layerfx.WithQueueRange(layerfx.QueueTransparent),
		layerfx.WithMaterial(layerfx.NewFalloffMaterial(
			gputypes.Color{R: 1, G: 0.85, B: 0.4, A: 1}, *radius, *smoothness)),
	)
	if err != nil {
		log.Fatalf("Failed to build feature: %v", err)
	}

	var frameList layerfx.FrameList
	feature.Enqueue(&frameList)

	cam := layerfx.Camera{
		Width:  uint32(*width),
		Height: uint32(*height),
		Color:  target,
		Depth:  &struct{}{},
	}
	cull := cullBlobs(*width, *height)

	ex := softrender.New()
	if err := layerfx.RenderFrame(1, cam, cull, &frameList, ex); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := savePNG(*output, target); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// drawBackground fills the camera color target with a vertical gradient.
func drawBackground(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h)
		c := color.RGBA{
			R: uint8(25 + t*100),
			G: uint8(50 + t*75),
			B: uint8(100 + t*50),
			A: 255,
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// cullBlobs produces the frame's visible draw items: three overlapping
// circles on layer 2 in the transparent queue, plus an opaque item the
// feature's filter rejects.
func cullBlobs(w, h int) layerfx.CullResults {
	cx, cy := float64(w)/2, float64(h)/2
	r := float64(h) / 4
	blob := color.RGBA{255, 255, 255, 255}
	return layerfx.CullResults{Items: []layerfx.DrawItem{
		{Layer: 1 << 2, Queue: 3000, Tag: layerfx.TagForward,
			Payload: softrender.Circle{CX: cx - r*0.9, CY: cy, R: r, Color: blob}},
		{Layer: 1 << 2, Queue: 3000, Tag: layerfx.TagForward,
			Payload: softrender.Circle{CX: cx + r*0.9, CY: cy, R: r, Color: blob}},
		{Layer: 1 << 2, Queue: 3100, Tag: layerfx.TagForwardOnly,
			Payload: softrender.Circle{CX: cx, CY: cy - r*0.8, R: r * 0.8, Color: blob}},
		// Filtered out: opaque queue.
		{Layer: 1 << 2, Queue: 2000, Tag: layerfx.TagForward,
			Payload: softrender.Fill{Color: color.RGBA{255, 0, 0, 255}}},
	}}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
