// Package render draws a laid-out figure.
//
// # Overview
//
// Rendering starts from a [Scene]: a snapshot of the figure's geometry taken
// after the layout routines have run. The scene records the canvas size, the
// applied subplot parameters, every axes' data rectangle and decoration box,
// and every text artist with its measured bounding box. All sinks draw from
// the same scene, so SVG, PNG, PDF and JSON output agree.
//
// # Sinks
//
//   - [RenderSVG]: hand-written SVG, one <rect> per axes frame and one <text>
//     per label
//   - [RenderPNG]: raster output drawn with github.com/fogleman/gg using the
//     same font faces the metrics oracle measures with
//   - [RenderPDF]: SVG converted by the external rsvg-convert tool
//   - [RenderJSON]: the scene itself, for inspecting or testing a layout
//
//	scene, err := render.NewScene(fig, o)
//	svg := render.RenderSVG(scene)
//	png, err := render.RenderPNG(scene, o)
//	pdf, err := render.RenderPDF(scene)
//
// The drawing is schematic: frames, ticks and labels sit where the layout
// put them, but no data is plotted.
package render
