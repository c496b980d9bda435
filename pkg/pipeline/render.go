package pipeline

import (
	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/oracle"
	"github.com/matzehuels/figfit/pkg/render"
)

// Render generates output artifacts in the requested formats.
//
// PNG output draws with o's font faces when o can supply them, so raster
// text matches the measured layout.
func Render(fig *figure.Figure, o oracle.Oracle, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	scene, err := render.NewScene(fig, o)
	if err != nil {
		return nil, err
	}

	var svgOpts []render.SVGOption
	if opts.BBoxes {
		svgOpts = append(svgOpts, render.WithBBoxes())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(scene, svgOpts...)
		case FormatPNG:
			var src render.FaceSource
			if src, err = faceSource(o); err == nil {
				data, err = render.RenderPNG(scene, src, render.WithScale(opts.Scale))
			}
		case FormatPDF:
			data, err = render.RenderPDF(scene, svgOpts...)
		case FormatJSON:
			data, err = render.RenderJSON(scene)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.Wrap(code, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func faceSource(o oracle.Oracle) (render.FaceSource, error) {
	if src, ok := o.(render.FaceSource); ok {
		return src, nil
	}
	return oracle.New()
}
