// Package pkg provides the libraries behind figfit, a layout tidier for
// figures.
//
// # Overview
//
// figfit adjusts the layout of an already-composed figure. Each routine asks
// a geometry oracle where the figure's artists would land, adjusts one
// quantity, and repeats until the measurement meets its target or the
// iteration budget runs out:
//
//  1. [title] - Wrap a long suptitle so every line fits the figure width
//  2. [layout] - Center the plot area horizontally ([layout.Center]) and
//     resize the figure so an axes reaches a target aspect ratio
//     ([layout.Aspect])
//  3. [render] - Draw the result as SVG, PNG, PDF or a JSON scene
//
// # Architecture
//
// The typical data flow:
//
//	Figure document (.toml, .yaml, .json)
//	         ↓
//	    [config] package (decode, validate, build)
//	         ↓
//	    [figure] package (canvas, axes, text, subplot params)
//	         ↓
//	    [title], [layout] packages (measure via [oracle], adjust)
//	         ↓
//	    [render] package (scene → SVG/PNG/PDF/JSON)
//
// [pipeline] runs these steps in order and is shared by the CLI and the
// HTTP API in [server].
//
// # Quick Start
//
//	fig, _ := figure.New(6.4, 4.8)
//	ax, _ := fig.AddSubplot(1, 1, 1)
//	ax.YLabel = "OD600"
//
//	g, _ := oracle.New()
//	_, _ = title.SetSuptitle(fig, g, "Optical density of three cultures over a week")
//	_, _ = layout.Center(fig, g)
//	res, _ := layout.Aspect(ax, g, 1.618)
//	if !res.Converged {
//	    // the figure keeps its last state
//	}
//
//	scene, _ := render.NewScene(fig, g)
//	svg, _ := render.RenderSVG(scene)
//
// # Supporting Packages
//
// [errors] - Error codes shared by every package and mapped to HTTP statuses
// by the server.
//
// [fonts] - Embedded Go fonts used for measuring and PNG output.
//
// [observability] - Hooks fired by the layout routines and the pipeline, with
// Prometheus collectors in [observability/prom].
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
//	go test ./pkg/...               # All tests
//	go test ./pkg/layout/...        # Specific package
//	go test -run Example ./pkg/...  # Examples only
//
// Tests that need exact geometry use the scripted oracle in
// [oracle/oracletest].
//
// [title]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/title
// [layout]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/layout
// [layout.Center]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/layout#Center
// [layout.Aspect]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/layout#Aspect
// [render]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/config
// [figure]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/figure
// [oracle]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/oracle
// [oracle/oracletest]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/oracle/oracletest
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/errors
// [fonts]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/fonts
// [observability]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/observability/prom
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/figfit/pkg/buildinfo
package pkg
