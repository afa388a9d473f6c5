// Package flow renders the generator dataflow of a compiled plan as a
// Graphviz diagram: configuration into frame geometry, geometry into the
// structure and solar generators, and everything into the final plan.
// It is a quick way to see where a plan's instances come from and how
// many each generator contributed.
package flow

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/pipeline"
	"github.com/hallgen/hallgen/pkg/render"
)

// Options configures dataflow diagram rendering.
type Options struct {
	// Detailed includes instance counts and frame measurements in node
	// labels. When false, only stage names are shown.
	Detailed bool
}

// ToDOT converts a plan's generator dataflow to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF],
// or [RenderPNG].
func ToDOT(p *pipeline.Plan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph hallgen {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q];\n", "config", configLabel(p, opts.Detailed))
	fmt.Fprintf(&buf, "  %q [label=%q];\n", "frame", frameLabel(p, opts.Detailed))
	fmt.Fprintf(&buf, "  %q [label=%q];\n", pipeline.StageStructure,
		stageLabel(p, pipeline.StageStructure, opts.Detailed,
			layout.KindColumn, layout.KindRafter, layout.KindRoofSlope))
	fmt.Fprintf(&buf, "  %q [label=%q];\n", pipeline.StageSolar,
		stageLabel(p, pipeline.StageSolar, opts.Detailed, layout.KindSolarPanel))
	fmt.Fprintf(&buf, "  %q [label=%q];\n", pipeline.StageParking,
		stageLabel(p, pipeline.StageParking, opts.Detailed,
			layout.KindParkingDivider, layout.KindVehicle))
	fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,bold\"];\n", "plan", planLabel(p, opts.Detailed))

	buf.WriteString("\n")
	for _, e := range [][2]string{
		{"config", "frame"},
		{"frame", pipeline.StageStructure},
		{"frame", pipeline.StageSolar},
		{"config", pipeline.StageParking},
		{pipeline.StageStructure, "plan"},
		{pipeline.StageSolar, "plan"},
		{pipeline.StageParking, "plan"},
	} {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func configLabel(p *pipeline.Plan, detailed bool) string {
	if !detailed {
		return "config"
	}
	s := p.Config.Structure
	return fmt.Sprintf("config\n%gm x %gm, seed %d", s.Length, s.Width, p.Seed)
}

func frameLabel(p *pipeline.Plan, detailed bool) string {
	if !detailed {
		return "frame"
	}
	return fmt.Sprintf("frame\npitch %.3f rad\nslope %.2fm", p.Frame.Pitch, p.Frame.SlopeLength)
}

func stageLabel(p *pipeline.Plan, stage string, detailed bool, kinds ...layout.Kind) string {
	if !detailed {
		return stage
	}
	label := stage
	for _, k := range kinds {
		label += fmt.Sprintf("\n%s: %d", k, p.Count(k))
	}
	return label
}

func planLabel(p *pipeline.Plan, detailed bool) string {
	if !detailed {
		return "plan"
	}
	return fmt.Sprintf("plan\n%d instances", len(p.Instances))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
