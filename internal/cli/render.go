package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	hgio "github.com/hallgen/hallgen/pkg/io"
	"github.com/hallgen/hallgen/pkg/pipeline"
	"github.com/hallgen/hallgen/pkg/render"
	"github.com/hallgen/hallgen/pkg/render/flow"
	"github.com/hallgen/hallgen/pkg/render/site"
)

const (
	viewSite = "site" // top-down site plan
	viewFlow = "flow" // generator dataflow diagram

	// pngScale is the resolution multiplier for PNG exports.
	pngScale = 2.0
)

// renderOpts holds the command-line flags for the render command.
// These options control visualization types, drawing options, and output formats.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	vizTypes []string // visualization types: "site", "flow"
	formats  []string // output formats: "svg", "pdf", "png", "dot"
	detailed bool     // show per-stage counts in flow diagrams
	scale    float64  // site plan scale in pixels per meter
	noRoof   bool     // hide roof slopes and solar panels in the site plan
	title    bool     // draw a summary title on the site plan
}

// renderCommand creates the render command for generating visualizations.
// It supports multiple visualization types (site, flow) and output formats
// (SVG, PDF, PNG, DOT).
func (c *CLI) renderCommand() *cobra.Command {
	var vizTypesStr, formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [plan.json]",
		Short: "Render a placement plan to SVG(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.vizTypes = parseVizTypes(vizTypesStr)
			opts.formats = parseFormats(formatsStr)
			if err := validateVizTypes(opts.vizTypes); err != nil {
				return err
			}
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return runRender(ctx, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single type/format) or base path (multiple)")
	cmd.Flags().StringVarP(&vizTypesStr, "type", "t", "", "visualization type(s): site (default), flow (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show detailed information (flow)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "site plan scale in pixels per meter (default 10)")
	cmd.Flags().BoolVar(&opts.noRoof, "no-roof", false, "hide roof slopes and solar panels (site)")
	cmd.Flags().BoolVar(&opts.title, "title", false, "draw a summary title (site)")

	return cmd
}

// parseVizTypes parses the --type flag into a slice of visualization types.
// If empty, defaults to ["site"].
func parseVizTypes(s string) []string {
	if s == "" {
		return []string{viewSite}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"svg": true, "pdf": true, "png": true, "dot": true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'pdf', 'png', or 'dot')", f)
		}
	}
	return nil
}

// validateVizTypes checks that all requested types are either "site" or "flow".
func validateVizTypes(types []string) error {
	for _, t := range types {
		if t != viewSite && t != viewFlow {
			return fmt.Errorf("invalid type: %s (must be 'site' or 'flow')", t)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
// This is used when generating multiple files (e.g., hall_site.svg, hall_flow.svg).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// runRender loads the plan from input and renders it to the requested formats.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	plan, err := hgio.ImportPlan(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded plan: %d instances, seed %d", len(plan.Instances), plan.Seed)

	if len(opts.vizTypes) == 1 && len(opts.formats) == 1 {
		return renderSingle(ctx, plan, opts.vizTypes[0], opts.formats[0], input, opts)
	}
	return renderMultiple(ctx, plan, input, opts)
}

// renderSingle renders a single visualization type and format to a single output file.
// If opts.output is empty, the output path is derived from the input file name.
func renderSingle(ctx context.Context, plan *pipeline.Plan, vizType, format, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := renderPlan(ctx, plan, vizType, format, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", format, len(data))

	outputPath := opts.output
	if outputPath == "" {
		outputPath = basePath("", input) + "." + format
	}

	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return err
	}

	logger.Infof("Generated %s", outputPath)
	return nil
}

// renderMultiple renders all requested visualization type/format combinations
// to separate files. File names are derived from basePath and include the
// visualization type when multiple types are requested.
func renderMultiple(ctx context.Context, plan *pipeline.Plan, input string, opts *renderOpts) error {
	base := basePath(opts.output, input)

	for _, vizType := range opts.vizTypes {
		for _, format := range opts.formats {
			if err := renderAndWrite(ctx, plan, vizType, format, base, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderAndWrite renders a single viz/format combination and writes it to a file.
// If the combination is unsupported (e.g., site DOT), it is silently skipped
// with a debug log.
func renderAndWrite(ctx context.Context, plan *pipeline.Plan, vizType, format, basePath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	data, err := renderPlan(ctx, plan, vizType, format, opts)
	if errors.Is(err, errSkipFormat) {
		logger.Debugf("Skipping %s/%s (unsupported combination)", vizType, format)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s/%s: %w", vizType, format, err)
	}

	// Build filename: base_type.format (or base.format if single type)
	var path string
	if len(opts.vizTypes) == 1 {
		path = fmt.Sprintf("%s.%s", basePath, format)
	} else {
		path = fmt.Sprintf("%s_%s.%s", basePath, vizType, format)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	logger.Infof("Generated %s", path)
	return nil
}

// errSkipFormat is a sentinel error indicating an unsupported format/visualization combination.
var errSkipFormat = fmt.Errorf("skip unsupported format")

// renderPlan dispatches to the appropriate renderer based on vizType.
// It returns errSkipFormat for unsupported combinations (e.g., site DOT).
func renderPlan(ctx context.Context, plan *pipeline.Plan, vizType, format string, opts *renderOpts) ([]byte, error) {
	switch vizType {
	case viewFlow:
		return renderFlow(ctx, plan, format, opts)
	case viewSite:
		return renderSite(ctx, plan, format, opts)
	default:
		return nil, fmt.Errorf("unknown visualization type: %s", vizType)
	}
}

// renderFlow generates a generator dataflow diagram using Graphviz.
// It supports SVG, PDF, PNG, and raw DOT output.
func renderFlow(ctx context.Context, plan *pipeline.Plan, format string, opts *renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)
	logger.Info("Generating dataflow diagram")
	dot := flow.ToDOT(plan, flow.Options{Detailed: opts.detailed})

	switch format {
	case "svg":
		logger.Info("Rendering dataflow SVG")
		return flow.RenderSVG(dot)
	case "pdf":
		logger.Info("Rendering dataflow PDF")
		return flow.RenderPDF(dot)
	case "png":
		logger.Info("Rendering dataflow PNG")
		return flow.RenderPNG(dot, pngScale)
	case "dot":
		return []byte(dot), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// renderSite generates a top-down site plan.
// It supports SVG, PDF, and PNG formats. DOT is not supported (returns errSkipFormat).
func renderSite(ctx context.Context, plan *pipeline.Plan, format string, opts *renderOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)

	svg := site.RenderSVG(plan, buildSiteOpts(opts)...)

	switch format {
	case "svg":
		logger.Info("Rendering site SVG")
		return svg, nil
	case "pdf":
		logger.Info("Rendering site PDF")
		return render.ToPDF(svg)
	case "png":
		logger.Info("Rendering site PNG")
		return render.ToPNG(svg, pngScale)
	case "dot":
		return nil, errSkipFormat // DOT export only makes sense for flow
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// buildSiteOpts constructs site rendering options from the command flags.
func buildSiteOpts(opts *renderOpts) []site.SVGOption {
	var result []site.SVGOption
	if opts.scale > 0 {
		result = append(result, site.WithScale(opts.scale))
	}
	if opts.noRoof {
		result = append(result, site.WithoutRoof())
	}
	if opts.title {
		result = append(result, site.WithTitle())
	}
	return result
}
