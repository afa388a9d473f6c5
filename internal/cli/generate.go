package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hallgen/hallgen/pkg/cache"
	hgio "github.com/hallgen/hallgen/pkg/io"
	"github.com/hallgen/hallgen/pkg/layout"
	"github.com/hallgen/hallgen/pkg/pipeline"
)

// planTTL is how long compiled plans live in the local cache.
const planTTL = 24 * time.Hour

// generateCommand creates the generate command for compiling configurations.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		seed    uint64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "generate [config.toml]",
		Short: "Compile a facility configuration into a placement plan",
		Long: `Compile a facility configuration into a placement plan.

The generate command takes a TOML or JSON configuration file describing the
hall structure, solar array, and parking classes, runs the generator pipeline,
and writes the resulting plan as JSON. The plan can then be rendered to
SVG/PNG/PDF using the 'render' command or browsed with 'view'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runGenerate(ctx, args[0], output, seed, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.plan.json)")
	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "random seed for parking occupancy")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runGenerate loads the configuration, compiles the plan, and writes output.
func (c *CLI) runGenerate(ctx context.Context, input, output string, seed uint64, noCache bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := hgio.LoadConfig(input)
	if err != nil {
		return fmt.Errorf("load config %s: %w", input, err)
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Compiling plan...")
	spinner.Start()

	plan, cached, err := compilePlan(ctx, store, cfg, seed, logger)
	if err != nil {
		spinner.StopWithError("Compile failed")
		return fmt.Errorf("compile plan: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Compiled %d instances", len(plan.Instances)))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".plan.json"
	}

	if err := hgio.ExportPlan(plan, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Plan complete")
	printFile(outputPath)
	printKeyValue("Seed", fmt.Sprintf("%d", plan.Seed))
	printKeyValue("Roof pitch", fmt.Sprintf("%.3f rad", plan.Frame.Pitch))
	printStats(len(plan.Instances), plan.Count(layout.KindParkingDivider), cached)
	printNewline()
	printNextStep("Render", "hallgen render "+outputPath)

	return nil
}

// compilePlan compiles the configuration into a plan, reading and writing
// through the cache. Cache failures fall back to a fresh compile.
func compilePlan(ctx context.Context, store cache.Cache, cfg layout.Config, seed uint64, logger *log.Logger) (*pipeline.Plan, bool, error) {
	keyer := cache.NewDefaultKeyer()
	key := keyer.PlanKey(cfg, seed)

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		var plan pipeline.Plan
		if err := json.Unmarshal(data, &plan); err == nil {
			return &plan, true, nil
		}
	}

	plan, err := pipeline.Compile(ctx, cfg, pipeline.Options{Seed: seed, Logger: logger})
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(plan); err == nil {
		if err := store.Set(ctx, key, data, planTTL); err != nil {
			printWarning("Cache write failed: %v", err)
		}
	}
	return plan, false, nil
}
