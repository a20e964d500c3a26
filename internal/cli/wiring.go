package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartolab/mapgrid/pkg/cache"
	"github.com/cartolab/mapgrid/pkg/manifest"
	"github.com/cartolab/mapgrid/pkg/pipeline"
)

// diagramFormats is the subset of formats the wiring command accepts.
var diagramFormats = map[string]bool{
	pipeline.FormatDOT: true,
	pipeline.FormatSVG: true,
	pipeline.FormatPNG: true,
}

// wiringCommand creates the wiring command for rendering sync topology diagrams.
func (c *CLI) wiringCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "wiring [manifest.toml]",
		Short: "Render the sync wiring of a manifest as a diagram",
		Long: `Render the sync wiring of a manifest as a diagram.

The wiring command shows which panels are linked to which: every panel
becomes a node and every link command becomes a directed edge. Solid edges
share the cursor, dashed edges do not. Useful for checking group
configurations before composing the full page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseDiagramFormats(formatsStr)
			for _, f := range formats {
				if !diagramFormats[f] {
					return fmt.Errorf("invalid diagram format: %q (must be one of: dot, svg, png)", f)
				}
			}
			return c.runWiring(cmd, args[0], formats, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseDiagramFormats parses the --format flag, defaulting to svg.
func parseDiagramFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return parseFormats(s)
}

// runWiring composes the manifest and writes the wiring diagrams.
func (c *CLI) runWiring(cmd *cobra.Command, input string, formats []string, output string, noCache bool) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", input, err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", input, err)
	}

	opts, err := composeOptions(cmd, m, composeFlags{})
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.SourceHash = cache.Hash(data)

	runner, err := c.newRunner(ctx, noCache, "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering wiring diagram...")
	spinner.Start()

	result, err := runner.Compose(ctx, m.Widgets(), opts)
	if err != nil {
		spinner.StopWithError("Diagram failed")
		return fmt.Errorf("wiring: %w", err)
	}
	spinner.Stop()

	if result.Stats.LinkCount == 0 {
		printWarning("Manifest declares no sync links; the diagram has no edges")
	}

	return writeArtifacts(artifactWriteParams{
		artifacts:  result.Artifacts,
		formats:    opts.Formats,
		input:      input,
		output:     output,
		cacheHit:   result.CacheInfo.RenderHit,
		panelCount: result.Stats.PanelCount,
		linkCount:  result.Stats.LinkCount,
	})
}
