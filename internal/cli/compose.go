package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cartolab/mapgrid/pkg/cache"
	"github.com/cartolab/mapgrid/pkg/manifest"
	"github.com/cartolab/mapgrid/pkg/pipeline"
	"github.com/cartolab/mapgrid/pkg/wiring"
)

// composeFlags holds the command-line flags for the compose command.
type composeFlags struct {
	output        string // output file path (single format) or base path (multiple)
	formats       string // comma-separated output formats
	ncol          int    // grid columns
	sync          string // sync spec override: "all", "none", or "0,1;2,3"
	cursor        bool   // share the cursor position across linked panels
	noInitialSync bool   // skip view alignment at link time
	title         string // page title override
	noCache       bool   // disable artifact caching
	refresh       bool   // bypass cached artifacts
}

// composeCommand creates the compose command for building a view from a manifest.
func (c *CLI) composeCommand() *cobra.Command {
	var flags composeFlags

	cmd := &cobra.Command{
		Use:   "compose [manifest.toml]",
		Short: "Compose a panel grid from a manifest and render it",
		Long: `Compose a panel grid from a manifest and render it.

The compose command reads a TOML manifest declaring map panels, arranges
them into a grid, expands the declared sync groups into link commands, and
renders the result. The default output is a self-contained HTML page; the
plan itself (json) and wiring diagrams (dot, svg, png) are also available.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runCompose(cmd, args[0], formats, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): html (default), json, dot, svg, png (comma-separated)")
	cmd.Flags().IntVar(&flags.ncol, "ncol", 0, "number of grid columns (overrides manifest)")
	cmd.Flags().StringVar(&flags.sync, "sync", "", "sync spec: all, none, or index groups like 0,1;2,3 (overrides manifest)")
	cmd.Flags().BoolVar(&flags.cursor, "cursor", false, "share the cursor position across linked panels")
	cmd.Flags().BoolVar(&flags.noInitialSync, "no-initial-sync", false, "skip the view alignment when panels are linked")
	cmd.Flags().StringVar(&flags.title, "title", "", "page title (overrides manifest)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "re-render even if cached artifacts exist")

	return cmd
}

// runCompose loads the manifest, runs the pipeline, and writes the artifacts.
func (c *CLI) runCompose(cmd *cobra.Command, input string, formats []string, flags composeFlags) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", input, err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return fmt.Errorf("manifest %s: %w", input, err)
	}

	opts, err := composeOptions(cmd, m, flags)
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.SourceHash = cache.Hash(data)

	runner, err := c.newRunner(ctx, flags.noCache, "")
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %d panels...", len(m.Panels)))
	spinner.Start()

	result, err := runner.Compose(ctx, m.Widgets(), opts)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return fmt.Errorf("compose: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts:  result.Artifacts,
		formats:    opts.Formats,
		input:      input,
		output:     flags.output,
		cacheHit:   result.CacheInfo.RenderHit,
		panelCount: result.Stats.PanelCount,
		linkCount:  result.Stats.LinkCount,
	})
}

// composeOptions builds pipeline options from the manifest with flag overrides.
// Flags only override manifest values when explicitly set on the command line.
func composeOptions(cmd *cobra.Command, m *manifest.Manifest, flags composeFlags) (pipeline.Options, error) {
	opts := pipeline.LatticeOptions()

	if spec := m.SyncSpec(); !spec.IsZero() {
		opts.Sync = spec
	}
	opts.Ncol = m.Ncol
	opts.SyncCursor = m.SyncCursor
	opts.NoInitialSync = m.NoInitialSync
	opts.Title = m.Title

	if cmd.Flags().Changed("sync") {
		spec, err := wiring.Parse(flags.sync)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Sync = spec
	}
	if cmd.Flags().Changed("ncol") {
		opts.Ncol = flags.ncol
	}
	if cmd.Flags().Changed("cursor") {
		opts.SyncCursor = flags.cursor
	}
	if cmd.Flags().Changed("no-initial-sync") {
		opts.NoInitialSync = flags.noInitialSync
	}
	if cmd.Flags().Changed("title") {
		opts.Title = flags.title
	}
	opts.Refresh = flags.refresh

	return opts, nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts  map[string][]byte
	formats    []string
	input      string
	output     string
	cacheHit   bool
	panelCount int
	linkCount  int
}

// writeArtifacts writes each rendered format to its output file and prints
// a summary. With a single format, --output names the file directly; with
// multiple formats it is the base path and each file gets its format as
// extension.
func writeArtifacts(p artifactWriteParams) error {
	var paths []string

	if len(p.formats) == 1 {
		path := p.output
		if path == "" {
			path = basePath("", p.input) + "." + p.formats[0]
		}
		if err := writeFile(path, p.artifacts[p.formats[0]]); err != nil {
			return err
		}
		paths = append(paths, path)
	} else {
		base := basePath(p.output, p.input)
		for _, format := range p.formats {
			path := base + "." + format
			if err := writeFile(path, p.artifacts[format]); err != nil {
				return err
			}
			paths = append(paths, path)
		}
	}

	printSuccess("Composed view")
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.panelCount, p.linkCount, p.cacheHit)

	for i, format := range p.formats {
		if format == pipeline.FormatHTML {
			printNextStep("Open the page", "open "+paths[i])
			break
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output ends in a
// known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is "-", it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// writeFile writes data to path via openOutput.
func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
