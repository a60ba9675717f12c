package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foliokit/folio/pkg/pipeline"
	"github.com/foliokit/folio/pkg/typeset"
)

// typesetCommand creates the typeset command, the main entry point of the CLI.
func (c *CLI) typesetCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		styleKVs   []string
		refresh    bool
		noCache    bool
		detailed   bool
		debugSVG   bool
	)

	cmd := &cobra.Command{
		Use:   "typeset <manifest.toml>",
		Short: "Typeset a document manifest into pages",
		Long: `Typeset a document manifest into pages.

The typeset command loads a TOML manifest, lays out its content tree,
and re-runs layout until every page-position query the document makes
(references, outlines) agrees with the final layout. The result is
exported as layout JSON by default; DOT and SVG debug diagrams of the
frame tree are available via --format.

Results are cached locally for faster subsequent runs.

Examples:
  folio typeset report.toml
  folio typeset report.toml -f json,svg -o out/report
  folio typeset report.toml --style page.width=500 --style page.margin=24
  folio typeset report.toml --debug-svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				ManifestPath: args[0],
				Refresh:      refresh,
				Formats:      parseFormats(formatsStr),
				Detailed:     detailed,
			}
			exports := c.config().Export
			if formatsStr == "" && len(exports.Formats) > 0 {
				opts.Formats = exports.Formats
			}
			if !cmd.Flags().Changed("detailed") && exports.Detailed {
				opts.Detailed = true
			}
			if debugSVG {
				opts.Detailed = true
				opts.Formats = appendFormat(opts.Formats, pipeline.FormatSVG)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			styles, err := parseStyleOverrides(styleKVs)
			if err != nil {
				return err
			}
			opts.Styles = styles
			return c.runTypeset(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, dot (comma-separated)")
	cmd.Flags().StringArrayVar(&styleKVs, "style", nil, "style override key=value (repeatable)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the manifest even if cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "annotate diagrams with positions and sizes")
	cmd.Flags().BoolVar(&debugSVG, "debug-svg", false, "also export a detailed frame-tree SVG")

	return cmd
}

// runTypeset executes the pipeline and writes the requested artifacts.
func (c *CLI) runTypeset(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := c.newSpinner(ctx, fmt.Sprintf("Typesetting %s...", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Typesetting failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Typeset complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.PageCount, result.Passes, result.Converged, result.CacheInfo.TypesetHit)
	if !result.Converged {
		printWarning("Layout did not stabilize within %d passes; positions may be off by one pass", typeset.MaxPasses)
	}

	if jsonPath := pathFor(paths, pipeline.FormatJSON); jsonPath != "" {
		printNewline()
		printNextStep("Inspect", "folio inspect "+jsonPath)
	}

	return nil
}

// appendFormat adds format to formats unless already present.
func appendFormat(formats []string, format string) []string {
	for _, f := range formats {
		if f == format {
			return formats
		}
	}
	return append(formats, format)
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has
// a format extension, it strips that extension.
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

// writeArtifacts writes one file per requested format and returns the
// paths written, in format order. A single format with an explicit
// output keeps that name as-is; otherwise names derive from the base
// path plus the format extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		if err := writeFile(output, artifacts[formats[0]]); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if err := writeFile(path, artifacts[format]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes data to path, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// pathFor returns the written path ending in .format, or "".
func pathFor(paths []string, format string) string {
	for _, p := range paths {
		if strings.HasSuffix(p, "."+format) {
			return p
		}
	}
	return ""
}
