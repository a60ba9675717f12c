package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/pipeline"
)

// queryCommand creates the query command for locating elements in a
// typeset document.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "query <manifest.toml> <selector>",
		Short: "Typeset a manifest and locate matching elements",
		Long: `Typeset a manifest and locate matching elements.

The selector is an element name (e.g. "heading") or a label prefixed
with "label:" (e.g. "label:intro"). The command runs the full typeset
pipeline, then queries the final document's index and prints each
match with its resolved page and position.

Examples:
  folio query report.toml heading
  folio query report.toml label:intro`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			selector, err := parseSelector(args[1])
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				ManifestPath: args[0],
				Refresh:      refresh,
				Formats:      []string{pipeline.FormatJSON},
			}
			return c.runQuery(cmd.Context(), args[0], selector, opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the manifest even if cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseSelector converts a CLI selector argument into a document selector.
func parseSelector(arg string) (doc.Selector, error) {
	if label, ok := strings.CutPrefix(arg, "label:"); ok {
		if err := errors.ValidateLabel(label); err != nil {
			return nil, err
		}
		return doc.SelectLabel(label), nil
	}
	if err := errors.ValidateElementName(arg); err != nil {
		return nil, err
	}
	return doc.SelectElement(arg), nil
}

// runQuery typesets the manifest and prints the selector's matches.
func (c *CLI) runQuery(ctx context.Context, input string, selector doc.Selector, opts pipeline.Options, noCache bool) error {
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

	matches := result.Introspector.Locate(selector)
	if len(matches) == 0 {
		printWarning("No matches for %s", selector.Key())
		return nil
	}

	printSuccess("%d matches for %s", len(matches), StyleHighlight.Render(selector.Key()))
	for _, m := range matches {
		label := m.Content.Label()
		if label != "" {
			label = " [" + label + "]"
		}
		if loc, ok := m.Content.Location(); ok {
			printDetail("page %d  (%.1f, %.1f)  %s%s", loc.Page, loc.Pos.X, loc.Pos.Y, m.Content.Elem(), label)
		} else {
			printDetail("unplaced  %s%s", m.Content.Elem(), label)
		}
	}

	return nil
}
