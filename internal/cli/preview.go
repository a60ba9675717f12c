package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/foliokit/folio/internal/preview"
	"github.com/foliokit/folio/pkg/session"
)

// previewCommand creates the preview server command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		addr       string
		noCache    bool
		sessionTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve typeset documents over a local HTTP API",
		Long: `Start a local HTTP server that typesets posted manifests and keeps
the results in short-lived sessions.

  POST /api/documents            typeset a manifest (body: TOML)
  GET  /api/documents            list sessions
  GET  /api/documents/{id}       full layout JSON
  GET  /api/documents/{id}/query run a selector (?element= or ?label=)
  GET  /api/documents/{id}/svg   frame-tree debug SVG

The server runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if !cmd.Flags().Changed("addr") {
				if configured := c.config().Preview.Addr; configured != "" {
					addr = configured
				}
			}

			backend, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer backend.Close()

			srv := preview.New(preview.Config{
				Addr:       addr,
				Cache:      backend,
				Logger:     c.Logger,
				SessionTTL: sessionTTL,
			})

			printInfo("Preview server listening on %s", StyleHighlight.Render("http://"+addr))
			printDetail("POST a TOML manifest to /api/documents to typeset it")
			printNewline()

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", preview.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the typeset cache")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", session.DefaultTTL, "how long sessions live")

	return cmd
}
