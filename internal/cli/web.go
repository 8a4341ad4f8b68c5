package cli

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"treeedit-cli/internal/store"
	"treeedit-cli/internal/web"
)

const defaultWebAddr = "127.0.0.1:3335"

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "web <file>",
		Short: "Edit a tree file in the browser",
		Long: strings.TrimSpace(`
Serve a browser editor for one tree file. The page stays live over a
server-sent event stream; edits apply to an in-memory tree until saved.
`),
		Example: strings.TrimSpace(`
treeedit web notes/proj.txt --addr 127.0.0.1:3335
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if !cmd.Flags().Changed("addr") && app.cfg.Web.Addr != "" {
				listenAddr = app.cfg.Web.Addr
			}
			glyphs, err := app.glyphs()
			if err != nil {
				return writeErr(cmd, err)
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:     listenAddr,
				File:     store.File{Path: args[0]},
				Glyphs:   glyphs,
				ReadOnly: readOnly,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/"

			opened := false
			openErr := ""
			if open {
				if err := openPath(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}
			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      ln.Addr().String(),
					"url":       url,
					"file":      args[0],
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "treeedit web running at %s (file=%s)\n", url, args[0])

			return srv.Serve(ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultWebAddr, "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the editor in your default browser")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Serve the tree without edit controls")
	return cmd
}
