package cli

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"treeedit-cli/internal/webtui"
)

const defaultWebTUIAddr = "127.0.0.1:3334"

func newWebTUICmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "webtui <file>",
		Short: "Run the terminal editor in your browser (PTY + WebSocket)",
		Long: strings.TrimSpace(`
Run the terminal editor over the web via a server-side PTY and a browser
terminal emulator. Each browser tab starts its own editor process on the
server; there is no authentication.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if !cmd.Flags().Changed("addr") && app.cfg.WebTUI.Addr != "" {
				listenAddr = app.cfg.WebTUI.Addr
			}

			srv, err := webtui.NewServer(webtui.ServerConfig{
				Addr:   listenAddr,
				File:   args[0],
				Glyphs: strings.TrimSpace(app.Glyphs),
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return writeErr(cmd, err)
			}
			url := "http://" + ln.Addr().String() + "/"

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      ln.Addr().String(),
					"file":      args[0],
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open " + url},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "treeedit webtui running at %s (file=%s)\n", url, args[0])

			return srv.Serve(ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultWebTUIAddr, "Bind address (host:port or :port)")
	return cmd
}
