package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/raven-actions/internal/httpserver"
	"github.com/aidanlsb/raven-actions/internal/ui"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve every action over a loopback HTTP listener",
	Long: `Start the HTTP listener. Each action answers GET requests at its path with
the JSON outcome; query parameters are the action parameters.

Examples:
  raven-actions serve
  raven-actions serve --port 3001
  curl 'http://127.0.0.1:3000/actions-uri/note/get?file=Inbox.md'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		if cmd.Flags().Changed("host") {
			c.HTTP.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			c.HTTP.Port = servePort
		}
		if err := c.Validate(); err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		a, err := loadApp(appOptions{})
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		srv := httpserver.New(a.dispatcher, c.Addr(), httpserver.WithLogger(logger))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Start(); err != nil {
			return handleError(ErrServerFailed, err, "is another listener on this port?")
		}
		if !isJSONOutput() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", ui.Success(fmt.Sprintf("serving %s on http://%s",
				ui.FilePath(getVaultPath()), srv.Addr())))
			if msg := exposedWarning(srv.Addr()); msg != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}
		}
		if err := srv.Serve(ctx); err != nil {
			return handleError(ErrServerFailed, err, "")
		}
		return nil
	},
}

// exposedWarning returns a warning line when addr is reachable beyond this machine.
func exposedWarning(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	if host == "localhost" {
		return ""
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return ""
	}
	return ui.Warning(fmt.Sprintf("listening on %s; any host that can reach it can edit the vault", addr))
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default from config, 127.0.0.1)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Listen port (default from config, 3000)")
	rootCmd.AddCommand(serveCmd)
}
