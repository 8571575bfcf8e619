package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/emoji"
	"github.com/yildizm/MeetSum/internal/logger"
	"github.com/yildizm/MeetSum/internal/web"
)

var (
	serveListen  string
	serveLogJSON bool
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser front end",
		Long: `Start a web server with an upload page. Each browser gets its own
session holding one analysis; idle sessions expire after server.session_ttl.

Also exposes /healthz and Prometheus metrics on /metrics.

Examples:
  meetsum serve
  meetsum serve --listen 0.0.0.0:8080 --log-json`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&serveLogJSON, "log-json", false, "write JSON logs")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	addr := cfg.Server.ListenAddr
	if serveListen != "" {
		addr = serveListen
	}
	if serveLogJSON || cfg.Server.LogJSON {
		logger.SetJSON(true)
	}
	log := newLogger("serve")

	clientCfg := resolveClientConfig(cfg, log)
	c, err := client.New(clientCfg, client.WithLogger(newLogger("client")))
	if err != nil {
		return err
	}

	srv, err := web.New(web.Options{
		Analyzer:         c,
		MaxUploadBytes:   clientCfg.MaxUploadBytes(),
		SessionTTL:       cfg.Server.SessionTTL,
		PresenterOptions: cfg.PresenterOptions(),
		Logger:           log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "%s MeetSum listening on http://%s (backend %s)\n",
		emoji.GetEmoji("rocket"), addr, c.Endpoint())
	return srv.ListenAndServe(ctx, addr)
}
