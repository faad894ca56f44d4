package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kevinmichaelchen/repo-audit/internal/config"
	"github.com/kevinmichaelchen/repo-audit/internal/github"
	"github.com/kevinmichaelchen/repo-audit/internal/llm"
	"github.com/kevinmichaelchen/repo-audit/internal/logging"
	"github.com/kevinmichaelchen/repo-audit/internal/mcp"
	"github.com/kevinmichaelchen/repo-audit/internal/pipeline"
	"github.com/kevinmichaelchen/repo-audit/internal/render"
	"github.com/kevinmichaelchen/repo-audit/internal/server"
	"github.com/kevinmichaelchen/repo-audit/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const httpTimeout = 30 * time.Second

type globalFlags struct {
	configFile string
	logLevel   string
}

func main() {
	var flags globalFlags
	root := &cobra.Command{
		Use:           "repo-audit",
		Short:         "GitHub repository → AI quality audit",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "Config file (default .repo-audit.yaml in . or $HOME)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	root.AddCommand(auditCmd(&flags), serveCmd(&flags), mcpCmd(&flags), schemaCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger and pipeline shared by
// every command that talks to GitHub and the model.
func setup(flags *globalFlags) (*config.Config, *zap.Logger, *pipeline.Pipeline, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = logging.Level(flags.logLevel)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, nil, err
	}

	httpClient := &http.Client{Timeout: httpTimeout}
	collector := github.NewCollector(github.NewClient(cfg.GitHub.APIURL, httpClient), logger)
	requester := llm.NewRequester(
		llm.NewOpenAIClient(cfg.LLM.BaseURL, cfg.LLM.APIKey),
		llm.WithModel(cfg.LLM.Model),
		llm.WithTemperature(cfg.LLM.Temperature),
		llm.WithLogger(logger),
	)
	return cfg, logger, pipeline.New(cfg.GitHub.Host, collector, requester, logger), nil
}

func auditCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "audit [url]",
		Short: "Audit one repository and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := render.Format(output)
			if !render.ValidFormat(format) {
				return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
			}

			_, logger, p, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts := []session.Option{session.WithLogger(logger)}
			if render.IsTerminal(os.Stderr) {
				opts = append(opts, session.WithStepListener(func(step string) {
					fmt.Fprintln(os.Stderr, "→", step)
				}))
			}

			sess := session.New(p, opts...)
			if err := sess.Submit(cmd.Context(), args[0]); err != nil {
				return errors.New(session.Message(err))
			}

			outcome, _ := sess.Outcome()
			return render.Write(cmd.OutOrStdout(), format, outcome, 0)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(render.FormatText), "Output format: text, json or yaml")
	return cmd
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve audits over HTTP (POST /api/audit)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, p, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			return server.New(p, logger).Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func mcpCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, p, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return mcp.StartMCPServer(p, logger)
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema the audit result conforms to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.JSON(cmd.OutOrStdout(), llm.Schema())
		},
	}
}
