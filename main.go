package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ramesh-kr/copybara/gitexec"
	"github.com/ramesh-kr/copybara/gitrepo"
	"github.com/urfave/cli/v3"
)

var (
	loggerLevel = new(slog.LevelVar)
	logger      *slog.Logger

	levelStrings = map[string]slog.Level{
		"trace": slog.Level(-8),
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Sources: cli.EnvVars("COPYBARA_CONFIG"),
			Usage:   "Absolute path to the config file.",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Value:   "info",
			Usage:   "Log level",
		},
	}
)

func init() {
	loggerLevel.Set(slog.LevelInfo)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: loggerLevel,
	}))
}

func main() {
	cmd := &cli.Command{
		Name:  "copybara",
		Usage: "copybara checks out refs of remote git repositories into working directories via local bare mirrors.",
		Flags: flags,
		Commands: []*cli.Command{
			{
				Name:      "checkout",
				Usage:     "mirror the remote repository and materialise the given ref into the workdir",
				ArgsUsage: "<remote-url> <ref> <workdir>",
				Flags:     flags,
				Action:    checkoutAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Error("failed to run app", "err", err)
		os.Exit(1)
	}
}

func checkoutAction(ctx context.Context, c *cli.Command) error {
	// set log level according to argument
	if v, ok := levelStrings[strings.ToLower(c.String("log-level"))]; ok {
		loggerLevel.Set(v)
	}

	if c.Args().Len() != 3 {
		return fmt.Errorf("expected <remote-url> <ref> <workdir> arguments")
	}
	remote, ref := c.Args().Get(0), c.Args().Get(1)

	conf := &Config{}
	if path := c.String("config"); path != "" {
		parsed, err := parseConfigFile(path)
		if err != nil {
			return fmt.Errorf("unable to parse config file err:%w", err)
		}
		conf = parsed
	}
	applyDefaults(conf)

	if conf.MetricsNamespace != "" {
		gitrepo.EnableMetrics(conf.MetricsNamespace, prometheus.DefaultRegisterer)
	}

	workdir, err := filepath.Abs(c.Args().Get(2))
	if err != nil {
		return fmt.Errorf("unable to resolve workdir err:%w", err)
	}
	// the workdir is caller owned, checkout only (over)writes into it
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return fmt.Errorf("unable to create workdir err:%w", err)
	}

	executor := gitexec.NewOSExecutor(conf.Verbose, logger)
	registry, err := gitrepo.NewRegistry(gitrepo.RegistryConfig{
		StorageRoot:   conf.Git.StorageRoot,
		GitExecutable: conf.Git.Executable,
	}, executor, logger.With("logger", "gitrepo"))
	if err != nil {
		return err
	}

	if err := registry.CheckoutReference(ctx, remote, ref, workdir); err != nil {
		return err
	}

	logger.Info("checkout complete", "remote", remote, "ref", ref, "workdir", workdir)
	return nil
}
