package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"warden/internal/auth"
	"warden/internal/command"
	"warden/internal/config"
	"warden/internal/dispatch"
	"warden/internal/host"
	"warden/internal/logging"
	"warden/internal/metrics"
	"warden/internal/ops"
	"warden/internal/store"
)

var (
	defaultConfigPath = "config/warden.yaml"
	version           = "dev" // can be set at build time with -ldflags
)

var defaultConfig = `whitelist:
  path: "data/whitelist.txt"
  watch: true
  rejectLogPerSecond: 1
  rejectLogBurst: 5
ops:
  enabled: false
  addr: ":9130"
log:
  debug: false
`

func ensureDefaultConfig(configPath string) bool {
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		return false
	}
	os.MkdirAll(filepath.Dir(configPath), 0755)
	os.WriteFile(configPath, []byte(defaultConfig), 0644)
	return true
}

func main() {
	app := &cli.App{
		Name:    "warden",
		Usage:   "connection whitelist daemon",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: defaultConfigPath,
				Usage: "Path to warden.yaml",
			},
			&cli.StringFlag{
				Name:  "whitelist",
				Usage: "Whitelist file path (overrides config)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run the whitelist daemon, reading commands from stdin",
				Action: runDaemon,
			},
			{
				Name:      "add",
				Usage:     "Add an identifier to the whitelist",
				ArgsUsage: "<id>",
				Action:    runAdd,
			},
			{
				Name:      "remove",
				Usage:     "Remove an identifier from the whitelist",
				ArgsUsage: "<id>",
				Action:    runRemove,
			},
			{
				Name:   "list",
				Usage:  "Print all whitelisted identifiers",
				Action: runList,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds an initialized store. The
// returned logger is tuned to the configured level.
func setup(c *cli.Context, m *metrics.Collector) (*config.Config, *logging.Logger, *store.Store, error) {
	configPath := c.String("config")
	if ensureDefaultConfig(configPath) {
		fmt.Printf("Default config created at %s. Please review and run again.\n", configPath)
		os.Exit(0)
	}

	logger := logging.NewLoggerFromEnv()
	cfg, err := config.LoadConfig(configPath, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if cfg.Log.Debug {
		logger = logging.NewLogger(true)
	}

	if path := c.String("whitelist"); path != "" {
		cfg.Whitelist.Path = path
		logger.Info("Overriding whitelist path from --whitelist flag",
			logging.String("path", path))
	}

	st, err := store.New(store.Dependencies{
		Path:    cfg.Whitelist.Path,
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	st.Init()

	return cfg, logger, st, nil
}

func runDaemon(c *cli.Context) error {
	collector := metrics.NewCollector()
	cfg, logger, st, err := setup(c, collector)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Warden starting",
		logging.String("version", version),
		logging.String("whitelist", cfg.Whitelist.Path),
		logging.Int("entries", st.Count()))

	dispatcher := dispatch.New(logger)
	command.NewWhitelistCommands(st, logger, collector).Register(dispatcher)

	authorizer := auth.New(auth.Dependencies{
		Store:              st,
		Logger:             logger,
		Metrics:            collector,
		RejectLogPerSecond: cfg.Whitelist.RejectLogPerSecond,
		RejectLogBurst:     cfg.Whitelist.RejectLogBurst,
	})

	// Connection attempts arrive on the same console pipe as admin
	// commands: "connect <id>". The decision is logged in its wire form
	// for the surrounding server to act on.
	dispatcher.Register("connect", func(args []string) {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		decision := authorizer.Authorize(id)
		logger.Info("Connection decision",
			logging.String("id", id),
			logging.String("decision", decision.String()))
	})

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Whitelist.Watch {
		if err := st.Watch(ctx); err != nil {
			logger.Warn("Whitelist watcher unavailable", logging.Error(err))
		}
	}

	if cfg.Ops.Enabled {
		opsServer := ops.New(cfg.Ops.Addr, st, collector, logger)
		go func() {
			if err := opsServer.Serve(ctx); err != nil {
				logger.Error("Ops listener error", err)
			}
		}()
	}

	console := host.NewConsole(os.Stdin, dispatcher, logger)
	if err := console.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Console host error", err)
	}

	logger.Info("Warden shutdown complete")
	return nil
}

func runAdd(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: warden add <id>", 2)
	}
	_, logger, st, err := setup(c, nil)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := st.Add(c.Args().First()); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Printf("added %s\n", store.Normalize(c.Args().First()))
	return nil
}

func runRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: warden remove <id>", 2)
	}
	_, logger, st, err := setup(c, nil)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := st.Remove(c.Args().First()); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	fmt.Printf("removed %s\n", store.Normalize(c.Args().First()))
	return nil
}

func runList(c *cli.Context) error {
	_, logger, st, err := setup(c, nil)
	if err != nil {
		return err
	}
	defer logger.Sync()

	for _, entry := range st.List() {
		fmt.Println(entry)
	}
	return nil
}
