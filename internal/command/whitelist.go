package command

import (
	"errors"

	coreerrors "warden/internal/core/errors"
	"warden/internal/dispatch"
	"warden/internal/logging"
	"warden/internal/metrics"
	"warden/internal/store"
)

// Administrative command names as delivered by the host
const (
	CmdHelp   = "whitelist"
	CmdAdd    = "whitelist.add"
	CmdRemove = "whitelist.remove"
	CmdList   = "whitelist.list"
)

// Command outcomes used for logs and metrics labels
const (
	OutcomeAdded         = "added"
	OutcomeRemoved       = "removed"
	OutcomeAlreadyExists = "already_exists"
	OutcomeNotFound      = "not_found"
	OutcomeListed        = "listed"
	OutcomeUsageError    = "usage_error"
	OutcomeHelp          = "help"
)

// WhitelistCommands binds the store to the administrative command
// surface. Every outcome is a log line; nothing here aborts the process.
type WhitelistCommands struct {
	store   *store.Store
	logger  *logging.Logger
	metrics *metrics.Collector
}

// NewWhitelistCommands creates the command handler set
func NewWhitelistCommands(s *store.Store, logger *logging.Logger, m *metrics.Collector) *WhitelistCommands {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WhitelistCommands{store: s, logger: logger, metrics: m}
}

// Register installs all whitelist commands into the dispatcher
func (c *WhitelistCommands) Register(d *dispatch.Dispatcher) {
	d.Register(CmdAdd, c.handleAdd)
	d.Register(CmdRemove, c.handleRemove)
	d.Register(CmdList, c.handleList)
	d.Register(CmdHelp, c.handleHelp)
}

func (c *WhitelistCommands) handleAdd(args []string) {
	if len(args) != 1 {
		c.usage(CmdAdd, "usage: whitelist.add <id>")
		return
	}

	err := c.store.Add(args[0])
	switch {
	case errors.Is(err, coreerrors.ErrEmptyIdentifier):
		c.usage(CmdAdd, "usage: whitelist.add <id>")
	case errors.Is(err, coreerrors.ErrAlreadyExists):
		c.logger.LogCommand(CmdAdd, OutcomeAlreadyExists,
			logging.String("id", store.Normalize(args[0])))
		c.metrics.RecordCommand(CmdAdd, OutcomeAlreadyExists)
	case err != nil:
		c.logger.Error("Failed to add whitelist entry", err,
			logging.String("command", CmdAdd))
		c.metrics.RecordCommand(CmdAdd, "error")
	default:
		c.logger.LogCommand(CmdAdd, OutcomeAdded,
			logging.String("id", store.Normalize(args[0])),
			logging.Int("entries", c.store.Count()))
		c.metrics.RecordCommand(CmdAdd, OutcomeAdded)
	}
}

func (c *WhitelistCommands) handleRemove(args []string) {
	if len(args) != 1 {
		c.usage(CmdRemove, "usage: whitelist.remove <id>")
		return
	}

	err := c.store.Remove(args[0])
	switch {
	case errors.Is(err, coreerrors.ErrEmptyIdentifier):
		c.usage(CmdRemove, "usage: whitelist.remove <id>")
	case errors.Is(err, coreerrors.ErrNotFound):
		c.logger.LogCommand(CmdRemove, OutcomeNotFound,
			logging.String("id", store.Normalize(args[0])))
		c.metrics.RecordCommand(CmdRemove, OutcomeNotFound)
	case err != nil:
		c.logger.Error("Failed to remove whitelist entry", err,
			logging.String("command", CmdRemove))
		c.metrics.RecordCommand(CmdRemove, "error")
	default:
		c.logger.LogCommand(CmdRemove, OutcomeRemoved,
			logging.String("id", store.Normalize(args[0])),
			logging.Int("entries", c.store.Count()))
		c.metrics.RecordCommand(CmdRemove, OutcomeRemoved)
	}
}

func (c *WhitelistCommands) handleList(args []string) {
	entries := c.store.List()
	c.logger.LogCommand(CmdList, OutcomeListed,
		logging.Int("entries", len(entries)))
	for _, entry := range entries {
		c.logger.Info("Whitelist entry", logging.String("id", entry))
	}
	c.metrics.RecordCommand(CmdList, OutcomeListed)
}

func (c *WhitelistCommands) handleHelp(args []string) {
	c.logger.Info("Whitelist commands",
		logging.String("add", "whitelist.add <id>"),
		logging.String("remove", "whitelist.remove <id>"),
		logging.String("list", "whitelist.list"))
	c.metrics.RecordCommand(CmdHelp, OutcomeHelp)
}

func (c *WhitelistCommands) usage(command, usage string) {
	c.logger.Warn("Invalid command invocation",
		logging.String("command", command),
		logging.String("usage", usage))
	c.metrics.RecordCommand(command, OutcomeUsageError)
}
