package dispatch

import (
	"fmt"
	"sort"

	"warden/internal/logging"
)

// HandlerFunc handles a single administrative command
type HandlerFunc func(args []string)

// Dispatcher routes command names to registered handlers. Commands with
// no handler are reported as unconsumed so the host can offer them to
// other subsystems.
type Dispatcher struct {
	logger   *logging.Logger
	handlers map[string]HandlerFunc
}

// New creates an empty Dispatcher
func New(logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register registers a handler by command name
func (d *Dispatcher) Register(name string, handler HandlerFunc) {
	if _, exists := d.handlers[name]; exists {
		panic(fmt.Sprintf("command %s already registered", name))
	}
	d.handlers[name] = handler
}

// Dispatch invokes the handler for name. It reports false when no
// handler is registered, leaving the command unconsumed.
func (d *Dispatcher) Dispatch(name string, args []string) bool {
	handler, ok := d.handlers[name]
	if !ok {
		return false
	}
	d.logger.Debug("Dispatching command",
		logging.String("command", name),
		logging.Int("args", len(args)))
	handler(args)
	return true
}

// Commands returns all registered command names, sorted
func (d *Dispatcher) Commands() []string {
	out := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
