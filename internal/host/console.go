package host

import (
	"bufio"
	"context"
	"io"
	"strings"

	"warden/internal/dispatch"
	"warden/internal/logging"
)

// Console delivers administrative events to the dispatcher, one command
// per line, the way the surrounding game server would. Commands nobody
// handles are logged and left unconsumed.
type Console struct {
	in         io.Reader
	dispatcher *dispatch.Dispatcher
	logger     *logging.Logger
}

// NewConsole creates a console host reading from in
func NewConsole(in io.Reader, d *dispatch.Dispatcher, logger *logging.Logger) *Console {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Console{in: in, dispatcher: d, logger: logger}
}

// Run reads commands until EOF or ctx cancellation. The reader runs in
// its own goroutine so cancellation takes effect even while the input
// is idle. Events are delivered strictly one at a time; no two commands
// ever run concurrently against the store.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			name, args := SplitCommand(line)
			if name == "" {
				continue
			}
			if !c.dispatcher.Dispatch(name, args) {
				c.logger.Debug("Command not consumed, left for other handlers",
					logging.String("command", name))
			}
		}
	}
}

// SplitCommand tokenizes a console line into a command name and its
// arguments. Blank lines yield an empty name.
func SplitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}
