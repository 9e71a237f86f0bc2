package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxStderr bounds how much plugin stderr is quoted in an error.
const maxStderr = 512

// ErrTimeout is returned when a plugin does not answer within the executor timeout.
var ErrTimeout = errors.New("plugin execution timeout")

// Executor runs one plugin request per process.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor with the given per-call timeout.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// Timeout returns the per-call timeout.
func (e *Executor) Timeout() time.Duration { return e.timeout }

// Execute starts the plugin, writes req to its stdin as JSON and parses stdout
// as a Response. The call is bounded by both ctx and the executor timeout.
//
// The plugin also sees ROBOHAND_ACTION, ROBOHAND_COMMAND and
// ROBOHAND_SESSION in its environment.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	if !plugin.HasAction(req.Action) {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedAction, plugin.Manifest.Name, req.Action)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	cmd.Env = append(os.Environ(),
		"ROBOHAND_ACTION="+req.Action,
		"ROBOHAND_COMMAND="+req.Command,
		"ROBOHAND_SESSION="+req.SessionID,
	)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case runErr != nil:
		if msg := trimStderr(stderr.String()); msg != "" {
			return nil, fmt.Errorf("run %s: %w: %s", plugin.Manifest.Name, runErr, msg)
		}
		return nil, fmt.Errorf("run %s: %w", plugin.Manifest.Name, runErr)
	}

	var response Response
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &response); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", plugin.Manifest.Name, err)
	}
	return &response, nil
}

func trimStderr(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		s = s[:maxStderr] + "..."
	}
	return s
}
