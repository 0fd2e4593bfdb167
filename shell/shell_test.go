package shell_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/eventify/eventify"
	"github.com/tailored-agentic-units/eventify/shell"
)

func commands() eventify.Operations {
	return eventify.Operations{
		"echo": func(_ context.Context, args ...any) (any, error) {
			parts := make([]string, 0, len(args))
			for _, a := range args {
				parts = append(parts, a.(string))
			}
			return strings.Join(parts, " "), nil
		},
		"upper": func(_ context.Context, args ...any) (any, error) {
			if len(args) == 0 {
				return "", nil
			}
			return strings.ToUpper(args[0].(string)), nil
		},
		"silent": func(_ context.Context, _ ...any) (any, error) {
			return nil, nil
		},
		"fail": func(_ context.Context, _ ...any) (any, error) {
			return nil, errors.New("boom")
		},
	}
}

type capture struct {
	events []eventify.Event
}

func (c *capture) OnEvent(_ context.Context, e eventify.Event) error {
	c.events = append(c.events, e)
	return nil
}

func newShell(t *testing.T, cfg shell.Config, opts ...shell.Option) *shell.Shell {
	t.Helper()
	sh, err := shell.New(&cfg, commands(), append([]shell.Option{shell.WithEchoWriter(io.Discard)}, opts...)...)
	require.NoError(t, err)
	return sh
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*shell.Config)
		wantErr error
	}{
		{name: "invalid delivery", mutate: func(c *shell.Config) { c.Delivery = "retry" }, wantErr: eventify.ErrInvalidDelivery},
		{name: "invalid echo", mutate: func(c *shell.Config) { c.Echo = "xml" }, wantErr: shell.ErrInvalidEcho},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := shell.DefaultConfig()
			tt.mutate(&cfg)
			_, err := shell.New(&cfg, commands())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown observer", func(t *testing.T) {
		cfg := shell.DefaultConfig()
		cfg.Observers = []string{"missing"}
		_, err := shell.New(&cfg, commands())
		assert.Error(t, err)
	})

	t.Run("nil commands", func(t *testing.T) {
		cfg := shell.DefaultConfig()
		_, err := shell.New(&cfg, nil)
		assert.ErrorIs(t, err, eventify.ErrNilSubject)
	})
}

func TestExecute(t *testing.T) {
	obs := &capture{}
	sh := newShell(t, shell.DefaultConfig(), shell.WithObserver(obs))
	ctx := context.Background()

	out, err := sh.Execute(ctx, "echo hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "echo", obs.events[0].Operation)
	assert.Equal(t, []any{"hello", "world"}, obs.events[0].Arguments())

	out, err = sh.Execute(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Len(t, obs.events, 1, "blank lines are not dispatched")

	out, err = sh.Execute(ctx, "silent")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestExecute_FailurePassesThrough(t *testing.T) {
	obs := &capture{}
	sh := newShell(t, shell.DefaultConfig(), shell.WithObserver(obs))

	_, err := sh.Execute(context.Background(), "fail")
	assert.EqualError(t, err, "boom")
	assert.Len(t, obs.events, 1)
}

func TestExecute_UnknownCommand(t *testing.T) {
	sh := newShell(t, shell.DefaultConfig())

	_, err := sh.Execute(context.Background(), "missing arg")
	assert.ErrorIs(t, err, eventify.ErrUnknownOperation)

	_, err = sh.Execute(context.Background(), ":bogus")
	assert.ErrorIs(t, err, shell.ErrUnknownCommand)
}

func TestExecute_Policy(t *testing.T) {
	cfg := shell.DefaultConfig()
	cfg.Policy.AllowList = []string{"echo", "upper"}
	cfg.Policy.MarkedOnly = true
	cfg.Marked = []string{"upper"}

	obs := &capture{}
	sh := newShell(t, cfg, shell.WithObserver(obs))
	ctx := context.Background()

	_, err := sh.Execute(ctx, "echo a")
	require.NoError(t, err)
	out, err := sh.Execute(ctx, "upper a")
	require.NoError(t, err)
	assert.Equal(t, "A", out)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "upper", obs.events[0].Operation)
	assert.True(t, sh.Subject().Instrumented("upper"))
	assert.False(t, sh.Subject().Instrumented("echo"))
}

func TestExecute_HistoryMetaCommands(t *testing.T) {
	sh := newShell(t, shell.DefaultConfig())
	ctx := context.Background()

	for _, line := range []string{"echo one", "upper two"} {
		_, err := sh.Execute(ctx, line)
		require.NoError(t, err)
	}

	out, err := sh.Execute(ctx, ":history")
	require.NoError(t, err)
	assert.Equal(t, "   1  echo one\n   2  upper two", out)

	out, err = sh.Execute(ctx, ":prev")
	require.NoError(t, err)
	assert.Equal(t, "upper two", out)

	out, err = sh.Execute(ctx, ":prev")
	require.NoError(t, err)
	assert.Equal(t, "echo one", out)

	out, err = sh.Execute(ctx, ":next")
	require.NoError(t, err)
	assert.Equal(t, "upper two", out)

	out, err = sh.Execute(ctx, ":next")
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.Equal(t, 2, sh.History().Len(), "meta commands are not recorded")

	_, err = sh.Execute(ctx, ":quit")
	assert.ErrorIs(t, err, shell.ErrQuit)
}

func TestExecute_EchoJSON(t *testing.T) {
	var echo bytes.Buffer
	cfg := shell.DefaultConfig()
	cfg.Echo = shell.EchoJSON
	sh := newShell(t, cfg, shell.WithEchoWriter(&echo))

	_, err := sh.Execute(context.Background(), "echo Ada")
	require.NoError(t, err)

	var record struct {
		ID        string `json:"id"`
		Subject   string `json:"subject"`
		Operation string `json:"operation"`
		Arguments []any  `json:"arguments"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(echo.Bytes()), &record))
	assert.Equal(t, "echo", record.Operation)
	assert.Equal(t, []any{"Ada"}, record.Arguments)
	assert.Equal(t, sh.Subject().ID(), record.Subject)
	assert.NotEmpty(t, record.ID)
}

func TestExecute_EchoText(t *testing.T) {
	var echo bytes.Buffer
	cfg := shell.DefaultConfig()
	cfg.Echo = shell.EchoText
	sh := newShell(t, cfg, shell.WithEchoWriter(&echo))

	_, err := sh.Execute(context.Background(), "upper hi")
	require.NoError(t, err)
	assert.Equal(t, "[event] upper [hi]\n", echo.String())
}

func TestEventWriter_UnencodableArguments(t *testing.T) {
	var buf bytes.Buffer
	ew, err := shell.NewEventWriter(&buf, shell.EchoJSON)
	require.NoError(t, err)

	type point struct{ X, Y int }
	event := eventify.NewEvent("s", "plot", []any{point{1, 2}, 3})
	require.NoError(t, ew.OnEvent(context.Background(), event))

	var record struct {
		Arguments []any `json:"arguments"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, []any{"{1 2}", float64(3)}, record.Arguments)
}

func TestExecute_NamedObservers(t *testing.T) {
	cfg := shell.DefaultConfig()
	cfg.Observers = []string{"noop", "trace"}
	sh := newShell(t, cfg)

	out, err := sh.Execute(context.Background(), "upper ok")
	require.NoError(t, err)
	assert.Equal(t, "OK", out)
}

func TestRun(t *testing.T) {
	sh := newShell(t, shell.DefaultConfig())

	in := strings.NewReader("echo hi\nfail\n\nupper done\n")
	var out bytes.Buffer

	require.NoError(t, sh.Run(context.Background(), in, &out))

	got := out.String()
	assert.Contains(t, got, "> hi\n")
	assert.Contains(t, got, "error: boom\n")
	assert.Contains(t, got, "DONE\n")
	assert.Equal(t, 3, sh.History().Len())
}

func TestRun_Quit(t *testing.T) {
	sh := newShell(t, shell.DefaultConfig())

	in := strings.NewReader("echo first\n:quit\necho never\n")
	var out bytes.Buffer

	require.NoError(t, sh.Run(context.Background(), in, &out))
	assert.NotContains(t, out.String(), "never")
	assert.Equal(t, 1, sh.History().Len())
}

func TestRun_ContextCancelled(t *testing.T) {
	sh := newShell(t, shell.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	err := sh.Run(ctx, pr, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_CancelledReaderDrainsPendingLine(t *testing.T) {
	sh := newShell(t, shell.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	err := sh.Run(ctx, pr, &out)
	require.ErrorIs(t, err, context.Canceled)
	before := out.String()

	// The reader is still parked on pr; the write completes only once it
	// consumes the line, which is then dropped.
	written := make(chan error, 1)
	go func() {
		_, err := pw.Write([]byte("echo late\n"))
		written <- err
	}()

	select {
	case err := <-written:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("reader goroutine did not consume the pending line")
	}

	assert.Equal(t, before, out.String())
}
