// Package shell implements a line-oriented command shell over an observable
// command set. Every command line is dispatched through an eventify.Subject,
// so the configured observers see each command before it runs and the
// history recorder captures it for navigation.
//
//	sh, err := shell.New(&cfg, commands)
//	err = sh.Run(ctx, os.Stdin, os.Stdout)
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tailored-agentic-units/eventify/eventify"
	"github.com/tailored-agentic-units/eventify/history"
	"github.com/tailored-agentic-units/eventify/observability"
)

// Option configures a Shell after config-driven initialization.
type Option func(*Shell)

// WithLogger overrides slog.Default() for the shell and its subject.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithObserver attaches an additional observer after the configured ones.
func WithObserver(o eventify.Observer) Option {
	return func(s *Shell) { s.extra = append(s.extra, o) }
}

// WithHistory overrides the config-created history recorder.
func WithHistory(h *history.Recorder) Option {
	return func(s *Shell) { s.history = h }
}

// WithEchoWriter overrides os.Stderr as the destination of echoed events.
func WithEchoWriter(w io.Writer) Option {
	return func(s *Shell) { s.echo = w }
}

// Shell dispatches command lines to an observable command set.
type Shell struct {
	subject *eventify.Subject
	history *history.Recorder
	logger  *slog.Logger
	extra   []eventify.Observer
	echo    io.Writer
	prompt  string
}

// New wraps commands according to cfg and attaches the history recorder, the
// configured named observers, the optional event echo, and any observers
// supplied with WithObserver, in that order.
func New(cfg *Config, commands eventify.Operations, opts ...Option) (*Shell, error) {
	s := &Shell{
		history: history.New(cfg.HistorySize),
		logger:  slog.Default(),
		echo:    os.Stderr,
		prompt:  cfg.Prompt,
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	delivery, err := eventify.ParseDelivery(cfg.Delivery)
	if err != nil {
		return nil, err
	}

	observers, err := observability.Resolve(cfg.Observers)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observers: %w", err)
	}

	if cfg.Echo != "" {
		ew, err := NewEventWriter(s.echo, cfg.Echo)
		if err != nil {
			return nil, err
		}
		observers = append(observers, ew)
	}

	subject, err := eventify.Wrap(commands, cfg.Policy,
		eventify.WithMarkers(cfg.Markers()),
		eventify.WithDelivery(delivery),
		eventify.WithLogger(s.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap commands: %w", err)
	}

	subject.AddObserver(s.history)
	for _, o := range observers {
		subject.AddObserver(o)
	}
	for _, o := range s.extra {
		subject.AddObserver(o)
	}
	s.subject = subject

	return s, nil
}

// Subject returns the observable command set.
func (s *Shell) Subject() *eventify.Subject {
	return s.subject
}

// History returns the shell's history recorder.
func (s *Shell) History() *history.Recorder {
	return s.history
}

// Execute runs a single command line and returns its printable output.
// Lines starting with ':' are meta commands handled by the shell itself:
// :history, :prev, :next and :quit (which returns ErrQuit).
func (s *Shell) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	if strings.HasPrefix(fields[0], ":") {
		return s.meta(fields[0])
	}

	args := make([]any, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, f)
	}

	out, err := s.subject.Call(ctx, fields[0], args...)
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return fmt.Sprint(out), nil
}

func (s *Shell) meta(command string) (string, error) {
	switch command {
	case ":history":
		var b strings.Builder
		for i, e := range s.history.Entries() {
			fmt.Fprintf(&b, "%4d  %s\n", i+1, commandLine(e))
		}
		return strings.TrimSuffix(b.String(), "\n"), nil
	case ":prev":
		if e, ok := s.history.Previous(); ok {
			return commandLine(e), nil
		}
		return "", nil
	case ":next":
		if e, ok := s.history.Next(); ok {
			return commandLine(e), nil
		}
		return "", nil
	case ":quit":
		return "", ErrQuit
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

func commandLine(e history.Entry) string {
	parts := make([]string, 0, len(e.Arguments)+1)
	parts = append(parts, e.Operation)
	for _, arg := range e.Arguments {
		parts = append(parts, fmt.Sprint(arg))
	}
	return strings.Join(parts, " ")
}

// Run reads command lines from in until EOF, :quit, or context cancellation,
// writing the prompt, results and errors to out. Command errors are printed
// and do not stop the loop.
//
// Lines are read on a separate goroutine. When Run returns on cancellation
// that goroutine stays blocked in a read on in until the next line arrives or
// in is closed; the line is then discarded. Callers that need it to exit
// promptly should close in after Run returns.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		fmt.Fprintf(out, "%s ", s.prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-errc
			}
			line = l
		}

		result, err := s.Execute(ctx, line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			s.logger.DebugContext(ctx, "command failed",
				slog.String("line", line),
				slog.Any("error", err))
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
}
