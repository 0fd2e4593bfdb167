package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// markedCommands are instrumented when the policy is marked-only and the
// config names no markers of its own.
var markedCommands = []string{"date", "echo"}

func builtinCommands() eventify.Operations {
	return eventify.Operations{
		"echo":    handleEcho,
		"upper":   transform(strings.ToUpper),
		"lower":   transform(strings.ToLower),
		"reverse": handleReverse,
		"len":     handleLen,
		"date":    handleDate,
		"fail":    handleFail,
	}
}

func words(args []any) []string {
	w := make([]string, 0, len(args))
	for _, a := range args {
		w = append(w, fmt.Sprint(a))
	}
	return w
}

func handleEcho(_ context.Context, args ...any) (any, error) {
	return strings.Join(words(args), " "), nil
}

func transform(fn func(string) string) eventify.Operation {
	return func(_ context.Context, args ...any) (any, error) {
		return fn(strings.Join(words(args), " ")), nil
	}
}

func handleReverse(_ context.Context, args ...any) (any, error) {
	w := words(args)
	slices.Reverse(w)
	return strings.Join(w, " "), nil
}

func handleLen(_ context.Context, args ...any) (any, error) {
	return len(strings.Join(words(args), " ")), nil
}

func handleDate(_ context.Context, _ ...any) (any, error) {
	return time.Now().Format(time.RFC3339), nil
}

func handleFail(_ context.Context, args ...any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("fail: command failed")
	}
	return nil, errors.New(strings.Join(words(args), " "))
}
