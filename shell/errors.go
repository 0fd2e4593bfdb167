package shell

import "errors"

// Sentinel errors for the shell.
var (
	// ErrQuit is returned by Execute for the :quit meta command.
	ErrQuit = errors.New("quit")
	// ErrUnknownCommand is returned for unrecognised meta commands.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidEcho is returned for an echo format other than text or json.
	ErrInvalidEcho = errors.New("invalid echo format")
)
