package console

import "errors"

var (
	ErrClipboardUnsupported = errors.New("clipboard is not supported on this platform")
	ErrDuplicateCommand     = errors.New("command already registered")
	ErrEmptyCommandName     = errors.New("command name cannot be empty")
	ErrNilCommand           = errors.New("command has no handler")
	ErrCommandNotFound      = errors.New("command not found")
	ErrMalformedCall        = errors.New("malformed command call")
	ErrArgumentCount        = errors.New("wrong number of arguments")
	ErrFormat               = errors.New("invalid composite format")
)
