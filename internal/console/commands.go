package console

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Arg describes one command parameter for help output.
type Arg struct {
	Name string
	Type string
}

// CommandFunc runs a console command with its already split arguments.
type CommandFunc func(ctx context.Context, args []string) (any, error)

// Command is a named console action that bypasses the compiler. Commands
// with the same name may coexist when their argument counts differ.
type Command struct {
	Namespace string
	Name      string
	Help      string
	Args      []Arg
	Run       CommandFunc
}

// Signature renders "Name(Type arg,Type arg)".
func (c Command) Signature() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = strings.TrimSpace(a.Type + " " + a.Name)
	}
	return c.Name + "(" + strings.Join(parts, ",") + ")"
}

// Commands is a registry of console commands grouped by namespace. It is
// safe for concurrent use.
type Commands struct {
	mu         sync.RWMutex
	namespaces []string
	byNS       map[string][]Command
}

func NewCommands() *Commands {
	return &Commands{byNS: make(map[string][]Command)}
}

// Register adds cmd to its namespace.
func (r *Commands) Register(cmd Command) error {
	if cmd.Name == "" {
		return ErrEmptyCommandName
	}
	if cmd.Run == nil {
		return fmt.Errorf("%w: %s", ErrNilCommand, cmd.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byNS[cmd.Namespace] {
		if strings.EqualFold(existing.Name, cmd.Name) && len(existing.Args) == len(cmd.Args) {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateCommand, cmd.Namespace, cmd.Signature())
		}
	}
	if _, ok := r.byNS[cmd.Namespace]; !ok {
		r.namespaces = append(r.namespaces, cmd.Namespace)
	}
	r.byNS[cmd.Namespace] = append(r.byNS[cmd.Namespace], cmd)
	return nil
}

// Unregister removes every command of a namespace and returns how many were
// removed.
func (r *Commands) Unregister(namespace string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.byNS[namespace])
	delete(r.byNS, namespace)
	r.namespaces = slices.DeleteFunc(r.namespaces, func(ns string) bool { return ns == namespace })
	return n
}

// All returns the registered commands in namespace registration order.
func (r *Commands) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Command
	for _, ns := range r.namespaces {
		out = append(out, r.byNS[ns]...)
	}
	return out
}

// Find returns the commands named name, optionally qualified as "ns.Name".
func (r *Commands) Find(name string) []Command {
	ns, bare, qualified := strings.Cut(name, ".")
	if !qualified {
		bare = name
	}
	var out []Command
	for _, cmd := range r.All() {
		if !strings.EqualFold(cmd.Name, bare) {
			continue
		}
		if qualified && !strings.EqualFold(cmd.Namespace, ns) {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// HelpText lists every command as "[namespace]" headers followed by
// indented signatures and help.
func (r *Commands) HelpText() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var b strings.Builder
	for _, ns := range r.namespaces {
		fmt.Fprintf(&b, "[%s]\n", ns)
		for _, cmd := range r.byNS[ns] {
			b.WriteString("    " + cmd.Signature())
			if cmd.Help != "" {
				b.WriteString(": " + cmd.Help)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// CommandHelp returns "Name: help" for the first command named name.
func (r *Commands) CommandHelp(name string) (string, error) {
	found := r.Find(name)
	if len(found) == 0 {
		return "", fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}
	return found[0].Name + ": " + found[0].Help, nil
}

var callPattern = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)?)\s*\((.*)\)\s*;?\s*$`)

// call is a parsed "Name(arg, ...)" line.
type call struct {
	name string
	args []string
}

// parseCall recognises a command invocation. ok is false when line does not
// have call syntax at all.
func parseCall(line string) (c call, ok bool, err error) {
	m := callPattern.FindStringSubmatch(line)
	if m == nil {
		return call{}, false, nil
	}
	args, err := splitArgs(m[2])
	if err != nil {
		return call{}, true, err
	}
	return call{name: m[1], args: args}, true, nil
}

// splitArgs splits a comma separated argument list. Double quoted arguments
// are unquoted with Go string syntax; others are trimmed.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		args    []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				args = append(args, s[start:i])
				start = i + 1
			}
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated string", ErrMalformedCall)
	}
	args = append(args, s[start:])

	for i, a := range args {
		a = strings.TrimSpace(a)
		if strings.HasPrefix(a, `"`) {
			unq, err := strconv.Unquote(a)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrMalformedCall, a)
			}
			a = unq
		}
		args[i] = a
	}
	return args, nil
}

// resolve picks the overload of c.name matching the argument count. ok is
// false when no command of that name exists.
func (r *Commands) resolve(c call) (Command, bool, error) {
	found := r.Find(c.name)
	if len(found) == 0 {
		return Command{}, false, nil
	}
	for _, cmd := range found {
		if len(cmd.Args) == len(c.args) {
			return cmd, true, nil
		}
	}
	return Command{}, true, fmt.Errorf("%w: %s takes %d, got %d",
		ErrArgumentCount, c.name, len(found[0].Args), len(c.args))
}
