package console

import "context"

// BuiltinNamespace groups the commands every console has.
const BuiltinNamespace = "Console"

func (c *Console) registerBuiltins() error {
	// A shared registry may already hold the previous console's closures.
	c.commands.Unregister(BuiltinNamespace)

	builtins := []Command{
		{
			Name: "Help",
			Help: "Print the list of available commands.",
			Run: func(context.Context, []string) (any, error) {
				c.print(SeverityInfo, c.commands.HelpText())
				return nil, nil
			},
		},
		{
			Name: "Help",
			Help: "Print the help text of a command.",
			Args: []Arg{{Name: "command", Type: "string"}},
			Run: func(_ context.Context, args []string) (any, error) {
				text, err := c.commands.CommandHelp(args[0])
				if err != nil {
					return nil, err
				}
				c.print(SeverityInfo, text)
				return nil, nil
			},
		},
		{
			Name: "Clear",
			Help: "Clear the console output.",
			Run: func(context.Context, []string) (any, error) {
				c.Clear()
				return nil, nil
			},
		},
	}
	for _, cmd := range builtins {
		cmd.Namespace = BuiltinNamespace
		if err := c.commands.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}
