package cli

import "github.com/spf13/cobra"

// NewContainerCommand groups the container-scoped subcommands
func NewContainerCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "General container tasks",
	}

	cmd.AddCommand(NewCreateCommand(ctx))
	cmd.AddCommand(NewListCommand(ctx))
	cmd.AddCommand(NewInfoCommand(ctx))
	cmd.AddCommand(NewDeleteCommand(ctx))

	return cmd
}
