package cli

import (
	"fmt"

	"github.com/nace/nuts/internal/container"
	"github.com/spf13/cobra"
)

// DeleteCommand removes a container and its data
type DeleteCommand struct {
	ctx   *GlobalContext
	force bool
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &DeleteCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a container",
		Long: `Delete a container and everything stored in it.

The container is opened first, so deleting an encrypted container
requires its password.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.force, "force", "f", false, "Do not ask for confirmation")

	return cobraCmd
}

// Run executes the delete command
func (c *DeleteCommand) Run(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Needs the password of an encrypted container.
	if err := c.ctx.withContainer(name, func(*container.Container) error { return nil }); err != nil {
		return err
	}

	if !c.force && !c.ctx.Prompter.PromptConfirm(fmt.Sprintf("Delete container %s and all its data?", name)) {
		c.ctx.Logger.Info("Aborted")
		return nil
	}

	if err := c.ctx.Registry.Remove(name); err != nil {
		return err
	}

	c.ctx.Logger.Success("Container deleted: %s", name)
	return nil
}
