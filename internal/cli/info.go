package cli

import (
	"fmt"
	"time"

	"github.com/nace/nuts/internal/container"
	"github.com/nace/nuts/internal/system"
	"github.com/nace/nuts/internal/ui"
	"github.com/spf13/cobra"
)

// InfoCommand shows details of one container
type InfoCommand struct {
	ctx  *GlobalContext
	json bool
	yaml bool
}

// NewInfoCommand creates the info command
func NewInfoCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &InfoCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show container details",
		Long:  `Open a container and print its header information. Prompts for the password of encrypted containers.`,
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.json, "json", "j", false, "JSON output")
	cobraCmd.Flags().BoolVarP(&cmd.yaml, "yaml", "y", false, "YAML output")
	cobraCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	return cobraCmd
}

// Run executes the info command
func (c *InfoCommand) Run(cmd *cobra.Command, args []string) error {
	return c.ctx.withContainer(args[0], func(cont *container.Container) error {
		info, err := cont.Info()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case c.json:
			return ui.PrintJSON(out, info)
		case c.yaml:
			return ui.PrintYAML(out, info)
		}

		fmt.Fprintf(out, "Container: %s\n", args[0])
		fmt.Fprintf(out, "  ID: %s\n", info.ID)
		fmt.Fprintf(out, "  Path: %s\n", info.Path)
		fmt.Fprintf(out, "  Cipher: %s\n", info.Cipher)
		if info.KDF != "" {
			fmt.Fprintf(out, "  KDF: %s (%d iterations)\n", info.KDF, info.Iterations)
		}
		fmt.Fprintf(out, "  Created: %s\n", info.Created.Local().Format(time.DateTime))
		fmt.Fprintf(out, "  Blobs: %d\n", info.Blobs)
		fmt.Fprintf(out, "  Size: %s\n", system.FormatSize(info.Size))
		return nil
	})
}
