package cli

import (
	"fmt"
	"time"

	"github.com/nace/nuts/internal/container"
	"github.com/nace/nuts/internal/system"
	"github.com/nace/nuts/internal/ui"
	"github.com/spf13/cobra"
)

// ListCommand handles listing containers
type ListCommand struct {
	ctx  *GlobalContext
	json bool
}

// listEntry is one row of container list
type listEntry struct {
	Name    string     `json:"name"`
	Cipher  string     `json:"cipher"`
	Created *time.Time `json:"created,omitempty"`
	Size    uint64     `json:"size"`
}

// NewListCommand creates the list command
func NewListCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &ListCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "List containers",
		Long:  `List all containers registered below ~/.nuts/container.d. No password is needed.`,
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.json, "json", "j", false, "JSON output")

	return cobraCmd
}

// Run executes the list command
func (c *ListCommand) Run(cmd *cobra.Command, args []string) error {
	names, err := c.ctx.Registry.List()
	if err != nil {
		return fmt.Errorf("failed to list containers: %w", err)
	}

	entries := make([]listEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, c.describe(name))
	}

	out := cmd.OutOrStdout()
	if c.json {
		return ui.PrintJSON(out, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No containers found")
		return nil
	}

	table := ui.NewTable("NAME", "CIPHER", "CREATED", "SIZE")
	for _, e := range entries {
		created := "-"
		if e.Created != nil {
			created = e.Created.Local().Format(time.DateTime)
		}
		table.AddRow(e.Name, e.Cipher, created, system.FormatSize(e.Size))
	}
	table.Print(out)

	return nil
}

func (c *ListCommand) describe(name string) listEntry {
	entry := listEntry{Name: name, Cipher: "-"}

	dir, err := c.ctx.Registry.ContainerDir(name)
	if err != nil {
		c.ctx.Logger.Warning("Skipping %s: %v", name, err)
		return entry
	}

	summary, err := container.Stat(dir)
	switch {
	case err == nil:
		entry.Cipher = string(summary.Cipher)
		entry.Created = &summary.Created
	case container.IsNotFound(err):
		c.ctx.Logger.Debug("%s is not initialized", name)
	default:
		c.ctx.Logger.Warning("Unreadable container %s: %v", name, err)
		entry.Cipher = "?"
	}

	if size, err := system.DirSize(dir); err == nil {
		entry.Size = size
	}
	return entry
}
