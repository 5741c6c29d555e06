package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nace/nuts/internal/archive"
	"github.com/nace/nuts/internal/container"
	"github.com/nace/nuts/internal/system"
	"github.com/nace/nuts/internal/ui"
	"github.com/spf13/cobra"
)

// NewArchiveCommand groups the archive-scoped subcommands
func NewArchiveCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "An archive on top of the container",
	}

	cmd.AddCommand(newArchiveCreateCommand(ctx))
	cmd.AddCommand(newArchiveAddCommand(ctx))
	cmd.AddCommand(newArchiveListCommand(ctx))
	cmd.AddCommand(newArchiveGetCommand(ctx))

	return cmd
}

func newArchiveCreateCommand(ctx *GlobalContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <container>",
		Short: "Initialize an archive in a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withContainer(args[0], func(c *container.Container) error {
				if _, err := archive.Create(c); err != nil {
					return fmt.Errorf("container %s: %w", args[0], err)
				}
				ctx.Logger.Success("Archive created in %s", args[0])
				return nil
			})
		},
	}
}

func newArchiveAddCommand(ctx *GlobalContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <container> <file>...",
		Short: "Add files to the archive",
		Long:  `Add files to the archive. Each entry is named after the base name of its file.`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(args[0], func(a *archive.Archive) error {
				for _, path := range args[1:] {
					info, err := os.Stat(path)
					if err != nil {
						return fmt.Errorf("failed to access %s: %w", path, err)
					}
					if !info.Mode().IsRegular() {
						return fmt.Errorf("not a regular file: %s", path)
					}

					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("failed to read %s: %w", path, err)
					}

					entry, err := a.Add(filepath.Base(path), data, info.ModTime())
					if err != nil {
						return err
					}
					ctx.Logger.Info("Added %s (%s)", entry.Name, system.FormatSize(entry.Size))
				}
				return nil
			})
		},
	}
}

func newArchiveListCommand(ctx *GlobalContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <container>",
		Short: "List archive entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(args[0], func(a *archive.Archive) error {
				entries := a.List()
				out := cmd.OutOrStdout()

				if asJSON {
					return ui.PrintJSON(out, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(out, "Archive is empty")
					return nil
				}

				table := ui.NewTable("NAME", "SIZE", "MODIFIED")
				for _, e := range entries {
					table.AddRow(e.Name, system.FormatSize(e.Size), e.Modified.Local().Format(time.DateTime))
				}
				table.Print(out)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "JSON output")

	return cmd
}

func newArchiveGetCommand(ctx *GlobalContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get <container> <entry>",
		Short: "Write an archive entry to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withArchive(args[0], func(a *archive.Archive) error {
				data, err := a.Get(args[1])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
}
