package cli

import (
	"github.com/nace/nuts/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is reported by --version
var Version = "0.1.0"

type rootOptions struct {
	verbose int
	quiet   bool
	noColor bool
}

// NewRootCommand builds the nuts command tree on top of ctx
func NewRootCommand(ctx *GlobalContext) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "nuts",
		Short: "nuts - manage named encrypted containers",
		Long: `nuts manages encrypted containers stored below ~/.nuts/container.d.

Each container is addressed by name. Archives of named entries can be
kept inside a container.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx.ConfigureLogging(ui.LoggingConfig{
				Verbosity: opts.verbose,
				Quiet:     opts.quiet,
				NoColor:   opts.noColor,
			})
			ctx.Logger.Trace("logging configured (level %s)", ctx.Logger.Level())
			return nil
		},
	}

	bindGlobalFlags(rootCmd.PersistentFlags(), opts)

	rootCmd.AddCommand(NewContainerCommand(ctx))
	rootCmd.AddCommand(NewArchiveCommand(ctx))

	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

func bindGlobalFlags(fs *pflag.FlagSet, opts *rootOptions) {
	fs.CountVarP(&opts.verbose, "verbose", "v", "Enable verbose output. Can be given multiple times")
	fs.BoolVarP(&opts.quiet, "quiet", "q", false, "Quiet mode (suppress non-error output)")
	fs.BoolVar(&opts.noColor, "no-color", false, "Disable color output")
}
