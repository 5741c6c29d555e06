package cli

import (
	"io"
	"sync"

	"github.com/nace/nuts/internal/container"
	"github.com/nace/nuts/internal/registry"
	"github.com/nace/nuts/internal/ui"
)

// OpenFunc opens the container stored in dir, asking for a password
// through the callback only if the container needs one.
type OpenFunc func(dir string, password container.PasswordCallback) (*container.Container, error)

// GlobalContext holds shared resources for all commands
type GlobalContext struct {
	Logger   *ui.Logger
	Prompter *ui.Prompter
	Home     *registry.Home
	Registry *registry.Registry
	Open     OpenFunc

	// HomeLookup and LogOutput are read when logging is configured;
	// nil means the operator's home directory and stderr.
	HomeLookup func() (string, error)
	LogOutput  io.Writer

	configureOnce sync.Once
}

// NewGlobalContext creates a context with default logging. The real
// configuration is applied by ConfigureLogging once flags are parsed.
func NewGlobalContext() *GlobalContext {
	ctx := &GlobalContext{
		Prompter: ui.NewPrompter(),
		Open:     container.Open,
	}
	ctx.rebuild(ui.LoggingConfig{})
	return ctx
}

// ConfigureLogging applies cfg and recreates the components that log.
// Only the first call has any effect; it reports whether cfg was applied.
func (ctx *GlobalContext) ConfigureLogging(cfg ui.LoggingConfig) bool {
	applied := false
	ctx.configureOnce.Do(func() {
		if cfg.Output == nil {
			cfg.Output = ctx.LogOutput
		}
		ctx.rebuild(cfg)
		applied = true
	})
	return applied
}

func (ctx *GlobalContext) rebuild(cfg ui.LoggingConfig) {
	ctx.Logger = ui.NewLogger(cfg)
	ctx.Home = registry.NewHome(ctx.HomeLookup, ctx.Logger)
	ctx.Registry = registry.New(ctx.Home, ctx.Logger)
}
