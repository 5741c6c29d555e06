package cli

import (
	"fmt"

	"github.com/nace/nuts/internal/container"
	"github.com/spf13/cobra"
)

// CreateCommand handles container creation
type CreateCommand struct {
	ctx        *GlobalContext
	cipher     string
	iterations int
}

// NewCreateCommand creates the create command
func NewCreateCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &CreateCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new container",
		Long:  `Create a new container below ~/.nuts/container.d. Encrypted containers prompt for a password twice.`,
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.cipher, "cipher", "c", string(container.CipherAES256GCM),
		"Cipher (aes256-gcm or none)")
	cobraCmd.Flags().IntVar(&cmd.iterations, "iterations", container.DefaultIterations,
		"PBKDF2 iterations used to derive the key")

	return cobraCmd
}

// Run executes the create command
func (c *CreateCommand) Run(cmd *cobra.Command, args []string) error {
	name := args[0]

	cipher, err := container.ParseCipher(c.cipher)
	if err != nil {
		return err
	}

	dir, err := c.ctx.Registry.ContainerDir(name)
	if err != nil {
		return err
	}
	if _, err := container.Stat(dir); err == nil {
		return fmt.Errorf("container already exists: %s", name)
	}

	opts := container.CreateOptions{
		Cipher:     cipher,
		Iterations: c.iterations,
	}
	if cipher.Encrypted() {
		password, err := c.ctx.Prompter.PromptNewPassword()
		if err != nil {
			return err
		}
		defer password.Zeroize()
		opts.Password = password
	}

	c.ctx.Logger.Info("Creating %s container: %s", cipher, name)
	created, err := container.Create(dir, opts)
	if err != nil {
		return fmt.Errorf("failed to create container %s: %w", name, err)
	}
	defer created.Close()

	c.ctx.Logger.Success("Container created successfully: %s", name)
	c.ctx.Logger.Debug("Path: %s", dir)

	return nil
}
