package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nace/nuts/internal/system"
	"golang.org/x/term"
)

// ErrPrompt is returned when a secret cannot be read from the terminal.
var ErrPrompt = errors.New("unable to read password")

// PasswordPrompt is shown whenever a container asks for its password.
const PasswordPrompt = "Enter a password: "

// Prompter talks to the operator. Secrets are read from the terminal with
// echo disabled; prompts are written to Out so stdout stays clean.
type Prompter struct {
	In  io.Reader
	Out io.Writer
	Fd  int

	IsTerminal   func(fd int) bool
	ReadPassword func(fd int) ([]byte, error)
}

// NewPrompter returns a prompter bound to the process terminal
func NewPrompter() *Prompter {
	return &Prompter{
		In:           os.Stdin,
		Out:          os.Stderr,
		Fd:           int(os.Stdin.Fd()),
		IsTerminal:   term.IsTerminal,
		ReadPassword: term.ReadPassword,
	}
}

// AcquirePassword reads the container password. It is handed to the
// container library as a callback and must only run when a container
// actually needs a secret. The caller owns the returned bytes.
func (p *Prompter) AcquirePassword() ([]byte, error) {
	return p.readSecret(PasswordPrompt)
}

// PromptPassword prompts for a password without echoing
func (p *Prompter) PromptPassword(prompt string) (*system.SecureBytes, error) {
	secret, err := p.readSecret(prompt + ": ")
	if err != nil {
		return nil, err
	}
	return system.NewSecureBytes(secret), nil
}

// PromptNewPassword asks twice and fails unless both entries match.
func (p *Prompter) PromptNewPassword() (*system.SecureBytes, error) {
	password, err := p.PromptPassword("Enter a password")
	if err != nil {
		return nil, err
	}

	confirm, err := p.PromptPassword("Confirm password")
	if err != nil {
		password.Zeroize()
		return nil, err
	}
	defer confirm.Zeroize()

	if !password.Equal(confirm) {
		password.Zeroize()
		return nil, fmt.Errorf("passwords don't match")
	}
	if password.Len() == 0 {
		password.Zeroize()
		return nil, fmt.Errorf("password must not be empty")
	}
	return password, nil
}

// PromptConfirm prompts for yes/no confirmation
func (p *Prompter) PromptConfirm(prompt string) bool {
	fmt.Fprintf(p.Out, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(p.In)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

func (p *Prompter) readSecret(prompt string) ([]byte, error) {
	if !p.IsTerminal(p.Fd) {
		return nil, fmt.Errorf("%w: no terminal attached", ErrPrompt)
	}

	fmt.Fprint(p.Out, prompt)
	secret, err := p.ReadPassword(p.Fd)
	fmt.Fprintln(p.Out) // New line after password input
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrompt, err)
	}
	return secret, nil
}
