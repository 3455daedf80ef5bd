package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

type authFlags struct {
	email    string
	password string
}

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands (login, register, logout, status)",
	}
	cmd.AddCommand(
		a.credentialCmd("register", "Register a new account", "Registration", func(ctx context.Context, email, password string) (string, error) {
			return a.client().Register(ctx, email, password)
		}),
		a.credentialCmd("login", "Login to an existing account", "Login", func(ctx context.Context, email, password string) (string, error) {
			return a.client().Login(ctx, email, password)
		}),
		a.logoutCmd(),
		a.statusCmd(),
	)
	return cmd
}

func (a *app) credentialCmd(use, short, label string, call func(ctx context.Context, email, password string) (string, error)) *cobra.Command {
	var flags authFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(a.stdin)
			email, err := a.prompt(in, "Email", flags.email, false)
			if err != nil {
				return err
			}
			password, err := a.prompt(in, "Password", flags.password, true)
			if err != nil {
				return err
			}

			key, err := call(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("%s failed: %w", strings.ToLower(label), err)
			}
			a.cfg.APIKey = key
			a.cfg.Email = email
			if err := a.cfg.Save(); err != nil {
				return err
			}
			a.printer.Success("%s successful!", label)
			a.printer.Field(0, "API Key", key)
			a.printer.Info("Your API key has been saved to the config.")
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.email, "email", "", "account email (prompted when omitted)")
	cmd.Flags().StringVar(&flags.password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout and remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.ClearCredentials()
			if err := a.cfg.Save(); err != nil {
				return err
			}
			a.printer.Success("Logged out successfully!")
			a.printer.Info("API key has been removed from config.")
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Email == "" && a.cfg.APIKey == "" {
				a.printer.Warning("Not logged in")
				a.printer.Info("Use 'geminipocket auth login' to log in.")
				return nil
			}
			a.printer.Success("Logged in")
			if a.cfg.Email != "" {
				a.printer.Field(0, "Email", a.cfg.Email)
			}
			if a.cfg.APIKey != "" {
				a.printer.Field(0, "API Key", "Configured")
			}
			return nil
		},
	}
}

// prompt returns preset when given, otherwise asks on stdin. Secrets are
// read without echo when stdin is a terminal.
func (a *app) prompt(in *bufio.Reader, label, preset string, secret bool) (string, error) {
	if v := strings.TrimSpace(preset); v != "" {
		return v, nil
	}
	fmt.Fprintf(a.printer.Out, "%s: ", a.printer.Bold(label))

	if f, ok := a.stdin.(*os.File); ok && secret && term.IsTerminal(f.Fd()) {
		raw, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(a.printer.Out)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		return requireValue(label, string(raw))
	}

	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return requireValue(label, line)
}

func requireValue(label, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return v, nil
}
