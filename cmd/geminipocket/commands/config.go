package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"geminipocket/internal/cli"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configure settings (API URL, output directory, polling)",
		Long: `Configure settings stored in ~/.geminipocket/config.yaml.

Valid keys: ` + strings.Join(cli.Keys(), ", "),
	}
	cmd.AddCommand(a.configSetCmd(), a.configGetCmd(), a.configListCmd())
	return cmd
}

func (a *app) configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Update a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := a.cfg.Set(key, value); err != nil {
				if errors.Is(err, cli.ErrUnknownKey) {
					a.printer.Warning("Valid keys: %s", strings.Join(cli.Keys(), ", "))
				}
				return err
			}
			if err := a.cfg.Save(); err != nil {
				return err
			}
			shown := value
			if cli.IsSecret(key) {
				shown = cli.MaskAPIKey(value)
			}
			a.printer.Success("Config updated: %s = %s", key, shown)
			return nil
		},
	}
}

func (a *app) configGetCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Show a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value, set, err := a.cfg.Get(key)
			if err != nil {
				a.printer.Warning("Valid keys: %s", strings.Join(cli.Keys(), ", "))
				return err
			}
			a.printer.Field(0, key, a.display(key, value, set, reveal))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print secrets unmasked")
	return cmd
}

func (a *app) configListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configuration values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printer.Title("Configuration:")
			for _, key := range cli.Keys() {
				value, set, err := a.cfg.Get(key)
				if err != nil {
					return err
				}
				a.printer.Field(1, key, a.display(key, value, set, false))
			}
			a.printer.Field(1, "file", a.printer.Dim(a.cfg.Path()))
			return nil
		},
	}
}

func (a *app) display(key, value string, set, reveal bool) string {
	switch {
	case !set:
		return a.printer.Dim("(not set)")
	case cli.IsSecret(key) && !reveal:
		return cli.MaskAPIKey(value)
	default:
		return value
	}
}
