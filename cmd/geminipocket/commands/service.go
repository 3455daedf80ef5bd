package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"geminipocket/internal/cli"
)

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check if the API is online and responding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.client().Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("API health check failed: %w", err)
			}
			a.printer.Success("API is %s", cli.StatusWord(h.Status))
			if t := h.Time(); !t.IsZero() {
				a.printer.Field(1, "Last checked", t.Format("2006-01-02 15:04:05 UTC"))
			}
			return nil
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show API version and available endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.client().Info(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get API info: %w", err)
			}
			a.printer.Title("API Information")
			a.printer.Field(1, "Name", info.Name)
			a.printer.Field(1, "Version", info.Version)
			a.printer.Field(1, "Endpoints", "")

			keys := make([]string, 0, len(info.Endpoints))
			for k := range info.Endpoints {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				a.printer.Field(2, "• "+k, info.Endpoints[k])
			}
			return nil
		},
	}
}
