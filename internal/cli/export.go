package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/wqyuan/contactsheet/internal/app"
	"github.com/wqyuan/contactsheet/internal/provider/google"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all contacts to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Export.Output
			}

			client := google.NewClient(newAuthenticator(cfg), cfg.Export.PageSize)

			progress := cmd.OutOrStdout()
			if jsonFlag {
				progress = io.Discard
			}

			svc := app.NewExportService(client, output, progress)
			n, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}

			if jsonFlag {
				summary := jsonExport{OK: true, Contacts: n}
				if n > 0 {
					summary.Output = output
				}
				return printJSON(summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "output CSV path (defaults to config export.output)")
	return cmd
}
