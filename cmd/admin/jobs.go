package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/rentquote/backend/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newJobsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Background job commands",
	}
	cmd.AddCommand(
		newJobsListCmd(opts),
		newJobsRunCmd(opts),
	)
	return cmd
}

func newJobsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled jobs and their cron expressions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, bootstrap.Options{}, func(app *bootstrap.App) error {
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Job", "Cron", "Guarded"})
				table.SetAutoWrapText(false)
				for _, job := range app.Jobs() {
					guarded := "no"
					if job.Guard != nil {
						guarded = "yes"
					}
					table.Append([]string{job.Name, job.Cron, guarded})
				}
				table.Render()
				return nil
			})
		},
	}
}

func newJobsRunCmd(opts *rootOptions) *cobra.Command {
	var accounts []string

	cmd := &cobra.Command{
		Use:   "run <job>",
		Short: "Run a job now for one or all accounts, ignoring its schedule guard",
		Example: `  # Generate this month's rent invoices for every account
  admin jobs run rent_invoices`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(accounts))
			for _, a := range accounts {
				id, err := uuid.Parse(a)
				if err != nil {
					return fmt.Errorf("invalid account ID %q", a)
				}
				ids = append(ids, id)
			}

			return withApp(cmd.Context(), opts, bootstrap.Options{Outbound: true}, func(app *bootstrap.App) error {
				start := time.Now()
				failed, err := app.RunJob(cmd.Context(), args[0], ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s finished in %s\n", args[0], time.Since(start).Round(time.Millisecond))
				if failed > 0 {
					return fmt.Errorf("%d account(s) failed", failed)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&accounts, "account", "a", nil, "Account IDs to run for (default: all accounts)")
	return cmd
}
