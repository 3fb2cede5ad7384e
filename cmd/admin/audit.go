package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	auditapp "github.com/rentquote/backend/internal/application/audit"
	"github.com/rentquote/backend/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newAuditCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit log commands",
	}
	cmd.AddCommand(newAuditTailCmd(opts))
	return cmd
}

func newAuditTailCmd(opts *rootOptions) *cobra.Command {
	var (
		account string
		filter  auditapp.LogListFilter
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the most recent audit entries of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			accountID, err := uuid.Parse(account)
			if err != nil {
				return errors.New("--account must be a valid UUID")
			}
			filter.Page = 1

			return withApp(cmd.Context(), opts, bootstrap.Options{}, func(app *bootstrap.App) error {
				entries, total, err := app.Services.Audit.List(cmd.Context(), accountID, filter)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, entries)
				}

				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Occurred at", "Event", "Aggregate", "Aggregate ID", "User"})
				table.SetAutoWrapText(false)
				for _, e := range entries {
					user := "-"
					if e.UserID != nil {
						user = e.UserID.String()
					}
					table.Append([]string{
						e.OccurredAt.Format(time.RFC3339),
						e.EventType,
						e.AggregateType,
						e.AggregateID.String(),
						user,
					})
				}
				table.Render()
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d entries\n", len(entries), total)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Account ID (required)")
	cmd.Flags().StringVar(&filter.EventType, "event", "", "Only entries of this event type")
	cmd.Flags().StringVar(&filter.AggregateType, "aggregate", "", "Only entries of this aggregate type")
	cmd.Flags().IntVarP(&filter.PageSize, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entries as JSON")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}
