package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/autoorganize/internal/domain"
)

func newResultsCommand(state *cliState) *cobra.Command {
	var q domain.ResultQuery

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List the organization history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := state.load(cmd)
			if err != nil {
				return err
			}
			return withService(state.cfg, cfgFile, func(ctx context.Context, h *host) error {
				svc, err := h.registry.Service()
				if err != nil {
					return err
				}
				page, err := svc.GetResults(ctx, q)
				if err != nil {
					return err
				}
				printTable(cmd.OutOrStdout(), resultsTable(page.Items))
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d results\n", len(page.Items), page.TotalRecordCount)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&q.StartIndex, "start", 0, "index of the first result")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "maximum results to show (0 for all)")
	return cmd
}

func newSmartMatchCommand(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smartmatch",
		Short: "List smart-match entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := state.load(cmd)
			if err != nil {
				return err
			}
			return withService(state.cfg, cfgFile, func(ctx context.Context, h *host) error {
				svc, err := h.registry.Service()
				if err != nil {
					return err
				}
				page, err := svc.GetSmartMatchInfos(ctx, domain.ResultQuery{})
				if err != nil {
					return err
				}
				printTable(cmd.OutOrStdout(), smartMatchTable(page.Items))
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id> [match-string]",
		Short: "Delete a smart-match entry, or one of its match strings",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := state.load(cmd)
			if err != nil {
				return err
			}
			matchString := ""
			if len(args) == 2 {
				matchString = args[1]
			}
			return withService(state.cfg, cfgFile, func(ctx context.Context, h *host) error {
				svc, err := h.registry.Service()
				if err != nil {
					return err
				}
				return svc.DeleteSmartMatchEntry(ctx, args[0], matchString)
			})
		},
	})
	return cmd
}

func newOrganizeCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "organize <result-id> <target-path>",
		Short: "Move the file of a result into the library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, err := state.load(cmd)
			if err != nil {
				return err
			}
			return withService(state.cfg, cfgFile, func(ctx context.Context, h *host) error {
				svc, err := h.registry.Service()
				if err != nil {
					return err
				}
				res, err := svc.PerformOrganization(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Status, res.TargetPath)
				return nil
			})
		},
	}
}

func resultsTable(items []domain.FileOrganizationResult) *tableData {
	t := newTableData("ID", "Date", "Status", "File", "Target")
	for _, r := range items {
		t.addRow(
			r.ID,
			r.Date.Format("2006-01-02 15:04"),
			statusText(r),
			r.OriginalFileName,
			r.TargetPath,
		)
	}
	return t
}

func statusText(r domain.FileOrganizationResult) string {
	if r.StatusMessage == "" {
		return string(r.Status)
	}
	return string(r.Status) + " (" + r.StatusMessage + ")"
}

func smartMatchTable(items []domain.SmartMatchResult) *tableData {
	t := newTableData("ID", "Item", "Type", "Matches")
	for _, m := range items {
		t.addRow(
			m.ID,
			m.ItemName,
			string(m.OrganizerType),
			strconv.Itoa(len(m.MatchStrings))+": "+strings.Join(m.MatchStrings, ", "),
		)
	}
	return t
}
