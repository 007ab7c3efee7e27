package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learntrack/internal/store"
)

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Inspect backend calls recorded in the local journal",
	Long:  "Calls are recorded only when the journal is enabled (--journal or journal: true).",
}

// withJournal opens the journal for a read-only command.
func withJournal(cmd *cobra.Command, fn func(ctx context.Context, repo store.CallRepo) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cmd.Context(), st.CallRepo())
}

var callsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent backend calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		endpoint, _ := cmd.Flags().GetString("endpoint")
		submission, _ := cmd.Flags().GetString("submission")
		out := cmd.OutOrStdout()

		return withJournal(cmd, func(ctx context.Context, repo store.CallRepo) error {
			calls, err := repo.Query(ctx, store.QueryOpts{
				Limit:        limit,
				Endpoint:     strings.TrimPrefix(endpoint, "/"),
				SubmissionID: submission,
			})
			if err != nil {
				return fmt.Errorf("query calls: %w", err)
			}

			if len(calls) == 0 {
				fmt.Fprintln(out, "No calls recorded.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-18s  %-6s  %-6s  %-7s  %-8s  %s\n",
				"ID", "Timestamp", "Endpoint", "Method", "Status", "Ms", "Sub", "OK")
			fmt.Fprintln(out, strings.Repeat("─", 90))

			for _, c := range calls {
				ok := "✓"
				if !c.Success {
					ok = "✗"
				}
				status := "-"
				if c.StatusCode != 0 {
					status = strconv.Itoa(c.StatusCode)
				}
				fmt.Fprintf(out, "%-5d  %-19s  %-18s  %-6s  %-6s  %-7d  %-8s  %s\n",
					c.ID,
					c.Timestamp.Local().Format("2006-01-02 15:04:05"),
					c.Endpoint,
					c.Method,
					status,
					c.LatencyMs,
					truncate(c.SubmissionID, 8),
					ok,
				)
			}
			return nil
		})
	},
}

var callsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View the full request and response of a call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		out := cmd.OutOrStdout()

		return withJournal(cmd, func(ctx context.Context, repo store.CallRepo) error {
			c, err := repo.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("get call: %w", err)
			}
			if c == nil {
				return fmt.Errorf("call %d not found", id)
			}

			sep := strings.Repeat("─", 60)

			fmt.Fprintf(out, "ID:          %d\n", c.ID)
			fmt.Fprintf(out, "Time:        %s\n", c.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Submission:  %s\n", c.SubmissionID)
			fmt.Fprintf(out, "Endpoint:    %s %s\n", c.Method, c.Endpoint)
			fmt.Fprintf(out, "Status:      %d\n", c.StatusCode)
			fmt.Fprintf(out, "Latency:     %dms\n", c.LatencyMs)
			fmt.Fprintf(out, "Success:     %v\n", c.Success)
			if c.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:       %s\n", c.ErrorMessage)
			}

			for _, part := range []struct{ title, body string }{
				{"REQUEST", c.RequestBody},
				{"RESPONSE", c.ResponseBody},
			} {
				fmt.Fprintln(out)
				fmt.Fprintln(out, sep)
				fmt.Fprintln(out, part.title)
				fmt.Fprintln(out, sep)
				if part.body != "" {
					fmt.Fprintln(out, part.body)
				} else {
					fmt.Fprintln(out, "(not captured)")
				}
			}
			return nil
		})
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	callsListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	callsListCmd.Flags().StringP("endpoint", "e", "", "Filter by endpoint (e.g. predict, track_progress)")
	callsListCmd.Flags().StringP("submission", "s", "", "Filter by submission id")

	callsCmd.AddCommand(callsListCmd)
	callsCmd.AddCommand(callsViewCmd)
}
