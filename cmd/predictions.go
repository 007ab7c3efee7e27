package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/ui/components"
	"github.com/abhisek/learntrack/internal/ui/layout"
)

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "List past predictions stored by the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		res := e.orch.FetchPast(cmd.Context())
		if res.Err != nil {
			return fmt.Errorf("fetch past predictions: %s", api.Describe(res.Err))
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(api.PredictionsResponse{Predictions: res.Value})
		}
		writePast(out, res.Value)
		return nil
	},
}

func writePast(w io.Writer, past []api.PastPrediction) {
	if len(past) == 0 {
		fmt.Fprintln(w, "No past predictions found.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-6s  %-6s  %-7s  %-6s  %-14s  %s\n",
		"ID", "Quiz", "Time", "Correct", "Topics", "Proficiency", "Roadmap")
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for i, p := range past {
		row := components.PastRow(p, i, 40)
		fmt.Fprintf(w, "%-8s  %-6s  %-6s  %-7s  %-6s  %-14s  %s\n",
			layout.Truncate(row[0], 8), row[1], row[2], row[3], row[4], layout.Truncate(row[5], 14), row[6])
	}
}

func init() {
	predictionsCmd.Flags().Bool("json", false, "print the list as JSON")
}
