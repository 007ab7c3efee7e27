package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/learntrack/internal/api"
	"github.com/abhisek/learntrack/internal/config"
	"github.com/abhisek/learntrack/internal/dashboard"
	"github.com/abhisek/learntrack/internal/form"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit learner activity once and print the result",
	Long: "Runs the same pipeline as the dashboard without the TUI. The user id comes from\n" +
		"--user-id or the configuration. Exits non-zero only when the prediction itself fails.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.close()

		in := form.New(e.cfg.UserID)
		for _, f := range formFlags() {
			v, _ := cmd.Flags().GetString(config.FlagName(string(f.Field)))
			if err := in.Set(string(f.Field), v); err != nil {
				return err
			}
		}

		var st dashboard.State
		refresh := e.orch.Submit(cmd.Context(), &st, in)
		if refresh != nil {
			st.ApplyPast(<-refresh)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		withHistory, _ := cmd.Flags().GetBool("history")
		out := cmd.OutOrStdout()
		if asJSON {
			if err := writeResultJSON(out, st, withHistory); err != nil {
				return err
			}
		} else {
			writeResult(out, st)
			if withHistory {
				fmt.Fprintln(out)
				writePast(out, st.Past)
			}
		}

		if st.Phase == dashboard.PhaseFailed {
			return errors.New(st.Error)
		}
		return nil
	},
}

// formFlags are the form fields set by flags. user_id is the config flag.
func formFlags() []form.FieldInfo {
	var out []form.FieldInfo
	for _, f := range form.Fields() {
		if f.Field != form.FieldUserID {
			out = append(out, f)
		}
	}
	return out
}

type resultJSON struct {
	Phase              string               `json:"phase"`
	ProficiencyLevel   string               `json:"proficiency_level"`
	Roadmap            string               `json:"roadmap"`
	StudyMaterial      string               `json:"study_material"`
	RecommendedContent []api.Recommendation `json:"recommended_content"`
	Anomalies          []int                `json:"anomalies"`
	Error              string               `json:"error,omitempty"`
	Predictions        []api.PastPrediction `json:"predictions,omitempty"`
}

func writeResultJSON(w io.Writer, st dashboard.State, withHistory bool) error {
	res := resultJSON{
		Phase:              st.Phase.String(),
		ProficiencyLevel:   st.ProficiencyLevel,
		Roadmap:            st.Roadmap,
		StudyMaterial:      st.StudyMaterial,
		RecommendedContent: st.Recommendations,
		Anomalies:          st.Anomalies,
		Error:              st.Error,
	}
	if withHistory {
		res.Predictions = st.Past
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

func writeResult(w io.Writer, st dashboard.State) {
	if st.Error != "" {
		fmt.Fprintf(w, "Error:              %s\n", st.Error)
	}
	if st.Phase == dashboard.PhaseFailed {
		return
	}

	fmt.Fprintf(w, "Proficiency Level:  %s\n", st.ProficiencyLevel)
	fmt.Fprintf(w, "Suggested Roadmap:  %s\n", st.Roadmap)
	if st.StudyMaterial != "" {
		fmt.Fprintf(w, "Study Material:     %s\n", st.StudyMaterial)
	}

	if len(st.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommended Content:")
		for _, r := range st.Recommendations {
			fmt.Fprintf(w, "  %5.2f  %s\n", r.Score, r.Content)
		}
	}

	flags := make([]string, len(st.Anomalies))
	for i, a := range st.Anomalies {
		flags[i] = fmt.Sprint(a)
	}
	fmt.Fprintf(w, "Anomalies:          [%s] (%d anomalous)\n", strings.Join(flags, ", "), st.AnomalyCount())
}

func init() {
	for _, f := range formFlags() {
		predictCmd.Flags().String(config.FlagName(string(f.Field)), "", f.Label)
	}
	predictCmd.Flags().Bool("json", false, "print the result as JSON")
	predictCmd.Flags().Bool("history", false, "also print past predictions")
}
