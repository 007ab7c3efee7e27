package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/learntrack/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "learntrack",
	Short: "Learner proficiency dashboard",
	Long: "LearnTrack submits learner activity to a prediction service and shows the proficiency level,\n" +
		"suggested roadmap, study material, recommended content, anomaly flags and past predictions.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().Bool("no-splash", false, "skip the welcome animation")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(predictionsCmd)
	rootCmd.AddCommand(callsCmd)
	rootCmd.AddCommand(versionCmd)
}
