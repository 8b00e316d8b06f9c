package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mithurn/JOB-EZ/internal/history"
)

const defaultHistoryLimit = 20

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent application attempts",
	Run: func(cmd *cobra.Command, _ []string) {
		showHistory(cmd)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("data-dir", defaultDataDir, "data directory holding the history database")
	historyCmd.Flags().Int("limit", defaultHistoryLimit, "how many attempts to show")
}

func showHistory(cmd *cobra.Command) {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	limit, _ := cmd.Flags().GetInt("limit")

	config := &Config{DataDir: dataDir}

	store, err := history.New(config.HistoryPath())
	if err != nil {
		log.Fatalf("opening history store: %s", err)
	}
	defer store.Close()

	attempts, err := store.Recent(limit)
	if err != nil {
		log.Fatalf("listing attempts: %s", err)
	}

	if len(attempts) == 0 {
		fmt.Println("no recorded attempts yet")
		return
	}

	for _, attempt := range attempts {
		line := fmt.Sprintf("%s  %-22s %-24s %s",
			attempt.CreatedAt.Format(time.RFC3339), attempt.Outcome, attempt.Resume, attempt.JobURL)
		if attempt.Detail != "" {
			line += "  (" + attempt.Detail + ")"
		}
		fmt.Println(line)
	}
}
