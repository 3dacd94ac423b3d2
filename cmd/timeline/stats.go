package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, closer, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = closer()
			}()

			stats := s.Stats()
			bold := color.New(color.Bold)

			_, _ = bold.Println("Cards")
			fmt.Printf("  total: %d  due today: %d  mastered: %d\n", stats.TotalCards, stats.DueToday, stats.Mastered)
			_, _ = bold.Println("Today")
			fmt.Printf("  reviewed: %d  correct: %d  study minutes: %d\n", stats.ReviewedToday, stats.CorrectToday, stats.StudyMinutesToday)
			_, _ = bold.Println("Streak")
			fmt.Printf("  current: %d day(s)  longest: %d day(s)", stats.CurrentStreak, stats.LongestStreak)
			if stats.LastStudyDate != "" {
				fmt.Printf("  last studied: %s", stats.LastStudyDate)
			}
			fmt.Println()
			return nil
		},
	}
}
