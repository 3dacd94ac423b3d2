package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wyliebrown1990/ai-timeline/internal/cli"
)

func newReviewCommand() *cobra.Command {
	var packID string
	command := &cobra.Command{
		Use:   "review",
		Short: "Start an interactive review session over the cards due",
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

			due := s.DueCards(packID)
			if len(due) == 0 {
				fmt.Println("No cards due. Come back later!")
				return nil
			}
			fmt.Printf("Starting review session with %d card(s)\n\n", len(due))

			session := cli.NewReviewSession(s, packID)
			return session.Run(cmd.Context())
		},
	}
	command.Flags().StringVar(&packID, "pack", "", "review only one pack")
	return command
}
