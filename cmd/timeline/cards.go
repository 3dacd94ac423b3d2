package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wyliebrown1990/ai-timeline/internal/flashcard"
)

func newCardsCommand() *cobra.Command {
	cardsCommand := &cobra.Command{
		Use:   "cards",
		Short: "Manage flashcards for timeline milestones and concepts",
	}

	cardsCommand.AddCommand(newCardsAddCommand())
	cardsCommand.AddCommand(newCardsRemoveCommand())
	cardsCommand.AddCommand(newCardsListCommand())

	return cardsCommand
}

func newCardsAddCommand() *cobra.Command {
	var packIDs []string
	command := &cobra.Command{
		Use:   "add <milestone|concept> <source-id>",
		Short: "Create a flashcard for a timeline item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceType, err := flashcard.ParseSourceType(args[0])
			if err != nil {
				return err
			}

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

			card, err := s.AddCard(cmd.Context(), sourceType, args[1], packIDs)
			if err != nil {
				return fmt.Errorf("store.AddCard() > %w", err)
			}
			if card == nil {
				fmt.Printf("A card for %s %q already exists.\n", sourceType, args[1])
				return nil
			}
			fmt.Printf("Added card %s for %s %q.\n", card.ID, sourceType, args[1])
			return nil
		},
	}
	command.Flags().StringSliceVar(&packIDs, "pack", nil, "additional pack ids for the new card")
	return command
}

func newCardsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <card-id>",
		Short: "Delete a flashcard",
		Args:  cobra.ExactArgs(1),
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

			if err := s.RemoveCard(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("store.RemoveCard() > %w", err)
			}
			fmt.Printf("Removed card %s.\n", args[0])
			return nil
		},
	}
}

func newCardsListCommand() *cobra.Command {
	var packID string
	var dueOnly bool
	command := &cobra.Command{
		Use:   "list",
		Short: "List flashcards, optionally only the ones due",
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

			var cards []flashcard.Card
			if dueOnly {
				cards = s.DueCards(packID)
			} else if packID != "" {
				cards = s.CardsByPack(packID)
			} else {
				cards = s.Cards()
			}
			if len(cards) == 0 {
				fmt.Println("No cards.")
				return nil
			}

			bold := color.New(color.Bold)
			for _, card := range cards {
				_, _ = bold.Printf("%s", card.ID)
				status := fmt.Sprintf("interval %dd, ease %.2f", card.IntervalDays, card.EaseFactor)
				if card.IsMastered() {
					status += ", mastered"
				}
				fmt.Printf("  [%s] %s (%s)\n", card.SourceType, card.SourceID, status)
			}
			return nil
		},
	}
	command.Flags().StringVar(&packID, "pack", "", "restrict to one pack id")
	command.Flags().BoolVar(&dueOnly, "due", false, "only cards due for review")
	return command
}
