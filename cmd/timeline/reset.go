package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCommand() *cobra.Command {
	var yes bool
	command := &cobra.Command{
		Use:   "reset",
		Short: "Delete every card and user pack; the study history survives",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
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

			if err := s.ResetAll(cmd.Context()); err != nil {
				return fmt.Errorf("store.ResetAll() > %w", err)
			}
			fmt.Println("All cards and packs removed.")
			return nil
		},
	}
	command.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return command
}
