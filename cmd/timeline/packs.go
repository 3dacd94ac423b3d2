package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPacksCommand() *cobra.Command {
	packsCommand := &cobra.Command{
		Use:   "packs",
		Short: "Manage card packs",
	}

	packsCommand.AddCommand(newPacksListCommand())
	packsCommand.AddCommand(newPacksCreateCommand())
	packsCommand.AddCommand(newPacksRenameCommand())
	packsCommand.AddCommand(newPacksDeleteCommand())
	packsCommand.AddCommand(newPacksMoveCommand())
	packsCommand.AddCommand(newPacksRemoveCardCommand())
	packsCommand.AddCommand(newPacksReorderCommand())

	return packsCommand
}

func newPacksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List packs with their member counts",
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

			bold := color.New(color.Bold)
			for _, pack := range s.Packs() {
				marker := ""
				if pack.IsDefault {
					marker = " (default)"
				}
				_, _ = bold.Printf("%s", pack.Name)
				fmt.Printf("%s  %s  %d card(s)\n", marker, pack.ID, len(s.CardsByPack(pack.ID)))
			}
			return nil
		},
	}
}

func newPacksCreateCommand() *cobra.Command {
	var description, packColor string
	command := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a pack",
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

			pack, err := s.CreatePack(cmd.Context(), args[0], description, packColor)
			if err != nil {
				return fmt.Errorf("store.CreatePack() > %w", err)
			}
			fmt.Printf("Created pack %s (%s).\n", pack.Name, pack.ID)
			return nil
		},
	}
	command.Flags().StringVar(&description, "description", "", "pack description")
	command.Flags().StringVar(&packColor, "color", "", "pack color as #rrggbb")
	return command
}

func newPacksRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <pack-id> <name>",
		Short: "Rename a pack",
		Args:  cobra.ExactArgs(2),
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

			if err := s.RenamePack(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("store.RenamePack() > %w", err)
			}
			fmt.Printf("Renamed pack %s.\n", args[0])
			return nil
		},
	}
}

func newPacksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pack-id>",
		Short: "Delete a pack; its cards survive",
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

			if err := s.DeletePack(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("store.DeletePack() > %w", err)
			}
			fmt.Printf("Deleted pack %s.\n", args[0])
			return nil
		},
	}
}

func newPacksMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <card-id> <pack-id>",
		Short: "Add a card to a pack",
		Args:  cobra.ExactArgs(2),
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

			if err := s.MoveCardToPack(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("store.MoveCardToPack() > %w", err)
			}
			fmt.Printf("Moved card %s into pack %s.\n", args[0], args[1])
			return nil
		},
	}
}

func newPacksRemoveCardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-card <card-id> <pack-id>",
		Short: "Remove a card from a pack",
		Args:  cobra.ExactArgs(2),
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

			if err := s.RemoveCardFromPack(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("store.RemoveCardFromPack() > %w", err)
			}
			fmt.Printf("Removed card %s from pack %s.\n", args[0], args[1])
			return nil
		},
	}
}

func newPacksReorderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <pack-id>...",
		Short: "Reorder packs; unlisted packs keep their relative order at the end",
		Args:  cobra.MinimumNArgs(1),
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

			if err := s.ReorderPacks(cmd.Context(), args); err != nil {
				return fmt.Errorf("store.ReorderPacks() > %w", err)
			}
			fmt.Println("Packs reordered.")
			return nil
		},
	}
}
