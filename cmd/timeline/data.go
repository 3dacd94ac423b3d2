package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wyliebrown1990/ai-timeline/internal/datasync"
)

func newDataCommand() *cobra.Command {
	dataCommand := &cobra.Command{
		Use:   "data",
		Short: "Export and import the study state",
	}

	dataCommand.AddCommand(newDataExportCommand())
	dataCommand.AddCommand(newDataImportCommand())

	return dataCommand
}

func newDataExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export cards, packs, and study history as YAML",
		Args:  cobra.MaximumNArgs(1),
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

			source, ok := s.(datasync.Source)
			if !ok {
				return fmt.Errorf("the configured backend does not support export")
			}
			snapshot := datasync.Export(source, time.Now())

			out := os.Stdout
			if len(args) == 1 {
				file, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", args[0], err)
				}
				defer func() {
					_ = file.Close()
				}()
				out = file
			}
			if err := datasync.WriteSnapshot(out, snapshot); err != nil {
				return err
			}
			if len(args) == 1 {
				fmt.Printf("Exported %d card(s) and %d pack(s) to %s.\n", len(snapshot.Cards), len(snapshot.Packs), args[0])
			}
			return nil
		},
	}
}

func newDataImportCommand() *cobra.Command {
	var dryRun bool
	command := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the local study state with an exported YAML snapshot",
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

			restorer, ok := s.(datasync.Restorer)
			if !ok {
				return fmt.Errorf("import is only supported with the local backend")
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", args[0], err)
			}
			defer func() {
				_ = file.Close()
			}()

			snapshot, err := datasync.ReadSnapshot(file)
			if err != nil {
				return err
			}

			result, err := datasync.Import(cmd.Context(), restorer, snapshot, datasync.ImportOptions{DryRun: dryRun})
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Printf("Dry run: %d card(s) and %d pack(s) would be imported.\n", result.Cards, result.Packs)
				return nil
			}
			fmt.Printf("Imported %d card(s) and %d pack(s).\n", result.Cards, result.Packs)
			return nil
		},
	}
	command.Flags().BoolVar(&dryRun, "dry-run", false, "validate the snapshot without applying it")
	return command
}
