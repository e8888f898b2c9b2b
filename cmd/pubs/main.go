// Command pubs is the command-line companion to the publications server:
// it imports BibTeX files, lists the type table and backfills citation keys
// against the same database.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bruecksen/publications/internal/config"
	"github.com/bruecksen/publications/internal/database"
	"github.com/bruecksen/publications/internal/database/types"
	"github.com/bruecksen/publications/internal/scheduler"
	"github.com/bruecksen/publications/internal/services"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:          "pubs",
		Short:        "Manage the publication database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the publication database (defaults to DATABASE_PATH)")

	openDB := func() (*database.Database, *config.Config, error) {
		cfg := config.NewConfig()
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		db, err := database.NewDatabase(cfg.Database.Path, cfg.Import.TypesPath)
		if err != nil {
			return nil, nil, err
		}
		return db, cfg, nil
	}

	root.AddCommand(newImportCmd(openDB))
	root.AddCommand(newTypesCmd(openDB))
	root.AddCommand(newBackfillCmd(openDB))

	return root
}

type dbOpener func() (*database.Database, *config.Config, error)

func newImportCmd(openDB dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.bib>",
		Short: "Import a BibTeX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			db, cfg, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			service := services.NewImportService(db, cfg.Import.FoldedMatch)
			result, err := service.ImportBibtex(string(data))
			if err != nil {
				return err
			}

			for _, msg := range result.Errors {
				fmt.Fprintln(os.Stderr, msg)
			}
			for _, pub := range result.Saved {
				citekey := ""
				if pub.Citekey != nil {
					citekey = *pub.Citekey
				}
				fmt.Printf("%-24s %s (%d)\n", citekey, pub.Title, pub.Year)
			}
			fmt.Printf("Successfully added %d publications (%d skipped due to errors)\n",
				len(result.Saved), len(result.Errors))
			return nil
		},
	}
}

func newTypesCmd(openDB dbOpener) *cobra.Command {
	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "Inspect the publication type table",
	}

	typesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List publication types and their BibTeX aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			all, err := types.NewRepository(db.DB).GetAll()
			if err != nil {
				return err
			}
			for _, t := range all {
				fmt.Printf("%-20s %s\n", t.Title, t.BibtexTypes)
			}
			return nil
		},
	})

	return typesCmd
}

func newBackfillCmd(openDB dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Assign citation keys to publications missing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			s := scheduler.NewCitekeyBackfillScheduler(db, cfg.Backfill.Schedule)
			assigned, err := s.Backfill()
			if err != nil {
				return err
			}
			fmt.Printf("Assigned %d citation keys\n", assigned)
			return nil
		},
	}
}
