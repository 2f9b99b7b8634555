package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"kupu/internal/adapters/storage"
	categoryStore "kupu/internal/adapters/storage/category"
	entryStore "kupu/internal/adapters/storage/entry"
	categoryDomain "kupu/internal/domain/category"
	entryDomain "kupu/internal/domain/entry"
)

var importFile string

// importCmd loads dictionary entries from a CSV file. Columns:
// maori, english, category, description, level. Categories are created
// on first use; rows whose Māori headword already exists are skipped.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import dictionary entries from a CSV file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(context.Background()); err != nil {
			fatal("Import failed", err)
		}
	},
}

func runImport(ctx context.Context) error {
	f, err := os.Open(importFile)
	if err != nil {
		return err
	}
	defer f.Close()

	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.MigrateDB(db); err != nil {
		return err
	}

	entries := entryStore.NewSQLiteStore(db)
	categories := categoryStore.NewSQLiteStore(db)

	// Category names are normalized once per file, so "animals" and
	// "ANIMALS" land in the same category.
	categoryIDs := map[string]string{}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 5

	var imported, skipped int
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "maori") {
			continue // header row
		}

		maori := strings.TrimSpace(record[0])
		english := strings.TrimSpace(record[1])
		catName := categoryDomain.NormalizeName(record[2])
		description := strings.TrimSpace(record[3])
		level, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return fmt.Errorf("line %d: level %q is not a number", line, record[4])
		}

		catID, err := ensureCategory(ctx, categories, categoryIDs, catName)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		e := entryDomain.Entry{
			ID:          uuid.NewString(),
			Maori:       maori,
			English:     english,
			Description: description,
			Level:       level,
			CategoryID:  catID,
			UpdatedAt:   time.Now(),
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if _, err := entries.FindIDByMaori(ctx, e.Maori, ""); err == nil {
			slog.Debug("import_skip_duplicate", "maori", e.Maori, "line", line)
			skipped++
			continue
		} else if !errors.Is(err, entryDomain.ErrNotFound) {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if err := entries.Save(ctx, e); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		imported++
	}

	fmt.Printf("Imported %d entries (%d skipped, %d categories).\n", imported, skipped, len(categoryIDs))
	return nil
}

func ensureCategory(ctx context.Context, store categoryStore.Store, cache map[string]string, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if id, ok := cache[name]; ok {
		return id, nil
	}
	id, err := store.FindIDByName(ctx, name)
	if errors.Is(err, categoryDomain.ErrNotFound) {
		id = uuid.NewString()
		err = store.Save(ctx, categoryDomain.Category{ID: id, Name: name})
	}
	if err != nil {
		return "", err
	}
	cache[name] = id
	return id, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file to import")
	importCmd.MarkFlagRequired("file")
}
