package main

import (
	"context"
	"flag"
	"os"

	"github.com/evandrarf/hangeul-quiz-be/database"
	"github.com/evandrarf/hangeul-quiz-be/internal/config"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	"github.com/evandrarf/hangeul-quiz-be/internal/importer"
)

func main() {
	file := flag.String("file", "", "path to the .xlsx or .csv grammar file")
	sheet := flag.String("sheet", "", "sheet name (xlsx only, defaults to the first sheet)")
	flag.Parse()

	viperConfig := config.NewViper()
	log := config.NewLogger(viperConfig)

	if *file == "" {
		log.Error("missing -file")
		flag.Usage()
		os.Exit(2)
	}

	db := database.New(viperConfig)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	im := importer.New(db, repository.NewGrammarRepository(db), log)
	result, err := im.ImportFile(context.Background(), importer.Config{
		FilePath:  *file,
		SheetName: *sheet,
	})
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	for _, msg := range result.Errors {
		log.Warn(msg)
	}
	log.Infof("Processed %d rows, upserted %d, skipped %d", result.TotalProcessed, result.Upserted, result.Skipped)
}
