package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/entity"
	"github.com/evandrarf/hangeul-quiz-be/internal/delivery/http/repository"
	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/mapper"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")
	ErrMissingColumn     = errors.New("missing required column")
)

// required header names; the rest are optional
var requiredColumns = []string{"grammar_id", "korean", "english", "structure", "usage", "level"}

type Config struct {
	FilePath  string
	SheetName string // xlsx only, first sheet when empty
}

type Result struct {
	TotalProcessed int
	Upserted       int
	Skipped        int
	Errors         []string
}

type Importer struct {
	db   *gorm.DB
	repo repository.GrammarRepository
	log  *logrus.Logger
}

func New(db *gorm.DB, repo repository.GrammarRepository, log *logrus.Logger) *Importer {
	return &Importer{db: db, repo: repo, log: log}
}

// ImportFile reads a spreadsheet or CSV and upserts every valid row by grammar_id.
func (im *Importer) ImportFile(ctx context.Context, cfg Config) (*Result, error) {
	rows, err := ReadRows(cfg)
	if err != nil {
		return nil, err
	}
	return im.ImportRows(ctx, rows)
}

func (im *Importer) ImportRows(ctx context.Context, rows [][]string) (*Result, error) {
	records, result, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}

	db := im.db.WithContext(ctx)
	for _, record := range records {
		row, err := mapper.ConvertToGrammarEntity(record)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", record.ID, err))
			continue
		}
		if err := im.repo.Upsert(db, &row); err != nil {
			return result, fmt.Errorf("failed to upsert grammar %s: %w", record.ID, err)
		}
		result.Upserted++
	}

	im.log.WithFields(logrus.Fields{
		"processed": result.TotalProcessed,
		"upserted":  result.Upserted,
		"skipped":   result.Skipped,
	}).Info("grammar import finished")
	return result, nil
}

func ReadRows(cfg Config) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".csv":
		file, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()
		return ReadCSV(file)
	case ".xlsx":
		return readExcel(cfg)
	}
	return nil, ErrUnsupportedFormat
}

func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}

func readExcel(cfg Config) ([][]string, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// ParseRows maps rows to records using the header row. Invalid rows are skipped and reported.
func ParseRows(rows [][]string) ([]entity.GrammarRecord, *Result, error) {
	result := &Result{Errors: make([]string, 0)}
	if len(rows) == 0 {
		return nil, result, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	records := make([]entity.GrammarRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		result.TotalProcessed++

		record, err := parseRecord(row, columns)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+2, err))
			continue
		}
		records = append(records, record)
	}
	return records, result, nil
}

func parseRecord(row []string, columns map[string]int) (entity.GrammarRecord, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	record := entity.GrammarRecord{
		ID:          cell("grammar_id"),
		Korean:      cell("korean"),
		English:     cell("english"),
		Vietnamese:  cell("vietnamese"),
		Structure:   cell("structure"),
		Usage:       cell("usage"),
		Explanation: cell("explanation"),
		Level:       entity.GrammarLevel(strings.ToLower(cell("level"))),
		Category:    cell("category"),
		Tags:        splitList(cell("tags")),
	}

	for _, name := range requiredColumns {
		if cell(name) == "" {
			return record, fmt.Errorf("%s cannot be empty", name)
		}
	}
	if !record.Level.Valid() {
		return record, fmt.Errorf("invalid level %q", record.Level)
	}

	record.TopikLevel = parseIntOrDefault(cell("topik_level"), 1, 6, 3)
	record.Difficulty = parseIntOrDefault(cell("difficulty"), 1, 5, 3)

	examples, err := parseExamples(cell("examples"))
	if err != nil {
		return record, err
	}
	record.Examples = examples
	return record, nil
}

// parseExamples accepts a JSON array, or "korean|english|romanization" entries separated by ";".
func parseExamples(raw string) ([]entity.GrammarExample, error) {
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var examples []entity.GrammarExample
		if err := json.Unmarshal([]byte(raw), &examples); err != nil {
			return nil, fmt.Errorf("invalid examples: %w", err)
		}
		return examples, nil
	}

	var examples []entity.GrammarExample
	for _, entry := range strings.Split(raw, ";") {
		parts := strings.Split(entry, "|")
		if strings.TrimSpace(parts[0]) == "" {
			continue
		}
		ex := entity.GrammarExample{Korean: strings.TrimSpace(parts[0])}
		if len(parts) > 1 {
			ex.English = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			ex.Romanization = strings.TrimSpace(parts[2])
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseIntOrDefault(s string, min, max, defaultVal int) int {
	val, err := strconv.Atoi(s)
	if err != nil || val < min || val > max {
		return defaultVal
	}
	return val
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
