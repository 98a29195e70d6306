// Package importer seeds the question catalog from a spreadsheet.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"

	"leet_tracker/internal/app/service"
	"leet_tracker/internal/domain/model"
)

// Config names the sheet and the columns (letters) holding each field.
type Config struct {
	SheetName         string // empty means the first sheet
	TitleColumn       string
	DifficultyColumn  string
	CategoryColumn    string
	CompanyColumn     string
	URLColumn         string
	DescriptionColumn string
	StartRow          int // 1-based, rows above it are headers
}

func DefaultConfig() Config {
	return Config{
		TitleColumn:       "A",
		DifficultyColumn:  "B",
		CategoryColumn:    "C",
		CompanyColumn:     "D",
		URLColumn:         "E",
		DescriptionColumn: "F",
		StartRow:          2,
	}
}

type Result struct {
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

type Importer struct {
	questions *service.QuestionService
}

func New(questions *service.QuestionService) *Importer {
	return &Importer{questions: questions}
}

// ImportFile adds every row whose title is not in the catalog yet. Rows that
// fail validation are reported in Result.Errors and do not stop the import.
func (im *Importer) ImportFile(ctx context.Context, path string, cfg Config) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	existing, err := im.questions.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, q := range existing {
		known[q.Slug] = struct{}{}
	}

	result := &Result{Errors: []string{}}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow || isBlank(row) {
			continue
		}
		result.Processed++

		req := service.AddQuestionRequest{
			Title:       cell(row, cfg.TitleColumn),
			Difficulty:  normalizeDifficulty(cell(row, cfg.DifficultyColumn)),
			Category:    cell(row, cfg.CategoryColumn),
			Company:     optionalCell(row, cfg.CompanyColumn),
			URL:         optionalCell(row, cfg.URLColumn),
			Description: optionalCell(row, cfg.DescriptionColumn),
		}
		if _, dup := known[slug.Make(req.Title)]; dup {
			result.Skipped++
			continue
		}

		q, err := im.questions.AddQuestion(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		known[q.Slug] = struct{}{}
		result.Created++
	}
	return result, nil
}

// normalizeDifficulty accepts any casing of Easy, Medium or Hard.
func normalizeDifficulty(raw string) model.Difficulty {
	switch strings.ToLower(raw) {
	case "easy":
		return model.DifficultyEasy
	case "medium":
		return model.DifficultyMedium
	case "hard":
		return model.DifficultyHard
	}
	return model.Difficulty(raw)
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil || idx > len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx-1])
}

func optionalCell(row []string, column string) *string {
	v := cell(row, column)
	if v == "" {
		return nil
	}
	return &v
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
