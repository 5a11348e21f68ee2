package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	feedEntity "poultry.GO/model/entity/feed"
	feedRepo "poultry.GO/model/repository/feed"
)

var programColumns = map[string]bool{
	"age_in_weeks": true, "age_in_days": true, "feed_type": true,
	"gram_per_hen": true, "is_active": true,
}

// ProgramImportResult holds the result of a feed program import run.
type ProgramImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// ImportPrograms reads a CSV feed program curve and upserts it keyed on
// age_in_weeks, so re-importing the same file is idempotent. Required
// columns: age_in_weeks, feed_type, gram_per_hen.
func ImportPrograms(db *gorm.DB, r io.Reader) (*ProgramImportResult, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if programColumns[name] {
			colIndex[name] = i
		}
	}
	for _, required := range []string{"age_in_weeks", "feed_type", "gram_per_hen"} {
		if _, ok := colIndex[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	result := &ProgramImportResult{}
	var rows []feedEntity.FeedProgram
	seenWeeks := make(map[int]bool)

	cell := func(row []string, col string) string {
		ci, ok := colIndex[col]
		if !ok || ci >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[ci])
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		week, err := strconv.Atoi(cell(row, "age_in_weeks"))
		if err != nil || week < 0 {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: invalid age_in_weeks %q", line, cell(row, "age_in_weeks")))
			continue
		}
		if seenWeeks[week] {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: duplicate age_in_weeks %d", line, week))
			continue
		}

		feedType := feedEntity.FeedType(strings.ToUpper(cell(row, "feed_type")))
		if !feedEntity.ValidFeedType(feedType) {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: unknown feed_type %q", line, cell(row, "feed_type")))
			continue
		}

		gram, err := strconv.ParseFloat(cell(row, "gram_per_hen"), 64)
		if err != nil || gram <= 0 {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: invalid gram_per_hen %q", line, cell(row, "gram_per_hen")))
			continue
		}

		program := feedEntity.FeedProgram{
			AgeInWeeks: week,
			AgeInDays:  cell(row, "age_in_days"),
			FeedType:   feedType,
			GramPerHen: gram,
			IsActive:   true,
		}
		if v := cell(row, "is_active"); v != "" {
			program.IsActive = v == "1" || strings.EqualFold(v, "true")
		}

		seenWeeks[week] = true
		rows = append(rows, program)
	}

	repo := feedRepo.NewFeedProgramRepository(db)
	if err := repo.UpsertBatch(rows, 100); err != nil {
		return nil, fmt.Errorf("program upsert: %w", err)
	}
	result.Imported = len(rows)
	if len(rows) > 0 {
		InvalidateProgramCache()
	}
	return result, nil
}
