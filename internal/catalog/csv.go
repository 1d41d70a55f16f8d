package catalog

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/recipe"
)

// Dataset column names.
const (
	ColumnCategory    = "Category"
	ColumnName        = "Recipe_Name"
	ColumnIngredients = "Ingredients"
	ColumnCuisine     = "Cuisine"
	ColumnPrepTime    = "Preparation_Time_Min"
	ColumnCalories    = "Calories_kcal"
)

// Columns lists the required header columns in canonical order.
var Columns = []string{
	ColumnCategory,
	ColumnName,
	ColumnIngredients,
	ColumnCuisine,
	ColumnPrepTime,
	ColumnCalories,
}

// ParseCSV reads a recipe dataset. Column order is free; every column in
// Columns must be present. A missing header column fails the whole parse.
// Individual malformed rows are skipped and logged.
func ParseCSV(r io.Reader) ([]recipe.Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty: missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	recipes := make([]recipe.Recipe, 0)
	skipped := 0
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				skipped++
				logging.Warn().Err(err).Int("line", parseErr.Line).Msg("skipping unparsable recipe row")
				continue
			}
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}

		line, _ := reader.FieldPos(0)
		row, err := parseRow(record, index)
		if err != nil {
			skipped++
			logging.Warn().Err(err).Int("line", line).Msg("skipping malformed recipe row")
			continue
		}
		recipes = append(recipes, row)
	}

	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Int("loaded", len(recipes)).Msg("recipe dataset contained malformed rows")
	}

	return recipes, nil
}

// headerIndex maps each required column to its position.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset is missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(record []string, index map[string]int) (recipe.Recipe, error) {
	field := func(col string) (string, error) {
		i := index[col]
		if i >= len(record) {
			return "", fmt.Errorf("row has %d fields, missing %s", len(record), col)
		}
		return record[i], nil
	}

	var r recipe.Recipe
	var err error

	if r.Category, err = field(ColumnCategory); err != nil {
		return r, err
	}
	r.Category = recipe.NormalizeCategory(r.Category)
	if r.Category == "" {
		return r, fmt.Errorf("empty %s", ColumnCategory)
	}

	if r.Name, err = field(ColumnName); err != nil {
		return r, err
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return r, fmt.Errorf("empty %s", ColumnName)
	}

	if r.Ingredients, err = field(ColumnIngredients); err != nil {
		return r, err
	}
	if r.Cuisine, err = field(ColumnCuisine); err != nil {
		return r, err
	}

	if r.PrepTimeMinutes, err = numberField(field, ColumnPrepTime); err != nil {
		return r, err
	}
	if r.Calories, err = numberField(field, ColumnCalories); err != nil {
		return r, err
	}

	return r, nil
}

func numberField(field func(string) (string, error), col string) (float64, error) {
	raw, err := field(col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", col, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q", col, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative %s %q", col, raw)
	}
	return v, nil
}
