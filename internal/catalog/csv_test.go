package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const header = "Category,Recipe_Name,Ingredients,Cuisine,Preparation_Time_Min,Calories_kcal\n"

func TestParseCSV(t *testing.T) {
	data := header +
		"Dairy,Paneer Tikka,\"paneer, yogurt, spices\",Indian,30,320\n" +
		" Produce ,Greek Salad,\"cucumber, tomato\",Greek,10,150.5\n"

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "Dairy", rows[0].Category)
	require.Equal(t, "Paneer Tikka", rows[0].Name)
	require.Equal(t, "paneer, yogurt, spices", rows[0].Ingredients)
	require.Equal(t, "Indian", rows[0].Cuisine)
	require.Equal(t, 30.0, rows[0].PrepTimeMinutes)
	require.Equal(t, 320.0, rows[0].Calories)

	if rows[1].Category != "Produce" {
		t.Errorf("Category = %q, want %q", rows[1].Category, "Produce")
	}
	if rows[1].Calories != 150.5 {
		t.Errorf("Calories = %v, want 150.5", rows[1].Calories)
	}
}

func TestParseCSV_ColumnOrderIsFree(t *testing.T) {
	data := "Recipe_Name,Calories_kcal,Category,Cuisine,Ingredients,Preparation_Time_Min,Extra\n" +
		"Toast,200,Bakery,Continental,bread,5,ignored\n"

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Bakery", rows[0].Category)
	require.Equal(t, "Toast", rows[0].Name)
	require.Equal(t, 5.0, rows[0].PrepTimeMinutes)
}

func TestParseCSV_ByteOrderMark(t *testing.T) {
	data := "\ufeff" + header + "Bakery,Toast,bread,Continental,5,200\n"

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing header row")
}

func TestParseCSV_MissingColumns(t *testing.T) {
	data := "Category,Recipe_Name,Ingredients\nDairy,Lassi,yogurt\n"

	_, err := ParseCSV(strings.NewReader(data))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Cuisine")
	require.Contains(t, err.Error(), "Preparation_Time_Min")
	require.Contains(t, err.Error(), "Calories_kcal")
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(header))
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestParseCSV_SkipsMalformedRows(t *testing.T) {
	data := header +
		"Dairy,Lassi,yogurt,Indian,5,120\n" +
		"Dairy,Short Row\n" +
		",No Category,x,Indian,5,120\n" +
		"Dairy,,x,Indian,5,120\n" +
		"Dairy,Bad Time,x,Indian,soon,120\n" +
		"Dairy,Negative,x,Indian,-1,120\n" +
		"Dairy,Not A Number,x,Indian,5,NaN\n" +
		"Dairy,Infinite,x,Indian,5,Inf\n" +
		"Produce,Salad,cucumber,Greek,10,150\n"

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Lassi", rows[0].Name)
	require.Equal(t, "Salad", rows[1].Name)
}
