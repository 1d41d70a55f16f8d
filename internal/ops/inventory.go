// Package ops implements the operations shared by the CLI, MCP and web
// adapters. Each operation takes the session it acts on explicitly.
package ops

import (
	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/metrics"
	"github.com/hpungsan/ecokitchen/internal/recipe"
	"github.com/hpungsan/ecokitchen/internal/risk"
	"github.com/hpungsan/ecokitchen/internal/session"
	"github.com/hpungsan/ecokitchen/internal/validation"
)

// Storage conditions.
const (
	StorageRefrigerated = "Refrigerated"
	StorageAmbient      = "Ambient"
)

// MinDaysLeft is the lowest days_left accepted at the input boundary.
const MinDaysLeft = -30

// InventoryInput contains parameters for the SubmitInventory operation.
// Only Category and DaysLeft affect the outcome; the rest is validated and
// echoed back.
type InventoryInput struct {
	Category      string  `json:"category" validate:"required,oneof=Bakery Grains/Legumes Dairy Protein Produce"`
	QuantityGrams float64 `json:"quantity_grams" validate:"gte=0"`
	Storage       string  `json:"storage" validate:"required,oneof=Refrigerated Ambient"`
	Cost          float64 `json:"cost" validate:"gte=0"`
	ShelfLifeDays int     `json:"shelf_life_days" validate:"gte=1"`
	DaysLeft      int     `json:"days_left" validate:"gte=-30"`
}

// DefaultInventoryInput returns the values the input form starts with.
func DefaultInventoryInput() InventoryInput {
	return InventoryInput{
		Category:      recipe.CategoryBakery,
		QuantityGrams: 500,
		Storage:       StorageRefrigerated,
		Cost:          150,
		ShelfLifeDays: 7,
		DaysLeft:      1,
	}
}

// SubmitOutput contains the result of the SubmitInventory operation.
type SubmitOutput struct {
	Item        InventoryInput  `json:"item"`
	Assessment  risk.Assessment `json:"assessment"`
	HistorySize int             `json:"history_size"`
}

// SubmitInventory classifies one item and appends it to the session history.
// Invalid input fails with INVALID_REQUEST and leaves the session untouched.
func SubmitInventory(sess *session.Session, input InventoryInput) (*SubmitOutput, error) {
	input.Category = recipe.NormalizeCategory(input.Category)
	if err := validation.ValidateStruct(input); err != nil {
		return nil, err
	}

	assessment := risk.Classify(input.DaysLeft)
	sess.Record(input.Category, assessment)

	metrics.ClassificationsTotal.WithLabelValues(string(assessment.Label)).Inc()
	logging.Debug().
		Str("session_id", sess.ID).
		Str("category", input.Category).
		Int("days_left", input.DaysLeft).
		Str("label", string(assessment.Label)).
		Msg("inventory classified")

	return &SubmitOutput{
		Item:        input,
		Assessment:  assessment,
		HistorySize: sess.HistoryLen(),
	}, nil
}
