package mcp

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/config"
	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/ops"
	"github.com/hpungsan/ecokitchen/internal/session"
)

// Handlers holds dependencies for MCP tool handlers. A stdio server serves
// one client, so every tool acts on the same session.
type Handlers struct {
	loader *catalog.Loader
	cfg    *config.Config
	sess   *session.Session
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(loader *catalog.Loader, cfg *config.Config, sess *session.Session) *Handlers {
	return &Handlers{loader: loader, cfg: cfg, sess: sess}
}

// InventorySubmitRequest represents the arguments for inventory_submit.
// Omitted optional fields take the form defaults.
type InventorySubmitRequest struct {
	Category      string   `json:"category"`
	DaysLeft      *int     `json:"days_left"`
	QuantityGrams *float64 `json:"quantity_grams,omitempty"`
	Storage       *string  `json:"storage,omitempty"`
	Cost          *float64 `json:"cost,omitempty"`
	ShelfLifeDays *int     `json:"shelf_life_days,omitempty"`
}

// RecipesRequest represents the arguments for recipes_request.
type RecipesRequest struct {
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// HandleInventorySubmit handles the inventory_submit tool call.
func (h *Handlers) HandleInventorySubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InventorySubmitRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.DaysLeft == nil {
		return errorResult(errors.NewInvalidRequest("days_left is required")), nil
	}

	item := ops.DefaultInventoryInput()
	item.Category = input.Category
	item.DaysLeft = *input.DaysLeft
	if input.QuantityGrams != nil {
		item.QuantityGrams = *input.QuantityGrams
	}
	if input.Storage != nil {
		item.Storage = *input.Storage
	}
	if input.Cost != nil {
		item.Cost = *input.Cost
	}
	if input.ShelfLifeDays != nil {
		item.ShelfLifeDays = *input.ShelfLifeDays
	}

	result, err := ops.SubmitInventory(h.sess, item)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecipesRequest handles the recipes_request tool call.
func (h *Handlers) HandleRecipesRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecipesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.cfg.Recommend.Limit
	}

	result, err := ops.RequestRecipes(ctx, h.loader, h.sess, ops.RecipesInput{
		Category: input.Category,
		Limit:    limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleHistoryList handles the history_list tool call.
func (h *Handlers) HandleHistoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.GetHistory(h.sess))
}

// HandleHistoryClear handles the history_clear tool call.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.ClearHistory(h.sess))
}

// HandleCatalogStats handles the catalog_stats tool call.
func (h *Handlers) HandleCatalogStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.CatalogStats(ctx, h.loader)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if ecoErr, ok := errors.As(err); ok {
		errorObj := map[string]any{
			"code":    ecoErr.Code,
			"message": ecoErr.Message,
			"status":  ecoErr.Status,
		}
		// Internal errors may carry paths or SQL; keep their details out.
		if ecoErr.Code != errors.ErrInternal && ecoErr.Details != nil {
			errorObj["details"] = ecoErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
