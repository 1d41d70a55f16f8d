package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/ecokitchen/internal/ops"
	"github.com/hpungsan/ecokitchen/internal/recipe"
)

var inventorySubmitToolDef = mcp.NewTool("inventory_submit",
	mcp.WithDescription("Classify the spoilage risk of one inventory item and record it in the session history. "+
		"Items that expire today or within 2 days unlock recipes_request."),
	mcp.WithString("category",
		mcp.Required(),
		mcp.Enum(recipe.Categories...),
		mcp.Description("Item category"),
	),
	mcp.WithNumber("days_left",
		mcp.Required(),
		mcp.Min(ops.MinDaysLeft),
		mcp.Description("Days until expiry; negative when already expired"),
	),
	mcp.WithNumber("quantity_grams",
		mcp.Min(0),
		mcp.Description("Quantity in grams (default 500)"),
	),
	mcp.WithString("storage",
		mcp.Enum(ops.StorageRefrigerated, ops.StorageAmbient),
		mcp.Description("Storage condition (default Refrigerated)"),
	),
	mcp.WithNumber("cost",
		mcp.Min(0),
		mcp.Description("Item cost in INR (default 150)"),
	),
	mcp.WithNumber("shelf_life_days",
		mcp.Min(1),
		mcp.Description("Total shelf life in days (default 7)"),
	),
)

var recipesRequestToolDef = mcp.NewTool("recipes_request",
	mcp.WithDescription("Reveal recipe suggestions for the last submitted item. "+
		"Fails with RECIPES_LOCKED unless that item expires today or within 2 days."),
	mcp.WithString("category",
		mcp.Description("Category to search (default: category of the last submitted item)"),
	),
	mcp.WithNumber("limit",
		mcp.Min(1),
		mcp.Description("Maximum number of recipes (default 10)"),
	),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List the items classified in this session, most recent first."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var historyClearToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Clear the session history."),
	mcp.WithDestructiveHintAnnotation(true),
)

var catalogStatsToolDef = mcp.NewTool("catalog_stats",
	mcp.WithDescription("Report the recipe catalog source and recipe counts per category."),
	mcp.WithReadOnlyHintAnnotation(true),
)
