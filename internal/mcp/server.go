package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/config"
	"github.com/hpungsan/ecokitchen/internal/logging"
	"github.com/hpungsan/ecokitchen/internal/session"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"inventory_submit": {
		def:     inventorySubmitToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInventorySubmit },
	},
	"recipes_request": {
		def:     recipesRequestToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRecipesRequest },
	},
	"history_list": {
		def:     historyListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryList },
	},
	"history_clear": {
		def:     historyClearToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryClear },
	},
	"catalog_stats": {
		def:     catalogStatsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCatalogStats },
	},
}

// AllToolNames returns every valid tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with EcoKitchen tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(loader *catalog.Loader, cfg *config.Config, sess *session.Session, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ecokitchen",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(loader, cfg, sess)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport with a fresh session.
func Run(loader *catalog.Loader, cfg *config.Config, version string) error {
	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		logging.Warn().Strs("tools", unknown).Msg("unknown tools in disabled_tools")
	}

	sess := session.New()
	logging.Info().Str("session_id", sess.ID).Str("catalog", loader.SourceName()).Msg("mcp server starting")

	return server.ServeStdio(NewServer(loader, cfg, sess, version))
}
