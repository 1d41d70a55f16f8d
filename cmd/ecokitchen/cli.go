package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/ecokitchen/internal/catalog"
	"github.com/hpungsan/ecokitchen/internal/config"
	"github.com/hpungsan/ecokitchen/internal/db"
	"github.com/hpungsan/ecokitchen/internal/errors"
	"github.com/hpungsan/ecokitchen/internal/mcp"
	"github.com/hpungsan/ecokitchen/internal/ops"
	"github.com/hpungsan/ecokitchen/internal/session"
	"github.com/hpungsan/ecokitchen/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(loader *catalog.Loader, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "ecokitchen",
		Usage:   "Spoilage risk classifier and leftover recipe recommender",
		Version: Version,
		Commands: []*cli.Command{
			classifyCmd(loader, cfg),
			catalogCmd(loader, cfg),
			serveCmd(loader, cfg),
			mcpCmd(loader, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// classifyOutput is the classify command result.
type classifyOutput struct {
	*ops.SubmitOutput
	Recipes *ops.RecipesOutput `json:"recipes,omitempty"`
}

// classifyCmd creates the classify command.
func classifyCmd(loader *catalog.Loader, cfg *config.Config) *cli.Command {
	defaults := ops.DefaultInventoryInput()
	return &cli.Command{
		Name:  "classify",
		Usage: "Classify the spoilage risk of one item",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: defaults.Category, Usage: "Bakery|Grains/Legumes|Dairy|Protein|Produce"},
			&cli.Float64Flag{Name: "quantity", Value: defaults.QuantityGrams, Usage: "Quantity in grams"},
			&cli.StringFlag{Name: "storage", Value: defaults.Storage, Usage: "Refrigerated|Ambient"},
			&cli.Float64Flag{Name: "cost", Value: defaults.Cost, Usage: "Item cost (INR)"},
			&cli.IntFlag{Name: "shelf-life", Value: defaults.ShelfLifeDays, Usage: "Total shelf life in days"},
			&cli.IntFlag{Name: "days-left", Aliases: []string{"d"}, Value: defaults.DaysLeft, Usage: "Days until expiry (negative if expired)"},
			&cli.BoolFlag{Name: "recipes", Aliases: []string{"r"}, Usage: "Also suggest recipes when the item is at risk"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum number of recipes (default from config)"},
		},
		Action: func(c *cli.Context) error {
			sess := session.New()

			submitted, err := ops.SubmitInventory(sess, ops.InventoryInput{
				Category:      c.String("category"),
				QuantityGrams: c.Float64("quantity"),
				Storage:       c.String("storage"),
				Cost:          c.Float64("cost"),
				ShelfLifeDays: c.Int("shelf-life"),
				DaysLeft:      c.Int("days-left"),
			})
			if err != nil {
				return outputError(err)
			}

			out := classifyOutput{SubmitOutput: submitted}
			if c.Bool("recipes") && submitted.Assessment.RecipeEligible {
				limit := c.Int("limit")
				if limit <= 0 && cfg != nil {
					limit = cfg.Recommend.Limit
				}
				out.Recipes, err = ops.RequestRecipes(c.Context, loader, sess, ops.RecipesInput{Limit: limit})
				if err != nil {
					return outputError(err)
				}
			}

			return outputJSON(out)
		},
	}
}

// catalogCmd creates the catalog command group.
func catalogCmd(loader *catalog.Loader, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect or import the recipe catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show recipe counts per category",
				Action: func(c *cli.Context) error {
					output, err := ops.CatalogStats(c.Context, loader)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
			{
				Name:  "import",
				Usage: "Build a SQLite catalog from a CSV file or s3:// object",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true, Usage: "Source dataset (path or s3://bucket/key)"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "Destination SQLite file"},
				},
				Action: func(c *cli.Context) error {
					output, err := importCatalog(c, cfg, c.String("from"), c.String("to"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(output)
				},
			},
		},
	}
}

// importOutput is the catalog import result.
type importOutput struct {
	Source   string `json:"source"`
	Path     string `json:"path"`
	Imported int    `json:"imported"`
}

func importCatalog(c *cli.Context, cfg *config.Config, from, to string) (*importOutput, error) {
	var opts catalog.S3Options
	if cfg != nil {
		opts = cfg.S3Options()
	}

	src, err := catalog.OpenSource(c.Context, from, opts)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	if _, ok := src.(*catalog.SQLiteSource); ok {
		return nil, errors.NewInvalidRequest("--from must be a CSV file or s3:// object")
	}

	rows, err := src.Load(c.Context)
	if err != nil {
		return nil, errors.NewCatalogUnavailable(src.Name(), err)
	}

	database, err := db.Init(to)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer database.Close()

	n, err := db.ReplaceRecipes(c.Context, database, rows)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &importOutput{Source: src.Name(), Path: to, Imported: n}, nil
}

// serveCmd creates the serve command.
func serveCmd(loader *catalog.Loader, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI and JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			if bind := c.String("bind"); bind != "" {
				cfg.Web.Bind = bind
			}
			if port := c.Int("port"); port != 0 {
				if port < 1 || port > 65535 {
					return outputError(errors.NewInvalidRequest("port must be between 1 and 65535"))
				}
				cfg.Web.Port = port
			}

			store := session.NewStore(cfg.Web.SessionIdleTimeout)
			srv, err := web.NewServer(loader, cfg, store, Version)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(loader *catalog.Loader, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(loader, cfg, Version)
		},
	}
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if ecoErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", ecoErr.Code, ecoErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
