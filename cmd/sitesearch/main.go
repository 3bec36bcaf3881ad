package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/themizzi/sitesearch/internal/browser"
	internalcli "github.com/themizzi/sitesearch/internal/cli"
	"github.com/themizzi/sitesearch/internal/config"
	"github.com/themizzi/sitesearch/internal/database"
	"github.com/themizzi/sitesearch/internal/flows"
	"github.com/themizzi/sitesearch/internal/handlers"
	"github.com/themizzi/sitesearch/internal/models"
	"github.com/themizzi/sitesearch/internal/observability"
	"github.com/themizzi/sitesearch/internal/report"
	"github.com/themizzi/sitesearch/internal/repository"
	"github.com/themizzi/sitesearch/internal/services"
	"github.com/themizzi/sitesearch/internal/steps"
)

var version = "0.1.0"

// env bundles the configuration every command needs
type env struct {
	logger  *zap.Logger
	browser config.BrowserConfig
	suite   config.SuiteConfig
}

func loadEnv() (*env, error) {
	browserCfg, err := config.LoadBrowserConfig(os.Getenv)
	if err != nil {
		return nil, err
	}
	suiteCfg, err := config.LoadSuiteConfig(os.Getenv)
	if err != nil {
		return nil, err
	}
	return &env{
		logger:  observability.NewStdout(config.LoadLoggerConfig(os.Getenv)),
		browser: browserCfg,
		suite:   suiteCfg,
	}, nil
}

// FeaturesCommand returns the command running the Gherkin features
func FeaturesCommand() *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Run the product search features against the demo storefront",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tags", Usage: "tag expression selecting scenarios"},
			&cli.StringFlag{Name: "format", Usage: "godog formatters, e.g. pretty,cucumber:reports/cucumber.json"},
			&cli.StringSliceFlag{Name: "path", Usage: "feature file or directory (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			if c.IsSet("tags") {
				e.suite.Tags = c.String("tags")
			}
			if c.IsSet("format") {
				e.suite.Format = c.String("format")
			}
			if c.IsSet("path") {
				e.suite.Paths = c.StringSlice("path")
			}

			sink := report.NewDirSink(e.suite.ReportDir, time.Now())
			runner := steps.NewRunner(browser.NewPlaywrightLauncher(e.browser), e.browser, e.suite, sink, e.logger)
			status, err := runner.Run()
			if err != nil {
				return err
			}
			e.logger.Info("Features finished", zap.Int("status", status), zap.String("screenshots", sink.Dir()))
			if status != 0 {
				return cli.Exit("features failed", status)
			}
			return nil
		},
	}
}

var titleFlags = []cli.Flag{
	&cli.StringFlag{Name: "titles", Value: string(models.SortAscending), Usage: "which end of the catalog to search: asc or desc"},
	&cli.IntFlag{Name: "limit", Value: 5, Usage: "number of titles to search"},
}

// BookMyShowCommand returns the command searching titles on the ticketing site
func BookMyShowCommand() *cli.Command {
	return &cli.Command{
		Name:  "bookmyshow",
		Usage: "Search film titles in one city on BookMyShow",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "city", Value: "Kolkata", Usage: "city to select"},
		}, titleFlags...),
		Action: func(c *cli.Context) error {
			return runFlow(c, func(e *env, page playwright.Page, sink report.Sink, titles []string) ([]flows.Outcome, error) {
				return flows.NewBookMyShow(page, c.String("city"), sink, e.logger).Run(titles)
			})
		},
	}
}

// GoogleCommand returns the command searching titles on Google
func GoogleCommand() *cli.Command {
	return &cli.Command{
		Name:  "google",
		Usage: "Search film titles on Google",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{Name: "skip-rate-limited", Usage: "skip titles that hit the rate-limit page instead of failing"},
		}, titleFlags...),
		Action: func(c *cli.Context) error {
			return runFlow(c, func(e *env, page playwright.Page, sink report.Sink, titles []string) ([]flows.Outcome, error) {
				var opts []flows.GoogleOption
				if c.Bool("skip-rate-limited") {
					opts = append(opts, flows.WithRateLimitSkipping())
				}
				return flows.NewGoogleSearch(page, sink, e.logger, opts...).Run(titles)
			})
		},
	}
}

type flowFunc func(e *env, page playwright.Page, sink report.Sink, titles []string) ([]flows.Outcome, error)

// runFlow loads titles, lends the flow a fresh page of its own browser and
// logs every outcome.
func runFlow(c *cli.Context, run flowFunc) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	order, err := models.ParseSortOrder(c.String("titles"))
	if err != nil {
		return err
	}
	titles, err := loadTitles(c.Context, e.logger, order, c.Int("limit"))
	if err != nil {
		return err
	}

	launcher := browser.NewPlaywrightLauncher(e.browser)
	b, err := launcher.Launch()
	if err != nil {
		return err
	}
	defer func() {
		if err := launcher.Shutdown(); err != nil {
			e.logger.Error("Failed to close browser", zap.Error(err))
		}
	}()

	bctx, err := b.NewContext(browser.ContextOptions(e.browser))
	if err != nil {
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	defer bctx.Close()
	bctx.SetDefaultTimeout(float64(e.suite.StepTimeout.Milliseconds()))
	bctx.SetDefaultNavigationTimeout(float64(e.suite.StepTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	sink := report.NewDirSink(e.suite.ReportDir, time.Now())
	outcomes, err := run(e, page, sink, titles)
	for _, o := range outcomes {
		if o.Status == flows.StatusSkipped {
			e.logger.Warn("Title skipped", zap.String("title", o.Title), zap.Error(o.Err))
			continue
		}
		e.logger.Info("Title found", zap.String("title", o.Title))
	}
	e.logger.Info("Flow finished", zap.Int("processed", len(outcomes)), zap.Int("titles", len(titles)), zap.String("screenshots", sink.Dir()))
	return err
}

// loadTitles reads titles from the film catalog when one is configured, else
// uses the built-in lists.
func loadTitles(ctx context.Context, logger *zap.Logger, order models.SortOrder, limit int) ([]string, error) {
	pgConfig, err := config.LoadOptionalPostgresConfig(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres configuration: %w", err)
	}

	var filmRepo services.FilmRepository
	if pgConfig != nil {
		db, err := database.Connect(ctx, pgConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		logger.Info("Connected to film catalog", zap.String("host", pgConfig.Host), zap.String("db", pgConfig.Database))
		filmRepo = repository.NewFilmRepository(db)
	}

	return services.NewTitleService(filmRepo, logger).Titles(ctx, order, limit)
}

// ReportCommand returns the command serving the captured screenshots
func ReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Serve an index of captured screenshots",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "template", Value: "templates/report.html", Usage: "report page template"},
		},
		Action: func(c *cli.Context) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			reportHandler, err := handlers.NewReportHandler(c.String("template"), e.suite.ReportDir, e.logger)
			if err != nil {
				return fmt.Errorf("failed to create report handler: %w", err)
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig:  config.LoadServerConfig(os.Getenv),
				ReportDir:     e.suite.ReportDir,
				ReportHandler: reportHandler,
				Logger:        e.logger,
			})
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "sitesearch",
		Usage:   "Browser checks for storefront and film searches",
		Version: version,
		Commands: []*cli.Command{
			FeaturesCommand(),
			BookMyShowCommand(),
			GoogleCommand(),
			ReportCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
