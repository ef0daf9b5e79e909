// Command personaforge turns a website URL into user personas: one-shot
// reports on the terminal, or an HTTP API with -web.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/kataras/golog"
	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/personaforge/config"
	"github.com/smallnest/personaforge/export"
	"github.com/smallnest/personaforge/llm"
	"github.com/smallnest/personaforge/log"
	"github.com/smallnest/personaforge/persona"
	"github.com/smallnest/personaforge/scraper"
	"github.com/smallnest/personaforge/server"
	"github.com/smallnest/personaforge/store"
	"github.com/smallnest/personaforge/store/memory"
	"github.com/smallnest/personaforge/store/postgres"
	"github.com/smallnest/personaforge/store/redis"
	"github.com/smallnest/personaforge/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	webMode := flag.Bool("web", false, "run the HTTP server")
	addr := flag.String("addr", "", "server listen address (overrides config)")
	url := flag.String("url", "", "website URL to profile (CLI mode)")
	count := flag.Int("count", 0, "number of personas to generate (1-5, default 3)")
	format := flag.String("format", "pretty", "CLI output format: pretty, markdown, html or json")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("%v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}

	ctx := context.Background()
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		fatal("failed to create LLM client: %v", err)
	}

	sc := scraper.New(nil)
	pipeline := persona.NewPipeline(client)

	if *webMode {
		reports, err := newReportStore(ctx, cfg)
		if err != nil {
			fatal("failed to open report store: %v", err)
		}
		defer reports.Close()

		srv := server.New(sc, pipeline, client, reports)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			fatal("server error: %v", err)
		}
		return
	}

	if *url == "" {
		fmt.Fprintln(os.Stderr, "provide a URL with -url, or run the server with -web")
		flag.Usage()
		os.Exit(2)
	}

	runOnce(ctx, sc, pipeline, *url, *count, *format)
}

func runOnce(ctx context.Context, sc *scraper.Scraper, pipeline *persona.Pipeline, url string, count int, format string) {
	progress := func(ev persona.StageEvent) {
		if ev.Stage == persona.StageError {
			return
		}
		fmt.Fprintln(os.Stderr, renderStage(ev))
	}

	fmt.Fprintln(os.Stderr, renderStage(persona.StageEvent{Stage: persona.StageScraping, Message: "Scraping website..."}))
	content, err := sc.Scrape(ctx, url)
	if err != nil {
		fatal("%v", err)
	}

	result, err := pipeline.Run(ctx, content.PromptText(), count, progress)
	if err != nil {
		fatal("%v", err)
	}

	entry := store.NewEntry(url, store.ReportData{
		ProductProfile:  result.ProductProfile,
		CustomerProfile: result.CustomerProfile,
		Personas:        result.Personas,
	})

	switch format {
	case "pretty":
		fmt.Println(renderReport(entry))
	case "markdown":
		fmt.Println(export.ReportMarkdown(entry))
	case "html":
		os.Stdout.Write(export.ReportHTML(entry))
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entry); err != nil {
			fatal("failed to encode report: %v", err)
		}
	default:
		fatal("unknown format %q", format)
	}
}

func setupLogging(level string) {
	logger := log.NewGologLogger(golog.Default)
	logger.SetLevel(log.ParseLevel(level))
	log.SetDefaultLogger(logger)
}

func newLLMClient(ctx context.Context, cfg *config.Config) (*llm.Client, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case config.ProviderOpenAI:
		model, err = llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.Model)
	default:
		model, err = llm.NewGoogleAI(ctx, cfg.GeminiAPIKey, cfg.Model)
	}
	if err != nil {
		return nil, err
	}

	return llm.NewClient(model, llm.Config{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}), nil
}

func newReportStore(ctx context.Context, cfg *config.Config) (store.ReportStore, error) {
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		return sqlite.NewSqliteReportStore(sqlite.SqliteOptions{Path: cfg.Store.Path})
	case config.StoreRedis:
		return redis.NewRedisReportStore(redis.RedisOptions{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		}), nil
	case config.StorePostgres:
		ps, err := postgres.NewPostgresReportStore(ctx, postgres.PostgresOptions{ConnString: cfg.Store.PostgresURL})
		if err != nil {
			return nil, err
		}
		if err := ps.InitSchema(ctx); err != nil {
			ps.Close()
			return nil, err
		}
		return ps, nil
	default:
		return memory.NewMemoryReportStore(), nil
	}
}

func fatal(format string, v ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
	os.Exit(1)
}
