// cmd/server/main.go
package main

import (
	"os"

	"github.com/Annany2002/nebula-canvas/api"
	"github.com/Annany2002/nebula-canvas/config"
	"github.com/Annany2002/nebula-canvas/internal/engine"
	"github.com/Annany2002/nebula-canvas/internal/logger"
	"github.com/Annany2002/nebula-canvas/internal/preset"
	"github.com/Annany2002/nebula-canvas/internal/showdata"
	"github.com/Annany2002/nebula-canvas/internal/storage"
	"github.com/Annany2002/nebula-canvas/internal/translator"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting Nebula Canvas server...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// 2. Initialize Database Connection
	db, err := storage.ConnectDB(cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer func() {
		customLog.Println("Closing database connection...")
		if err := db.Close(); err != nil {
			customLog.Printf("Error closing database: %v", err)
		}
	}()

	// 3. Preset catalog, optionally extended from a file
	catalog := preset.Builtin()
	if cfg.PresetCatalogFile != "" {
		extra, err := preset.LoadFile(cfg.PresetCatalogFile)
		if err != nil {
			customLog.Fatalf("Failed to load preset catalog %s: %v", cfg.PresetCatalogFile, err)
		}
		catalog = catalog.Extend(extra)
	}
	customLog.Printf("Loaded %d presets", len(catalog.Keys()))

	// 4. Text generation, left unset when no API key is configured
	var gen translator.Generator
	if cfg.LLM.IsAvailable() {
		openaiGen, err := translator.NewOpenAIGenerator(translator.GeneratorConfig{
			Endpoint:    cfg.LLM.Endpoint,
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}, customLog)
		if err != nil {
			customLog.Fatalf("Failed to configure text generation: %v", err)
		}
		gen = openaiGen
	}

	// 5. Setup Router (passing dependencies)
	router := api.SetupRouter(db, cfg, api.Services{
		Engine:     engine.New(catalog),
		Catalog:    catalog,
		Translator: translator.New(gen, catalog.Keys(), cfg.LLM.Timeout),
		Shows: showdata.NewClient(showdata.Options{
			BaseURL:  cfg.Shows.APIURL,
			Pages:    cfg.Shows.Pages,
			CacheTTL: cfg.Shows.CacheTTL,
			Timeout:  cfg.Shows.Timeout,
		}),
	})

	// 6. Start Server
	customLog.Printf("Server listening on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		customLog.Fatalf("Failed to start server: %v", err)
	}
}
