package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sydlexius/avresolve/internal/config"
	"github.com/sydlexius/avresolve/internal/database"
	"github.com/sydlexius/avresolve/internal/identifier"
	"github.com/sydlexius/avresolve/internal/logging"
	"github.com/sydlexius/avresolve/internal/mapping"
	"github.com/sydlexius/avresolve/internal/normalize"
	"github.com/sydlexius/avresolve/internal/provider"
	"github.com/sydlexius/avresolve/internal/provider/airav"
	"github.com/sydlexius/avresolve/internal/resolver"
	"github.com/sydlexius/avresolve/internal/scanner"
	"github.com/sydlexius/avresolve/internal/translate"
)

// app wires the full resolution pipeline for one CLI invocation.
type app struct {
	cfg        *config.Config
	logs       *logging.Manager
	logger     *slog.Logger
	db         *sql.DB
	journal    *database.Journal
	extractor  *identifier.Extractor
	resolver   *resolver.Resolver
	normalizer *normalize.Normalizer
	scanner    *scanner.Service
	sources    []provider.Name
	runID      string
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logs, logger := logging.NewManager(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logs.Close() //nolint:errcheck
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()   //nolint:errcheck
		logs.Close() //nolint:errcheck
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	limiters := provider.NewRateLimiterMap()
	registry := provider.NewRegistry()
	registry.Register(airav.New(limiters, logger))

	rc := &provider.RequestContext{
		ProxyURL:      cfg.Network.Proxy,
		VerifyTLS:     cfg.Network.VerifyTLS,
		CookieDir:     cfg.Sources.CookieDir,
		MoreStoryline: cfg.Sources.MoreStoryline,
	}

	res := resolver.New(registry, logger, resolver.Options{
		RequestContext:     rc,
		AnonymousFill:      cfg.Sources.AnonymousFill,
		TargetLanguage:     cfg.Translate.TargetLanguage,
		UncensoredPrefixes: cfg.Number.UncensoredPrefixes,
	})

	a := &app{
		cfg:      cfg,
		logs:     logs,
		logger:   logger,
		db:       db,
		journal:  database.NewJournal(db),
		resolver: res,
		runID:    uuid.New().String(),
		sources:  sourceList(cfg),
	}

	a.extractor = identifier.New(identifier.Options{
		CustomPatterns: cfg.Number.CustomPatterns,
		Uppercase:      cfg.Number.Uppercase,
	}, logger)

	a.normalizer = normalize.New(buildNormalizeDeps(cfg, db, logger), normalize.Options{
		UppercaseNumber: cfg.Number.Uppercase,
		TranslateFields: translateFields(cfg),
		ConvertFields:   cfg.Convert.Fields,
		NamingRule:      cfg.Naming.Rule,
	}, logger)

	a.scanner, err = scanner.NewService(scanner.Options{}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	logger.Info("pipeline ready",
		slog.String("run_id", a.runID),
		slog.Int("sources", len(a.sources)))
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close() //nolint:errcheck
	}
	if a.logs != nil {
		a.logs.Close() //nolint:errcheck
	}
}

// sourceList returns the configured priority order, defaulting to every
// known source.
func sourceList(cfg *config.Config) []provider.Name {
	if len(cfg.Sources.Priority) == 0 {
		return provider.AllNames()
	}
	out := make([]provider.Name, len(cfg.Sources.Priority))
	for i, s := range cfg.Sources.Priority {
		out[i] = provider.Name(s)
	}
	return out
}

func translateFields(cfg *config.Config) []string {
	if !cfg.Translate.Enabled {
		return nil
	}
	return cfg.Translate.Fields
}

// buildNormalizeDeps assembles the optional pipeline collaborators. Each
// one degrades to disabled rather than failing startup: a missing alias
// table or conversion profile should not block resolution.
func buildNormalizeDeps(cfg *config.Config, db *sql.DB, logger *slog.Logger) normalize.Deps {
	deps := normalize.Deps{
		TitleCache: database.NewTitleCache(db),
	}

	script := mapping.ParseScript(cfg.Convert.Mode)
	loader := mapping.NewLoader(cfg.Convert.MappingDir)
	if table, err := loader.Load(script, mapping.ActorTable); err != nil {
		logger.Warn("actor mapping table unavailable", slog.String("error", err.Error()))
	} else {
		deps.Actors = table
	}
	if table, err := loader.Load(script, mapping.InfoTable); err != nil {
		logger.Warn("info mapping table unavailable", slog.String("error", err.Error()))
	} else {
		deps.Info = table
	}

	if cfg.Translate.Enabled {
		var engine translate.Engine
		switch cfg.Translate.Engine {
		case "google-free":
			engine = translate.NewGoogleFree(nil, cfg.Translate.ServiceSite)
		case "deeplx":
			engine = translate.NewDeepLX(nil, cfg.Translate.ServiceSite, cfg.Translate.Key)
		}
		if engine != nil {
			deps.Translator = translate.NewTranslator(engine, cfg.Translate.TargetLanguage, logger)
		}
	}

	if converter, err := normalize.NewConverter(cfg.Convert.Mode); err != nil {
		logger.Warn("script converter unavailable", slog.String("error", err.Error()))
	} else if converter != nil {
		deps.Converter = converter
	}

	return deps
}
