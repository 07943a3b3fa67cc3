package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"quote-search/config"
	"quote-search/credentials"
	"quote-search/loader"
	"quote-search/logger"
	"quote-search/lookup"
	"quote-search/models"
	"quote-search/provider"
	"quote-search/search"
)

// app is the set of components every command shares.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	engine  search.SearchEngine
	service *lookup.Service
	close   func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, close: func() error { return nil }}
	switch cfg.Catalog.Engine {
	case "memory":
		a.engine = search.NewInMemoryEngine(catalog)
	default:
		be, err := search.NewBleveEngine(cfg.Catalog.IndexPath, catalog, log)
		if err != nil {
			return nil, fmt.Errorf("initialize search engine: %w", err)
		}
		a.engine = be
		a.close = be.Close
	}

	a.service = lookup.NewService(newSource(cfg, log), log)

	log.Debug().
		Int("candidates", len(catalog)).
		Str("engine", cfg.Catalog.Engine).
		Str("provider", cfg.Provider.Name).
		Msg("components ready")
	return a, nil
}

func loadCatalog(cfg *config.Config) ([]models.Candidate, error) {
	if cfg.Catalog.Path == "" {
		return loader.DefaultCatalog(), nil
	}
	catalog, err := loader.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

func newSource(cfg *config.Config, log zerolog.Logger) provider.Source {
	var src provider.Source
	switch cfg.Provider.Name {
	case "financego":
		src = provider.NewFinanceGoSource(log)
	default:
		creds := credentials.Chain{
			credentials.NewEnvProvider(),
			credentials.NewStaticProvider(map[string]string{provider.APIKeyCredential: cfg.Provider.APIKey}),
		}
		opts := []provider.YahooOption{
			provider.WithBaseURL(cfg.Provider.BaseURL),
			provider.WithRateLimit(cfg.Provider.RateLimit, cfg.Provider.Burst),
			provider.WithCredentials(creds, provider.APIKeyCredential, cfg.Provider.APIKeyHeader),
			provider.WithLogger(log),
		}
		if cfg.Provider.Proxy != "" {
			opts = append(opts, provider.WithProxy(cfg.Provider.Proxy))
		}
		if cfg.Provider.Crumb {
			opts = append(opts, provider.WithCrumb(""))
		}
		src = provider.NewYahooSource(opts...)
	}

	if cfg.Cache.TTL > 0 {
		src = provider.NewCachedSource(src, cfg.Cache.Size, cfg.Cache.TTL, log)
	}
	return src
}
