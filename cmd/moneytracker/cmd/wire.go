package cmd

import (
	"context"
	"fmt"
	"time"

	"moneytracker/internal/backend"
	"moneytracker/internal/cache"
	"moneytracker/internal/cli"
	"moneytracker/internal/config"
	"moneytracker/internal/core"
	applog "moneytracker/internal/log"
	"moneytracker/internal/middleware/trace"
	"moneytracker/internal/rates"
	"moneytracker/internal/seed"
	"moneytracker/internal/services"
	"moneytracker/internal/sheets"
	gsheet "moneytracker/internal/sheets/google"
)

// stack is everything a command needs, built from configuration.
type stack struct {
	cfg      *config.Config
	logger   *applog.Logger
	backend  *backend.Result
	closeLog func() error

	rateTraffic *trace.Transport

	accounts     *services.AccountService
	categories   *services.CategoryService
	currencies   *services.CurrencyService
	transactions *services.TransactionService
}

func setup(ctx context.Context) (*stack, error) {
	if err := cli.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	cfg, err := cli.LoadAndValidateConfig(func(c *config.Config) {
		if backendType != "" {
			c.DataBackend = backendType
		}
	})
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := cli.SetupLogger(cli.LoggerOptions{Level: cfg.LogLevel, File: cfg.LogFile, Debug: debug})
	if err != nil {
		return nil, err
	}
	s := &stack{cfg: cfg, logger: logger, closeLog: closeLog}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.backend, err = backend.NewFactory(logger.WithComponent(applog.ComponentBackend)).CreateBackend(ctx, bcfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	store := s.backend.Store
	s.accounts = services.NewAccountService(store, s.backend.Publisher)
	s.categories = services.NewCategoryService(store)
	s.rateTraffic = trace.NewTransport(nil, applog.ComponentRates)
	s.currencies = services.NewCurrencyService(store,
		rates.NewClient(cfg.Rates.APIURL, cfg.Rates.Base, s.rateTraffic.Client()),
		rateCache(cfg.Rates.CacheTTL))
	s.transactions = services.NewTransactionService(store, s.currencies, s.backend.Publisher)

	f, err := seed.Load(cfg.SeedFile)
	if err != nil {
		s.Close()
		return nil, err
	}
	svc := seed.Services{Accounts: s.accounts, Categories: s.categories, Currencies: s.currencies}
	if err := seed.Apply(ctx, svc, f, time.Now()); err != nil {
		s.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}

	logger.InfoContext(ctx, "Started",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, cfg.DataBackend,
		"events", s.backend.Publisher != nil)
	return s, nil
}

// rateCache keeps the last fetched table for ttl; zero disables it.
func rateCache(ttl time.Duration) cache.Cache[[]core.Currency] {
	if ttl <= 0 {
		return nil
	}
	return cache.NewLRUCache[[]core.Currency](1, ttl)
}

// exporter returns the spreadsheet exporter, or nil when none is configured.
func (s *stack) exporter(ctx context.Context) (sheets.Exporter, error) {
	if !s.cfg.ExportEnabled() {
		return nil, nil
	}
	c, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      s.cfg.Sheets.SpreadsheetID,
		SheetName:          s.cfg.Sheets.SheetName,
		ServiceAccountFile: s.cfg.Sheets.ServiceAccountFile,
		ServiceAccountJSON: s.cfg.Sheets.ServiceAccountJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}
	return c, nil
}

func (s *stack) Close() {
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("Shutdown failed", applog.FieldOperation, applog.OpShutdown, applog.FieldError, err)
		}
	}
	if s.closeLog != nil {
		_ = s.closeLog()
	}
}
