//go:build e2e

package e2e

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"ecohotels-e2e/internal/browser"
	"ecohotels-e2e/internal/config"
	"ecohotels-e2e/internal/logging"
	"ecohotels-e2e/internal/metrics"
	"ecohotels-e2e/internal/models"
	"ecohotels-e2e/internal/pages"
	"ecohotels-e2e/internal/storage"
	"ecohotels-e2e/internal/vault"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// env is what every suite shares for one run.
type env struct {
	cfg       *config.Config
	scenarios *config.Scenarios
	site      *pages.Site
	session   *browser.Session
	db        *storage.DB
	vault     *vault.Vault
	run       *models.Run
	log       zerolog.Logger
}

var (
	live *env
	reg  *prometheus.Registry
)

func TestMain(m *testing.M) {
	os.Exit(runTestMain(m))
}

func runTestMain(m *testing.M) int {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load("../.env")

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger := logging.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stderr)
	log.Logger = logger

	scenarios, err := config.LoadScenarios(cfg.ScenariosPath)
	if err != nil {
		logger.Error().Err(err).Msg("could not load scenarios")
		return 1
	}

	site, err := pages.NewSite(cfg.BaseURL, cfg.Timeout, logger)
	if err != nil {
		logger.Error().Err(err).Msg("invalid base url")
		return 1
	}
	reg = metrics.InitRegistry()
	site.OnDismiss(metrics.ObserveOverlay)

	db, err := storage.NewDB(cfg.ResultsDB)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.ResultsDB).Msg("could not open results database")
		return 1
	}
	defer db.Close()

	var box *vault.Vault
	if cfg.VaultKey != "" {
		if box, err = vault.New(cfg.VaultKey); err != nil {
			logger.Error().Err(err).Msg("could not open vault")
			return 1
		}
	}

	run := &models.Run{ID: uuid.NewString(), Browser: cfg.Browser, BaseURL: cfg.BaseURL}
	if err := db.CreateRun(run); err != nil {
		logger.Error().Err(err).Msg("could not record run")
		return 1
	}
	logger = logger.With().Str("run", run.ID).Logger()

	session, err := browser.Launch(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("could not launch browser")
		return 1
	}

	live = &env{
		cfg:       cfg,
		scenarios: scenarios,
		site:      site,
		session:   session,
		db:        db,
		vault:     box,
		run:       run,
		log:       logger,
	}

	code := m.Run()

	if err := session.Close(); err != nil {
		logger.Warn().Err(err).Msg("could not stop browser")
	}
	if err := db.FinishRun(run.ID, time.Now()); err != nil {
		logger.Warn().Err(err).Msg("could not finish run")
	}
	if summary, err := db.Summarize(run.ID); err == nil {
		logger.Info().
			Int("passed", summary.Passed).
			Int("failed", summary.Failed).
			Int("skipped", summary.Skipped).
			Msg("run finished")
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			logger.Warn().Err(err).Msg("could not write metrics")
		}
	}

	return code
}

// credentials returns the email and password for role. The sealed account store
// wins when a vault key is configured, otherwise the scenario email is paired with
// ECOHOTELS_PASSWORD_<ROLE>. An empty password means none is available.
func (e *env) credentials(role string) (email, password string, err error) {
	if e.vault != nil {
		acct, err := e.db.GetAccount(role)
		switch {
		case err == nil:
			pw, err := e.vault.Open(acct.SealedPassword)
			if err != nil {
				return "", "", fmt.Errorf("unseal %s password: %w", role, err)
			}
			return acct.Email, string(pw), nil
		case !errors.Is(err, storage.ErrNotFound):
			return "", "", err
		}
	}
	email, _ = e.scenarios.Email(role)
	return email, os.Getenv("ECOHOTELS_PASSWORD_" + strings.ToUpper(role)), nil
}
