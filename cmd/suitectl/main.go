package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"ecohotels-e2e/internal/browser"
	"ecohotels-e2e/internal/config"
	"ecohotels-e2e/internal/logging"
	"ecohotels-e2e/internal/models"
	"ecohotels-e2e/internal/storage"
	"ecohotels-e2e/internal/vault"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func main() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command needs, built once from config and global flags.
type env struct {
	cfg *config.Config
	log zerolog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	e := &env{cfg: cfg}

	app := &cli.App{
		Name:      "suitectl",
		Usage:     "Manage results, fixtures and test accounts of the ecohotels browser suite",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "Path to the results database", Value: cfg.ResultsDB},
			&cli.StringFlag{Name: "vault-key", Usage: "Passphrase sealing account passwords", Value: cfg.VaultKey},
		},
		Before: func(c *cli.Context) error {
			e.cfg.ResultsDB = c.String("db")
			e.cfg.VaultKey = c.String("vault-key")
			e.log = logging.NewLogger(cfg.AppEnv, cfg.LogLevel, stderr)
			log.Logger = e.log
			return nil
		},
		Commands: []*cli.Command{
			e.installCommand(),
			e.runsCommand(),
			e.failuresCommand(),
			e.fixturesCommand(),
			e.fixturesClearCommand(),
			e.accountSetCommand(),
			e.accountListCommand(),
			e.accountDeleteCommand(),
		},
	}

	return app.Run(append([]string{"suitectl"}, args...))
}

func (e *env) openDB() (*storage.DB, error) {
	db, err := storage.NewDB(e.cfg.ResultsDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func (e *env) installCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Download the playwright driver and the configured browser",
		Action: func(c *cli.Context) error {
			e.log.Info().Str("browser", e.cfg.Browser).Msg("installing playwright")
			if err := browser.Install(e.cfg.Browser); err != nil {
				return fmt.Errorf("install %s: %w", e.cfg.Browser, err)
			}
			fmt.Fprintf(c.App.Writer, "Installed %s\n", e.cfg.Browser)
			return nil
		},
	}
}

func (e *env) runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recent suite runs with their outcome counts",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "Number of runs to show", Value: 10},
		},
		Action: func(c *cli.Context) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(c.Int("limit"))
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(c.App.Writer, "No runs recorded")
				return nil
			}
			for _, r := range runs {
				summary, err := db.Summarize(r.ID)
				if err != nil {
					return fmt.Errorf("failed to summarize run %s: %w", r.ID, err)
				}
				state := "running"
				if r.FinishedAt != nil {
					state = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
				}
				fmt.Fprintf(c.App.Writer, "%s  %s  %-8s  pass=%d fail=%d skip=%d  %s\n",
					r.ID, r.StartedAt.Format(time.RFC3339), r.Browser,
					summary.Passed, summary.Failed, summary.Skipped, state)
			}
			return nil
		},
	}
}

func (e *env) failuresCommand() *cli.Command {
	return &cli.Command{
		Name:  "failures",
		Usage: "List failed scenarios of a run (the latest when --run is omitted)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "run", Usage: "Run ID"},
		},
		Action: func(c *cli.Context) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			runID := c.String("run")
			if runID == "" {
				latest, err := db.LatestRun()
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("no runs recorded")
				}
				if err != nil {
					return fmt.Errorf("failed to find latest run: %w", err)
				}
				runID = latest.ID
			} else if _, err := db.GetRun(runID); err != nil {
				return fmt.Errorf("run %s: %w", runID, err)
			}

			failures, err := db.ListFailures(runID)
			if err != nil {
				return fmt.Errorf("failed to list failures: %w", err)
			}
			if len(failures) == 0 {
				fmt.Fprintf(c.App.Writer, "Run %s has no failures\n", runID)
				return nil
			}
			for _, f := range failures {
				fmt.Fprintf(c.App.Writer, "%-6s %s/%s (%s)\n    %s\n",
					f.ScenarioID, f.Suite, f.Title, f.Duration.Round(time.Millisecond), f.Error)
			}
			return nil
		},
	}
}

func (e *env) fixturesCommand() *cli.Command {
	return &cli.Command{
		Name:  "fixtures",
		Usage: "List captured fixture URLs",
		Action: func(c *cli.Context) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			fixtures, err := db.ListFixtures()
			if err != nil {
				return fmt.Errorf("failed to list fixtures: %w", err)
			}
			for _, f := range fixtures {
				fmt.Fprintf(c.App.Writer, "%-16s %s  %s\n", f.Name, f.CapturedAt.Format(time.RFC3339), f.URL)
			}
			return nil
		},
	}
}

func (e *env) fixturesClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "fixtures-clear",
		Usage: "Forget captured URLs so the next run captures them again",
		Action: func(c *cli.Context) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.DeleteFixtures()
			if err != nil {
				return fmt.Errorf("failed to clear fixtures: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "Removed %d fixtures\n", n)
			return nil
		},
	}
}

func (e *env) accountSetCommand() *cli.Command {
	return &cli.Command{
		Name:  "account-set",
		Usage: "Store the email and sealed password of a test account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Usage: "Account role, e.g. private or corporate", Required: true},
			&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
			&cli.StringFlag{Name: "password", Usage: "Password (optional, will prompt if omitted)"},
		},
		Action: func(c *cli.Context) error {
			v, err := vault.New(e.cfg.VaultKey)
			if err != nil {
				return fmt.Errorf("ECOHOTELS_VAULT_KEY or --vault-key is required: %w", err)
			}

			password := c.String("password")
			if password == "" {
				fmt.Fprint(c.App.Writer, "Password: ")
				password, err = readPassword(c.App.Reader)
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				fmt.Fprintln(c.App.Writer)
			}
			if strings.TrimSpace(password) == "" {
				return fmt.Errorf("password cannot be empty")
			}

			sealed, err := v.Seal([]byte(password))
			if err != nil {
				return fmt.Errorf("failed to seal password: %w", err)
			}

			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			role := c.String("role")
			if err := db.PutAccount(&models.Account{Role: role, Email: c.String("email"), SealedPassword: sealed}); err != nil {
				return fmt.Errorf("failed to store account: %w", err)
			}
			e.log.Info().Str("role", role).Msg("account stored")
			fmt.Fprintf(c.App.Writer, "Account %s stored for %s\n", role, c.String("email"))
			return nil
		},
	}
}

func (e *env) accountListCommand() *cli.Command {
	return &cli.Command{
		Name:  "account-list",
		Usage: "List stored test accounts",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verify", Usage: "Check that each password opens with the vault key"},
		},
		Action: func(c *cli.Context) error {
			var v *vault.Vault
			if c.Bool("verify") {
				var err error
				if v, err = vault.New(e.cfg.VaultKey); err != nil {
					return fmt.Errorf("--verify needs a vault key: %w", err)
				}
			}

			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			accounts, err := db.ListAccounts()
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}
			for _, a := range accounts {
				line := fmt.Sprintf("%-13s %s  %s", a.Role, a.Email, a.UpdatedAt.Format(time.RFC3339))
				if v != nil {
					if _, err := v.Open(a.SealedPassword); err != nil {
						line += "  sealed with another key"
					} else {
						line += "  ok"
					}
				}
				fmt.Fprintln(c.App.Writer, line)
			}
			return nil
		},
	}
}

func (e *env) accountDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "account-delete",
		Usage: "Remove a stored test account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "role", Usage: "Account role", Required: true},
		},
		Action: func(c *cli.Context) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			role := c.String("role")
			if err := db.DeleteAccount(role); errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no account stored for %s", role)
			} else if err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "Account %s deleted\n", role)
			return nil
		},
	}
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Pipes and tests
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
