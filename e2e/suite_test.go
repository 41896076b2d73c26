//go:build e2e

package e2e

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ecohotels-e2e/internal/metrics"
	"ecohotels-e2e/internal/models"
	"ecohotels-e2e/internal/storage"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// liveSuite is embedded by every scenario suite. Each test gets its own page in a
// fresh browser context, and its outcome is recorded when the test ends.
type liveSuite struct {
	suite.Suite
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
	started time.Time
	lastErr string
}

// SetupTest runs before each test
func (suite *liveSuite) SetupTest() {
	page, err := live.session.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page
	suite.expect = playwright.NewPlaywrightAssertions(float64(live.cfg.Timeout.Milliseconds()))
	suite.started = time.Now()
	suite.lastErr = ""
}

// TearDownTest runs after each test
func (suite *liveSuite) TearDownTest() {
	live.session.ClosePage(suite.page)
	suite.page = nil
	suite.record()
}

func (suite *liveSuite) record() {
	t := suite.T()
	status := models.StatusPass
	switch {
	case t.Skipped():
		status = models.StatusSkip
	case t.Failed():
		status = models.StatusFail
	}

	suiteName, title := splitTestName(t.Name())
	res := &models.Result{
		RunID:      live.run.ID,
		ScenarioID: models.ParseScenarioID(t.Name()),
		Suite:      suiteName,
		Title:      title,
		Status:     status,
		Duration:   time.Since(suite.started),
		Error:      suite.lastErr,
	}
	if err := live.db.RecordResult(res); err != nil {
		live.log.Warn().Err(err).Str("test", t.Name()).Msg("could not record result")
	}
	metrics.ObserveScenario(suiteName, string(status), res.Duration)

	live.log.Info().
		Str("scenario", res.ScenarioID).
		Str("status", string(status)).
		Dur("duration", res.Duration).
		Msg(title)
}

// splitTestName turns "TestSearchSuite/TestSR02_SortByPrice" into
// ("SearchSuite", "SortByPrice").
func splitTestName(name string) (suiteName, title string) {
	parent, method, _ := strings.Cut(name, "/")
	suiteName = strings.TrimPrefix(parent, "Test")
	title = method
	if _, rest, ok := strings.Cut(method, "_"); ok {
		title = rest
	}
	return suiteName, title
}

// ok fails the test when err is non-nil and keeps the message for the run record.
func (suite *liveSuite) ok(err error, msg string, args ...any) {
	if err != nil {
		suite.lastErr = fmt.Sprintf(msg, args...) + ": " + err.Error()
	}
	require.NoError(suite.T(), err, append([]any{msg}, args...)...)
}

// check records a failed assertion without stopping the test.
func (suite *liveSuite) check(cond bool, msg string, args ...any) bool {
	if !cond {
		suite.lastErr = fmt.Sprintf(msg, args...)
		suite.T().Errorf(msg, args...)
	}
	return cond
}

// gotoURL opens rawURL and fails the test if navigation does.
func (suite *liveSuite) gotoURL(rawURL string) {
	_, err := suite.page.Goto(rawURL)
	suite.ok(err, "could not open %s", rawURL)
}

// credentials returns the account for role, skipping the test when no password
// is available.
func (suite *liveSuite) credentials(role string) (email, password string) {
	email, password, err := live.credentials(role)
	suite.ok(err, "could not load %s credentials", role)
	if email == "" || password == "" {
		suite.T().Skipf("no %s account configured: run suitectl account-set or set ECOHOTELS_PASSWORD_%s",
			role, strings.ToUpper(role))
	}
	return email, password
}

// fixtureURL returns the URL captured under name today, capturing it on a
// separate page when there is none.
func (suite *liveSuite) fixtureURL(name string, capture func(page playwright.Page) (string, error)) string {
	f, err := live.db.GetFixture(name)
	switch {
	case err == nil && sameDay(f.CapturedAt, time.Now()):
		return f.URL
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		suite.ok(err, "could not read fixture %s", name)
	}

	page, err := live.session.NewPage()
	suite.ok(err, "could not create capture page")
	defer live.session.ClosePage(page)

	url, err := capture(page)
	suite.ok(err, "could not capture %s", name)
	suite.ok(live.db.PutFixture(name, url), "could not store fixture %s", name)
	live.log.Info().Str("fixture", name).Str("url", url).Msg("captured")
	return url
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
