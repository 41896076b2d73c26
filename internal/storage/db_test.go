package storage

import (
	"testing"
	"time"

	"ecohotels-e2e/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DBTestSuite provides a test suite for database operations
type DBTestSuite struct {
	suite.Suite
	db *DB
}

// SetupTest runs before each test
func (suite *DBTestSuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
}

// TearDownTest runs after each test
func (suite *DBTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *DBTestSuite) createRun(id string, startedAt time.Time) *models.Run {
	run := &models.Run{ID: id, StartedAt: startedAt, Browser: "webkit", BaseURL: "https://ecohotels.com/"}
	require.NoError(suite.T(), suite.db.CreateRun(run), "failed to create run %s", id)
	return run
}

func (suite *DBTestSuite) TestCreateRunRequiresID() {
	err := suite.db.CreateRun(&models.Run{Browser: "webkit"})
	assert.Error(suite.T(), err)
}

func (suite *DBTestSuite) TestCreateAndGetRun() {
	suite.createRun("run-1", time.Now())

	run, err := suite.db.GetRun("run-1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "webkit", run.Browser)
	assert.Equal(suite.T(), "https://ecohotels.com/", run.BaseURL)
	assert.Nil(suite.T(), run.FinishedAt, "new run should not be finished")
}

func (suite *DBTestSuite) TestGetRunNotFound() {
	_, err := suite.db.GetRun("missing")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DBTestSuite) TestFinishRun() {
	suite.createRun("run-1", time.Now())

	finished := time.Now().Add(time.Minute)
	require.NoError(suite.T(), suite.db.FinishRun("run-1", finished))

	run, err := suite.db.GetRun("run-1")
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), run.FinishedAt)
	assert.WithinDuration(suite.T(), finished, *run.FinishedAt, time.Second)

	assert.ErrorIs(suite.T(), suite.db.FinishRun("missing", finished), ErrNotFound)
}

func (suite *DBTestSuite) TestListRunsNewestFirst() {
	base := time.Now()
	suite.createRun("old", base.Add(-2*time.Hour))
	suite.createRun("mid", base.Add(-time.Hour))
	suite.createRun("new", base)

	runs, err := suite.db.ListRuns(2)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), runs, 2)
	assert.Equal(suite.T(), "new", runs[0].ID)
	assert.Equal(suite.T(), "mid", runs[1].ID)

	latest, err := suite.db.LatestRun()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "new", latest.ID)
}

func (suite *DBTestSuite) TestLatestRunEmpty() {
	_, err := suite.db.LatestRun()
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DBTestSuite) TestRecordAndListResults() {
	suite.createRun("run-1", time.Now())

	results := []models.Result{
		{ScenarioID: "SR-01", Suite: "SearchSuite", Title: "search page is displayed", Status: models.StatusPass, Duration: 1500 * time.Millisecond},
		{ScenarioID: "SR-02", Suite: "SearchSuite", Title: "sort by price", Status: models.StatusFail, Duration: 2 * time.Second, Error: "prices not ascending"},
		{ScenarioID: "LG-01", Suite: "LoginSuite", Title: "private login", Status: models.StatusSkip},
	}
	for i := range results {
		results[i].RunID = "run-1"
		require.NoError(suite.T(), suite.db.RecordResult(&results[i]))
		assert.NotZero(suite.T(), results[i].ID, "result id should be assigned")
	}

	all, err := suite.db.ListResults("run-1")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 3)
	assert.Equal(suite.T(), "SR-01", all[0].ScenarioID)
	assert.Equal(suite.T(), 1500*time.Millisecond, all[0].Duration)

	failures, err := suite.db.ListFailures("run-1")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), failures, 1)
	assert.Equal(suite.T(), "SR-02", failures[0].ScenarioID)
	assert.Equal(suite.T(), "prices not ascending", failures[0].Error)

	summary, err := suite.db.Summarize("run-1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.Summary{RunID: "run-1", Passed: 1, Failed: 1, Skipped: 1}, summary)
	assert.Equal(suite.T(), 3, summary.Total())
}

func (suite *DBTestSuite) TestSummarizeEmptyRun() {
	summary, err := suite.db.Summarize("nothing")
	require.NoError(suite.T(), err)
	assert.Zero(suite.T(), summary.Total())
}

func (suite *DBTestSuite) TestFixturesUpsert() {
	require.NoError(suite.T(), suite.db.PutFixture("search-results", "https://ecohotels.com/hotels/denmark/copenhagen/?a=1"))
	require.NoError(suite.T(), suite.db.PutFixture("search-results", "https://ecohotels.com/hotels/denmark/copenhagen/?a=2"))
	require.NoError(suite.T(), suite.db.PutFixture("hotel-detail", "https://ecohotels.com/hotels/x/"))

	f, err := suite.db.GetFixture("search-results")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "https://ecohotels.com/hotels/denmark/copenhagen/?a=2", f.URL)

	all, err := suite.db.ListFixtures()
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 2)
	assert.Equal(suite.T(), "hotel-detail", all[0].Name)

	n, err := suite.db.DeleteFixtures()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), n)

	_, err = suite.db.GetFixture("search-results")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *DBTestSuite) TestAccounts() {
	err := suite.db.PutAccount(&models.Account{Role: "private", Email: "a@example.com", SealedPassword: []byte{1, 2, 3}})
	require.NoError(suite.T(), err)
	err = suite.db.PutAccount(&models.Account{Role: "corporate", Email: "c@example.com", SealedPassword: []byte{4}})
	require.NoError(suite.T(), err)

	// Replace the private account
	err = suite.db.PutAccount(&models.Account{Role: "private", Email: "b@example.com", SealedPassword: []byte{9}})
	require.NoError(suite.T(), err)

	a, err := suite.db.GetAccount("private")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "b@example.com", a.Email)
	assert.Equal(suite.T(), []byte{9}, a.SealedPassword)

	all, err := suite.db.ListAccounts()
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 2)
	assert.Equal(suite.T(), "corporate", all[0].Role)

	require.NoError(suite.T(), suite.db.DeleteAccount("corporate"))
	assert.ErrorIs(suite.T(), suite.db.DeleteAccount("corporate"), ErrNotFound)

	_, err = suite.db.GetAccount("corporate")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

// TestDBSuite runs the database test suite
func TestDBSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}
