package models

import (
	"regexp"
	"time"
)

// Status is the outcome of a single scenario.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Run represents one invocation of the browser suite.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Browser    string     `json:"browser"`
	BaseURL    string     `json:"base_url"`
}

// Result represents the outcome of one scenario within a run.
type Result struct {
	ID         int64         `json:"id"`
	RunID      string        `json:"run_id"`
	ScenarioID string        `json:"scenario_id"`
	Suite      string        `json:"suite"`
	Title      string        `json:"title"`
	Status     Status        `json:"status"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Summary holds outcome counts for a run.
type Summary struct {
	RunID   string `json:"run_id"`
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}

// Total returns the number of recorded scenarios.
func (s Summary) Total() int {
	return s.Passed + s.Failed + s.Skipped
}

// Fixture is a URL captured by one scenario and reused by later ones.
type Fixture struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	CapturedAt time.Time `json:"captured_at"`
}

// Account is a test account on the site under test. The password is stored sealed.
type Account struct {
	Role           string    `json:"role"`
	Email          string    `json:"email"`
	SealedPassword []byte    `json:"-"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var scenarioPattern = regexp.MustCompile(`Test([A-Z]{2})(\d{2})`)

// ParseScenarioID extracts a scenario ID such as "SR-02" from a Go test name like
// "TestSearchSuite/TestSR02_SortByPriceLowestFirst". It returns "" when none is present.
func ParseScenarioID(testName string) string {
	m := scenarioPattern.FindAllStringSubmatch(testName, -1)
	if len(m) == 0 {
		return ""
	}
	last := m[len(m)-1]
	return last[1] + "-" + last[2]
}
