package connector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/jobscout/internal/config"
	"github.com/sells-group/jobscout/internal/model"
	"github.com/sells-group/jobscout/pkg/greenhouse"
)

var testRole = config.RoleConfig{Keyword: "Data Scientist", KeywordLocal: "מדען נתונים"}

func testBoardConfig() config.BoardConfig {
	return config.BoardConfig{
		Name:        "riskified",
		Board:       "riskified",
		Company:     "Riskified",
		SourceLabel: "Riskified Careers",
		OutputPath:  "riskified_ds_jobs.csv",
	}
}

func TestGreenhouseDiscover(t *testing.T) {
	client := &mockGreenhouseClient{}
	client.On("ListJobs", mock.Anything, "riskified").Return(&greenhouse.JobList{
		Jobs: []greenhouse.Job{
			{
				ID:          4400001,
				Title:       "Senior Data Scientist",
				Location:    greenhouse.Location{Name: "Tel Aviv, Israel"},
				AbsoluteURL: "https://www.riskified.com/careers/4400001",
				Content:     "&lt;h2&gt;About the Role&lt;/h2&gt;&lt;p&gt;Fight fraud with models.&lt;/p&gt;&lt;h2&gt;Requirements&lt;/h2&gt;&lt;p&gt;5+ years with Python.&lt;/p&gt;",
				CreatedAt:   "2026-01-15T08:00:00Z",
				UpdatedAt:   "2026-02-20T08:00:00Z",
			},
			{
				ID:       4400002,
				Title:    "Backend Engineer",
				Location: greenhouse.Location{Name: "Tel Aviv, Israel"},
			},
			{
				ID:       4400003,
				Title:    "Data Scientist",
				Location: greenhouse.Location{Name: "New York, NY"},
			},
		},
	}, nil)

	conn := NewGreenhouse(testBoardConfig(), testRole, client)
	conn.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

	postings, sum, err := conn.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 1, sum.Kept)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, "4400001", p.ID)
	assert.Equal(t, "Senior Data Scientist", p.Title)
	assert.Equal(t, "Riskified", p.Company)
	assert.Equal(t, "Tel Aviv, Israel", p.Location)
	assert.Equal(t, "Riskified Careers", p.SourceName)
	assert.Equal(t, model.StatusActive, p.Status)
	assert.Equal(t, time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC), p.DatePosted,
		"updated_at preferred over created_at")
	assert.Equal(t, "Fight fraud with models.", p.Overview)
	assert.Equal(t, "5+ years with Python.", p.Qualifications)

	require.NotNil(t, p.YearsRequired)
	assert.Equal(t, 5.0, *p.YearsRequired)
	assert.Equal(t, model.SenioritySenior, p.Seniority)
	assert.Equal(t, "Tel Aviv", p.CityHint)
}

func TestGreenhouseDiscover_CreatedAtFallback(t *testing.T) {
	client := &mockGreenhouseClient{}
	client.On("ListJobs", mock.Anything, "riskified").Return(&greenhouse.JobList{
		Jobs: []greenhouse.Job{
			{
				ID:        1,
				Title:     "Data Scientist",
				Location:  greenhouse.Location{Name: "Haifa, Israel"},
				CreatedAt: "2026-01-01T00:00:00Z",
			},
		},
	}, nil)

	conn := NewGreenhouse(testBoardConfig(), testRole, client)
	postings, _, err := conn.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), postings[0].DatePosted)
}

func TestGreenhouseDiscover_ListingFailureAborts(t *testing.T) {
	client := &mockGreenhouseClient{}
	client.On("ListJobs", mock.Anything, "riskified").Return(nil, assert.AnError)

	conn := NewGreenhouse(testBoardConfig(), testRole, client)
	postings, _, err := conn.Discover(context.Background())
	require.Error(t, err)
	assert.Nil(t, postings)
}

func TestGreenhouseConnector_Schema(t *testing.T) {
	conn := NewGreenhouse(testBoardConfig(), testRole, &mockGreenhouseClient{})

	assert.Equal(t, "riskified", conn.Name())
	assert.Equal(t, "riskified_ds_jobs.csv", conn.OutputPath())
	assert.Equal(t, model.ColID, conn.KeyColumn())
	assert.Contains(t, conn.Columns(), model.ColGeneral)
	assert.NotContains(t, conn.Columns(), model.ColIsOpen)
	assert.Equal(t, "987", conn.Key()("987"), "board keys pass through unchanged")
}
