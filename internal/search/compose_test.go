package search

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshhire-backend/internal/jobs"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		sel   Selection
		want  jobs.Filters
	}{
		{name: "empty", want: jobs.Filters{}},
		{
			name:  "query trimmed",
			query: "  frontend  ",
			want:  jobs.Filters{Search: "frontend"},
		},
		{
			name: "known location slug",
			sel:  Selection{Location: "bangalore"},
			want: jobs.Filters{Location: "Bangalore"},
		},
		{
			name: "mixed case stored location untouched",
			sel:  Selection{Location: "New York, NY"},
			want: jobs.Filters{Location: "New York, NY"},
		},
		{
			name: "acronym location untouched",
			sel:  Selection{Location: "USA"},
			want: jobs.Filters{Location: "USA"},
		},
		{
			name: "unknown single word slug untouched",
			sel:  Selection{Location: "chennai"},
			want: jobs.Filters{Location: "chennai"},
		},
		{
			name: "unknown hyphenated slug title cased",
			sel:  Selection{Location: "navi-mumbai"},
			want: jobs.Filters{Location: "Navi Mumbai"},
		},
		{
			name: "hyphenated location",
			sel:  Selection{Location: "new-delhi"},
			want: jobs.Filters{Location: "New Delhi"},
		},
		{
			name: "all sentinels dropped",
			sel:  Selection{Location: "all", JobType: "all", Industry: "all"},
			want: jobs.Filters{},
		},
		{
			name: "job type slugs",
			sel:  Selection{JobType: "fulltime"},
			want: jobs.Filters{JobType: jobs.TypeFullTime},
		},
		{
			name: "part time",
			sel:  Selection{JobType: "parttime"},
			want: jobs.Filters{JobType: jobs.TypePartTime},
		},
		{
			name: "already hyphenated",
			sel:  Selection{JobType: "Part-Time"},
			want: jobs.Filters{JobType: jobs.TypePartTime},
		},
		{
			name: "remote work tag",
			sel:  Selection{Tags: []string{"Urgent Hiring", "remote work"}},
			want: jobs.Filters{RemoteOnly: true},
		},
		{
			name: "industry and salary passed through",
			sel:  Selection{Industry: "technology", MinSalary: 30000},
			want: jobs.Filters{Industry: "technology", MinSalary: 30000},
		},
		{
			name: "negative salary ignored",
			sel:  Selection{MinSalary: -5},
			want: jobs.Filters{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Compose(tt.query, tt.sel))
		})
	}
}

func TestFromQuery(t *testing.T) {
	q := url.Values{}
	q.Set("q", "react")
	q.Set("location", "remote")
	q.Set("type", "internship")
	q.Set("minSalary", "20000")
	q.Add("tags", "Remote Work,Entry Level")

	assert.Equal(t, jobs.Filters{
		Search:     "react",
		Location:   "Remote",
		JobType:    jobs.TypeInternship,
		MinSalary:  20000,
		RemoteOnly: true,
	}, FromQuery(q))
}

func TestFromQueryAliases(t *testing.T) {
	q := url.Values{}
	q.Set("search", "go")
	q.Set("jobType", "contract")
	q.Set("remote", "true")
	q.Set("minSalary", "abc")

	assert.Equal(t, jobs.Filters{Search: "go", JobType: jobs.TypeContract, RemoteOnly: true}, FromQuery(q))
}

func TestComposedFiltersMatchStoredValues(t *testing.T) {
	job := jobs.Job{Title: "Frontend Developer", Company: "Acme", Location: "Bangalore", Type: jobs.TypeFullTime}

	f := Compose("FRONTEND", Selection{Location: "bangalore", JobType: "fulltime"})
	assert.True(t, f.Matches(job))

	f = Compose("", Selection{Location: "mumbai"})
	assert.False(t, f.Matches(job))
}

func TestFromQueryFindsStoredLocations(t *testing.T) {
	repo := jobs.NewMemoryRepo()
	ctx := context.Background()
	for i, loc := range []string{"New York, NY", "USA", "Bangalore"} {
		require.NoError(t, repo.UpsertJob(ctx, jobs.Job{
			ID:       fmt.Sprintf("job-%d", i),
			Title:    "Engineer",
			Company:  "Acme",
			Location: loc,
			Type:     jobs.TypeFullTime,
		}))
	}

	for _, tc := range []struct {
		param string
		want  string
	}{
		{param: "New York, NY", want: "New York, NY"},
		{param: "USA", want: "USA"},
		{param: "bangalore", want: "Bangalore"},
	} {
		got, err := repo.ListJobs(ctx, FromQuery(url.Values{"location": {tc.param}}))
		require.NoError(t, err)
		require.Len(t, got, 1, tc.param)
		assert.Equal(t, tc.want, got[0].Location)
	}
}
