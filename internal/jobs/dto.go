package jobs

import (
	"net/url"
	"strconv"
	"strings"
)

// JobListResponse is the body of GET /jobs.
type JobListResponse struct {
	Jobs  []Job `json:"jobs"`
	Count int   `json:"count"`
}

// ApplicationListResponse is the body of GET /applications.
type ApplicationListResponse struct {
	Applications []ApplicationWithJob `json:"applications"`
}

// FilterParser turns query parameters into Filters.
type FilterParser func(url.Values) Filters

// RawFilters reads filter parameters verbatim without slug normalization.
func RawFilters(q url.Values) Filters {
	minSalary, _ := strconv.Atoi(strings.TrimSpace(q.Get("minSalary")))
	remote, _ := strconv.ParseBool(q.Get("remote"))
	return Filters{
		Location:   q.Get("location"),
		Industry:   q.Get("industry"),
		JobType:    q.Get("jobType"),
		MinSalary:  minSalary,
		Search:     q.Get("search"),
		RemoteOnly: remote,
	}
}
