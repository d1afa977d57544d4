// Package search maps the hero search box and the filter panel selections
// onto job listing filters.
package search

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"freshhire-backend/internal/jobs"
)

// TagRemoteWork is the quick filter that restricts results to remote jobs.
const TagRemoteWork = "Remote Work"

// Selection is the filter panel state.
type Selection struct {
	Location  string
	Industry  string
	JobType   string
	MinSalary int
	Tags      []string
}

var locationSlugs = map[string]string{
	"bangalore": "Bangalore",
	"mumbai":    "Mumbai",
	"delhi":     "Delhi",
	"new-delhi": "New Delhi",
	"hyderabad": "Hyderabad",
	"pune":      "Pune",
	"remote":    "Remote",
}

var jobTypeSlugs = map[string]string{
	"fulltime":   jobs.TypeFullTime,
	"full-time":  jobs.TypeFullTime,
	"parttime":   jobs.TypePartTime,
	"part-time":  jobs.TypePartTime,
	"internship": jobs.TypeInternship,
	"contract":   jobs.TypeContract,
}

// Compose builds the listing filters for a query and a panel selection.
func Compose(query string, sel Selection) jobs.Filters {
	f := jobs.Filters{
		Search:    strings.TrimSpace(query),
		Location:  normalizeLocation(sel.Location),
		Industry:  passThrough(sel.Industry),
		JobType:   normalizeJobType(sel.JobType),
		MinSalary: sel.MinSalary,
	}
	if f.MinSalary < 0 {
		f.MinSalary = 0
	}
	for _, tag := range sel.Tags {
		if strings.EqualFold(strings.TrimSpace(tag), TagRemoteWork) {
			f.RemoteOnly = true
		}
	}
	return f
}

// FromQuery parses listing query parameters into filters.
func FromQuery(q url.Values) jobs.Filters {
	query := q.Get("q")
	if query == "" {
		query = q.Get("search")
	}
	jobType := q.Get("type")
	if jobType == "" {
		jobType = q.Get("jobType")
	}
	minSalary, _ := strconv.Atoi(strings.TrimSpace(q.Get("minSalary")))

	var tags []string
	for _, raw := range q["tags"] {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	f := Compose(query, Selection{
		Location:  q.Get("location"),
		Industry:  q.Get("industry"),
		JobType:   jobType,
		MinSalary: minSalary,
		Tags:      tags,
	})
	if remote, err := strconv.ParseBool(q.Get("remote")); err == nil && remote {
		f.RemoteOnly = true
	}
	return f
}

func passThrough(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, jobs.FilterAll) {
		return ""
	}
	return v
}

// normalizeLocation maps filter panel slugs to stored locations. Hyphenated
// lowercase slugs are title cased word by word; anything else is already a
// stored value and passes through untouched.
func normalizeLocation(v string) string {
	v = passThrough(v)
	if v == "" {
		return ""
	}
	if loc, ok := locationSlugs[strings.ToLower(v)]; ok {
		return loc
	}
	if !isSlug(v) {
		return v
	}
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(v, "-", " "))
}

func isSlug(v string) bool {
	if !strings.Contains(v, "-") {
		return false
	}
	for _, r := range v {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	return true
}

func normalizeJobType(slug string) string {
	slug = passThrough(slug)
	if slug == "" {
		return ""
	}
	if v, ok := jobTypeSlugs[strings.ToLower(slug)]; ok {
		return v
	}
	return strings.ToLower(slug)
}
