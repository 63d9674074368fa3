package result

import (
	"sort"

	"github.com/trezcool/alama/core"
)

// Group collects results into TestInstance groups keyed by (name, date).
// Each group's total is taken from its first-seen member; member rows keep
// input order. Groups are sorted by test date descending, ties keeping the
// order their keys first appeared in.
func Group(results []TestResult) []TestInstance {
	groups := make([]TestInstance, 0)
	seen := make(map[InstanceKey]int)

	for _, r := range results {
		key := InstanceKey{Name: r.Name, Date: r.Date}
		if i, ok := seen[key]; ok {
			groups[i].Results = append(groups[i].Results, r)
			continue
		}
		seen[key] = len(groups)
		groups = append(groups, TestInstance{
			Name:    r.Name,
			Date:    r.Date,
			Total:   r.Total,
			Results: []TestResult{r},
		})
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[j].Date.Before(groups[i].Date) })
	return groups
}

// FilterByStudent restricts results to those owned by the given student.
// An empty id means "all students" and returns results unchanged.
func FilterByStudent(results []TestResult, studentID string) []TestResult {
	if studentID == "" {
		return results
	}
	filtered := make([]TestResult, 0, len(results))
	for _, r := range results {
		if r.StudentID == studentID {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// UpcomingRetests selects rows whose retest date falls on or after today,
// sorted ascending by retest date. Past retests are excluded for good.
func UpcomingRetests(results []TestResult, today core.Date) []TestResult {
	upcoming := make([]TestResult, 0)
	for _, r := range results {
		if r.RetestDate.Valid && !r.RetestDate.Date.Before(today) {
			upcoming = append(upcoming, r)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].RetestDate.Date.Before(upcoming[j].RetestDate.Date)
	})
	return upcoming
}

// BuildOverview renders instance groups for display, resolving student names
// from namesByID. Member rows referencing an unknown student are skipped;
// group means still cover all member rows.
func BuildOverview(instances []TestInstance, namesByID map[string]string) []InstanceView {
	views := make([]InstanceView, 0, len(instances))
	for _, ti := range instances {
		view := InstanceView{
			Name:    ti.Name,
			Date:    ti.Date,
			Total:   ti.Total,
			Mean:    ti.Mean(),
			Results: make([]ResultView, 0, len(ti.Results)),
		}
		for _, r := range ti.Results {
			name, ok := namesByID[r.StudentID]
			if !ok { // owner deleted
				continue
			}
			rv := ResultView{
				TestResult:  r,
				StudentName: name,
				Percent:     r.Percent(),
			}
			if rv.Percent.Valid {
				rv.Band = BandOf(rv.Percent.Float64)
			}
			view.Results = append(view.Results, rv)
		}
		views = append(views, view)
	}
	return views
}
