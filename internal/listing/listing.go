// Package listing filters, sorts and paginates found items for display.
// Every function is pure: inputs are never modified.
package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/findora/findora/internal/model"
)

// All matches every category or status.
const All = "all"

// PageSize is the number of rows per page.
const PageSize = 5

// SortKey selects the ordering applied after filtering.
type SortKey string

// Sort keys. SortNone keeps the server order.
const (
	SortNone     SortKey = ""
	SortDateDesc SortKey = "date_desc"
	SortDateAsc  SortKey = "date_asc"
	SortNameAsc  SortKey = "name_asc"
	SortNameDesc SortKey = "name_desc"
)

// SortKeys lists the accepted keys.
var SortKeys = []SortKey{SortNone, SortDateDesc, SortDateAsc, SortNameAsc, SortNameDesc}

// ParseSortKey validates s. "none" is accepted as an alias for SortNone.
func ParseSortKey(s string) (SortKey, bool) {
	if s == "none" {
		return SortNone, true
	}
	k := SortKey(s)
	return k, slices.Contains(SortKeys, k)
}

// Criteria is the filter part of a query. Empty Category or Status is
// treated like All.
type Criteria struct {
	Search   string
	Category string
	Status   string
}

// Match reports whether item passes every predicate.
func (c Criteria) Match(item model.FoundItem) bool {
	if c.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(c.Search)) {
		return false
	}
	if c.Category != "" && c.Category != All && item.Category != c.Category {
		return false
	}
	if c.Status != "" && c.Status != All && item.Status != c.Status {
		return false
	}
	return true
}

// Filter returns the items matching c, in input order.
func Filter(items []model.FoundItem, c Criteria) []model.FoundItem {
	out := make([]model.FoundItem, 0, len(items))
	for _, it := range items {
		if c.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Sort returns a sorted copy of items. The sort is stable, so equal keys
// keep their input order. Names compare with Indonesian collation.
func Sort(items []model.FoundItem, key SortKey) []model.FoundItem {
	out := slices.Clone(items)
	if out == nil {
		out = []model.FoundItem{}
	}

	switch key {
	case SortDateDesc:
		slices.SortStableFunc(out, func(a, b model.FoundItem) int {
			return b.FoundDate.Compare(a.FoundDate.Time)
		})
	case SortDateAsc:
		slices.SortStableFunc(out, func(a, b model.FoundItem) int {
			return a.FoundDate.Compare(b.FoundDate.Time)
		})
	case SortNameAsc, SortNameDesc:
		// collate.Collator is not safe for concurrent use.
		col := collate.New(language.Indonesian, collate.IgnoreCase)
		desc := key == SortNameDesc
		slices.SortStableFunc(out, func(a, b model.FoundItem) int {
			c := col.CompareString(a.Name, b.Name)
			if desc {
				return -c
			}
			return c
		})
	}
	return out
}

// PageCount returns ceil(n / PageSize).
func PageCount(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Page returns the rows of page p (1-based). ok is false when p is outside
// [1, PageCount(len(items))].
func Page(items []model.FoundItem, p int) (rows []model.FoundItem, ok bool) {
	if p < 1 || p > PageCount(len(items)) {
		return nil, false
	}
	start := (p - 1) * PageSize
	end := min(start+PageSize, len(items))
	return slices.Clone(items[start:end]), true
}

// Query is the full listing state chosen by the admin.
type Query struct {
	Criteria
	Sort SortKey
	Page int
}

// Result is one rendered page.
type Result struct {
	Rows      []model.FoundItem
	Matched   int
	Page      int
	PageCount int
}

// Apply filters, sorts and paginates items. An out-of-range page is clamped
// into [1, PageCount]; with no matches Page is 1 and Rows is empty.
func Apply(items []model.FoundItem, q Query) Result {
	sorted := Sort(Filter(items, q.Criteria), q.Sort)
	count := PageCount(len(sorted))

	page := min(max(q.Page, 1), max(count, 1))
	rows, ok := Page(sorted, page)
	if !ok {
		rows = []model.FoundItem{}
	}

	return Result{Rows: rows, Matched: len(sorted), Page: page, PageCount: count}
}

// Summary holds the dashboard counters.
type Summary struct {
	Total    int
	Lost     int
	Found    int
	Verified int
}

// Summarize counts items by status. Found includes returned items.
func Summarize(items []model.FoundItem) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case model.ItemStatusLost:
			s.Lost++
		case model.ItemStatusFound, model.ItemStatusReturned:
			s.Found++
		}
		if it.Verified {
			s.Verified++
		}
	}
	return s
}
