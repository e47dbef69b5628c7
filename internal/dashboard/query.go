package dashboard

import (
	"fmt"
	"slices"

	"github.com/findora/findora/internal/listing"
	"github.com/findora/findora/internal/model"
)

// SetSearch changes the name search and returns to page 1.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Search = term
	c.query.Page = 1
}

// SetCategory filters by category ("all" or "" for every category) and
// returns to page 1.
func (c *Controller) SetCategory(category string) error {
	if category != "" && category != listing.All && !model.ValidCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Category = category
	c.query.Page = 1
	return nil
}

// SetStatus filters by item status and returns to page 1.
func (c *Controller) SetStatus(status string) error {
	if status != "" && status != listing.All && !slices.Contains(model.ItemStatuses, status) {
		return fmt.Errorf("unknown status %q", status)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Status = status
	c.query.Page = 1
	return nil
}

// SetSort changes the ordering and returns to page 1.
func (c *Controller) SetSort(key listing.SortKey) error {
	if !slices.Contains(listing.SortKeys, key) {
		return fmt.Errorf("unknown sort key %q", key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Sort = key
	c.query.Page = 1
	return nil
}

// GoToPage moves to page p. It does nothing and returns false when p is
// outside [1, PageCount].
func (c *Controller) GoToPage(p int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := listing.PageCount(len(listing.Filter(c.items, c.query.Criteria)))
	if p < 1 || p > count {
		return false
	}
	c.query.Page = p
	return true
}

// NextPage moves forward one page if there is one.
func (c *Controller) NextPage() bool {
	return c.GoToPage(c.currentPage() + 1)
}

// PrevPage moves back one page if there is one.
func (c *Controller) PrevPage() bool {
	return c.GoToPage(c.currentPage() - 1)
}

func (c *Controller) currentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Page
}
