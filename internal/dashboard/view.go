package dashboard

import (
	"slices"

	"github.com/findora/findora/internal/listing"
	"github.com/findora/findora/internal/model"
)

// View is a snapshot of the dashboard for rendering. It shares no memory
// with the controller.
type View struct {
	Query         listing.Query
	Items         listing.Result
	Summary       listing.Summary
	Reports       []model.LostReport
	Notifications []model.Notification
	Unread        int
	ItemsLoaded   bool
	ReportsLoaded bool
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Query:         c.query,
		Items:         listing.Apply(c.items, c.query),
		Summary:       listing.Summarize(c.items),
		Reports:       slices.Clone(c.reports),
		Notifications: c.detector.Notifications(),
		Unread:        c.detector.Unread(),
		ItemsLoaded:   c.itemsLoaded,
		ReportsLoaded: c.reportsLoaded,
	}
}

// FoundItems returns a copy of the whole collection in server order.
func (c *Controller) FoundItems() []model.FoundItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// FoundItem returns the local record with the given ID.
func (c *Controller) FoundItem(id int64) (model.FoundItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := model.FindFoundItem(c.items, id); i >= 0 {
		return c.items[i], true
	}
	return model.FoundItem{}, false
}

// LostReport returns the local report with the given ID.
func (c *Controller) LostReport(id int64) (model.LostReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := model.FindLostReport(c.reports, id); i >= 0 {
		return c.reports[i], true
	}
	return model.LostReport{}, false
}

// MarkNotificationRead marks the notifications for report id as read.
func (c *Controller) MarkNotificationRead(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detector.MarkRead(id)
}

// MarkAllNotificationsRead clears the unread count.
func (c *Controller) MarkAllNotificationsRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detector.MarkAllRead()
}
