// Package detector turns successive snapshots of the lost report list into
// "new report" notifications.
package detector

import (
	"fmt"
	"slices"
	"time"

	"github.com/findora/findora/internal/model"
)

// Detector remembers the newest open report it has seen. It is not safe
// for concurrent use; the dashboard serializes access.
type Detector struct {
	lastSeen      int64
	seen          bool
	notifications []model.Notification

	now func() time.Time
}

// New returns a detector with no baseline.
func New() *Detector {
	return &Detector{now: time.Now}
}

// Observe inspects a freshly fetched report list in server order (newest
// first). The candidate is the first report that is not Selesai. A
// notification is created when the candidate differs from the last one
// seen; the first observation only sets the baseline. Completed reports
// are never candidates, so they never notify.
func (d *Detector) Observe(reports []model.LostReport) (model.Notification, bool) {
	i := slices.IndexFunc(reports, func(r model.LostReport) bool { return !r.Done() })
	if i < 0 {
		return model.Notification{}, false
	}
	candidate := reports[i]

	var (
		n        model.Notification
		notified bool
	)
	if d.seen && candidate.ID != d.lastSeen {
		n = model.Notification{
			ID:      candidate.ID,
			Message: Message(candidate),
			Date:    d.now(),
		}
		d.notifications = slices.Insert(d.notifications, 0, n)
		notified = true
	}

	d.lastSeen = candidate.ID
	d.seen = true
	return n, notified
}

// Message is the notification text for a report.
func Message(r model.LostReport) string {
	return fmt.Sprintf("Laporan baru dari %s (%s)", r.Name, r.Category)
}

// LastSeenID returns the baseline report ID, and false before the first
// observation that had a candidate.
func (d *Detector) LastSeenID() (int64, bool) {
	return d.lastSeen, d.seen
}

// Notifications returns a copy of the feed, newest first.
func (d *Detector) Notifications() []model.Notification {
	return slices.Clone(d.notifications)
}

// Unread counts unread notifications.
func (d *Detector) Unread() int {
	n := 0
	for _, x := range d.notifications {
		if !x.Read {
			n++
		}
	}
	return n
}

// MarkRead marks every notification for report id as read. It reports
// whether any entry matched.
func (d *Detector) MarkRead(id int64) bool {
	found := false
	for i := range d.notifications {
		if d.notifications[i].ID == id {
			d.notifications[i].Read = true
			found = true
		}
	}
	return found
}

// MarkAllRead marks the whole feed as read.
func (d *Detector) MarkAllRead() {
	for i := range d.notifications {
		d.notifications[i].Read = true
	}
}
