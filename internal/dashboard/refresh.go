package dashboard

import (
	"context"

	"github.com/findora/findora/internal/listing"
	"github.com/findora/findora/internal/model"
)

// RefreshFoundItems re-fetches the found items. On failure the last good
// collection is kept and an error notice is posted.
func (c *Controller) RefreshFoundItems(ctx context.Context) error {
	_, err := c.refreshFoundItems(ctx)
	return err
}

// refreshFoundItems reports whether the fetched list was applied. A
// response overtaken by a newer local change is dropped without error.
func (c *Controller) refreshFoundItems(ctx context.Context) (bool, error) {
	c.mu.Lock()
	c.itemsSeq++
	seq := c.itemsSeq
	c.mu.Unlock()

	items, err := c.gw.ListFoundItems(ctx)
	if err != nil {
		c.fail("memuat data barang", err)
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.itemsApplied {
		c.logger.Debug("dropping stale found items response", "seq", seq, "applied", c.itemsApplied)
		return false, nil
	}
	c.itemsApplied = seq
	c.items = items
	c.itemsLoaded = true
	c.clampPage()
	return true, nil
}

// RefreshReports re-fetches the lost reports and feeds them to the
// detector. A new report posts a NoticeReport.
func (c *Controller) RefreshReports(ctx context.Context) error {
	err := c.refreshReports(ctx)
	if err != nil {
		c.fail("memuat laporan kehilangan", err)
	}
	return err
}

// poll is the polling tick. Only the first failure of a run of failures
// becomes a notice, and the first success after it posts a recovery note.
func (c *Controller) poll(ctx context.Context) {
	err := c.refreshReports(ctx)
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	wasFailing := c.pollFailing
	c.pollFailing = err != nil
	c.mu.Unlock()

	switch {
	case err != nil && !wasFailing:
		c.fail("memuat laporan kehilangan", err)
	case err != nil:
		c.logger.Debug("polling lost reports", "error", err)
	case wasFailing:
		c.logger.Info("polling recovered")
		c.post(NoticeInfo, "Koneksi ke server pulih kembali")
	}
}

func (c *Controller) refreshReports(ctx context.Context) error {
	c.mu.Lock()
	c.reportsSeq++
	seq := c.reportsSeq
	c.mu.Unlock()

	reports, err := c.gw.ListLostReports(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if seq < c.reportsApplied {
		c.mu.Unlock()
		c.logger.Debug("dropping stale lost reports response", "seq", seq)
		return nil
	}
	c.reportsApplied = seq
	c.reports = reports
	c.reportsLoaded = true
	n, notified := c.detector.Observe(reports)
	c.mu.Unlock()

	if notified {
		c.logger.Info("new lost report", "id", n.ID)
		c.post(NoticeReport, n.Message)
	}
	return nil
}

// touchItems records a local change to the items so that fetches issued
// before it are treated as stale. Caller holds c.mu.
func (c *Controller) touchItems() {
	c.itemsSeq++
	c.itemsApplied = c.itemsSeq
	c.clampPage()
}

// touchReports is touchItems for lost reports. Caller holds c.mu.
func (c *Controller) touchReports() {
	c.reportsSeq++
	c.reportsApplied = c.reportsSeq
}

// clampPage keeps the current page inside the filtered result after the
// collection changed. Caller holds c.mu.
func (c *Controller) clampPage() {
	count := listing.PageCount(len(listing.Filter(c.items, c.query.Criteria)))
	if c.query.Page > count {
		c.query.Page = max(count, 1)
	}
}

func removeFoundItem(items []model.FoundItem, id int64) []model.FoundItem {
	if i := model.FindFoundItem(items, id); i >= 0 {
		return append(items[:i:i], items[i+1:]...)
	}
	return items
}

func removeLostReport(reports []model.LostReport, id int64) []model.LostReport {
	if i := model.FindLostReport(reports, id); i >= 0 {
		return append(reports[:i:i], reports[i+1:]...)
	}
	return reports
}
