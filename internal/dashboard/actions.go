package dashboard

import (
	"context"
	"fmt"
	"slices"

	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/model"
)

// Verify marks a found item as verified. Only the Verified flag of the
// local record changes.
func (c *Controller) Verify(ctx context.Context, id int64) error {
	return c.setVerified(ctx, id, true)
}

// Unverify clears the verified flag.
func (c *Controller) Unverify(ctx context.Context, id int64) error {
	return c.setVerified(ctx, id, false)
}

func (c *Controller) setVerified(ctx context.Context, id int64, verified bool) error {
	action, call, what, done := ActionVerify, c.gw.VerifyFoundItem, "memverifikasi barang", "Barang berhasil diverifikasi"
	if !verified {
		action, call, what, done = ActionUnverify, c.gw.UnverifyFoundItem, "membatalkan verifikasi barang", "Verifikasi barang dibatalkan"
	}

	if !c.begin(action, id) {
		return ErrBusy
	}
	defer c.end(action, id)

	if err := call(ctx, id); err != nil {
		c.fail(what, err)
		return err
	}

	c.mu.Lock()
	if i := model.FindFoundItem(c.items, id); i >= 0 {
		c.items[i].Verified = verified
	}
	c.touchItems()
	c.mu.Unlock()

	c.post(NoticeSuccess, done)
	return nil
}

// Delete removes a found item after the admin confirms.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if !c.confirm.Confirm(ctx, fmt.Sprintf("Hapus barang #%d?", id)) {
		return ErrCancelled
	}

	if !c.begin(ActionDelete, id) {
		return ErrBusy
	}
	defer c.end(ActionDelete, id)

	if err := c.gw.DeleteFoundItem(ctx, id); err != nil {
		c.fail("menghapus barang", err)
		return err
	}

	c.mu.Lock()
	c.items = removeFoundItem(c.items, id)
	c.touchItems()
	c.mu.Unlock()

	c.post(NoticeSuccess, "Item dihapus: item telah berhasil dihapus")
	return nil
}

// Create validates and submits a new found item, then reloads the list.
// If the reload fails or is overtaken by another change, the returned
// record is inserted locally instead.
func (c *Controller) Create(ctx context.Context, form forms.FoundItem) (*model.FoundItem, error) {
	if err := form.ValidateCreate(); err != nil {
		return nil, err
	}

	if !c.begin(ActionCreate, 0) {
		return nil, ErrBusy
	}
	defer c.end(ActionCreate, 0)

	item, err := c.gw.CreateFoundItem(ctx, form)
	if err != nil {
		c.fail("menambahkan barang", err)
		return nil, err
	}
	c.post(NoticeSuccess, "Barang berhasil ditambahkan")

	if applied, _ := c.refreshFoundItems(ctx); !applied && item != nil {
		c.mu.Lock()
		if model.FindFoundItem(c.items, item.ID) < 0 {
			c.items = slices.Insert(slices.Clip(c.items), 0, *item)
		}
		c.touchItems()
		c.mu.Unlock()
	}
	return item, nil
}

// Update validates and submits an edit, then reloads the list. If the
// reload does not land, the returned record replaces the local one.
func (c *Controller) Update(ctx context.Context, id int64, form forms.FoundItem) (*model.FoundItem, error) {
	if err := form.ValidateUpdate(); err != nil {
		return nil, err
	}

	if !c.begin(ActionUpdate, id) {
		return nil, ErrBusy
	}
	defer c.end(ActionUpdate, id)

	item, err := c.gw.UpdateFoundItem(ctx, id, form)
	if err != nil {
		c.fail("memperbarui barang", err)
		return nil, err
	}
	c.post(NoticeSuccess, "Barang berhasil diperbarui")

	if applied, _ := c.refreshFoundItems(ctx); !applied && item != nil {
		c.mu.Lock()
		if i := model.FindFoundItem(c.items, id); i >= 0 {
			c.items[i] = *item
		}
		c.touchItems()
		c.mu.Unlock()
	}
	return item, nil
}

// MarkReportDone sets a report to Selesai.
func (c *Controller) MarkReportDone(ctx context.Context, id int64) error {
	return c.setReportStatus(ctx, id, ActionReportDone, model.ReportStatusDone, "Laporan ditandai selesai")
}

// MarkReportUndone sets a report back to Diproses. There is no way back to
// Hilang.
func (c *Controller) MarkReportUndone(ctx context.Context, id int64) error {
	return c.setReportStatus(ctx, id, ActionReportUndone, model.ReportStatusProcessing, "Laporan ditandai diproses")
}

func (c *Controller) setReportStatus(ctx context.Context, id int64, action Action, status, done string) error {
	if !c.begin(action, id) {
		return ErrBusy
	}
	defer c.end(action, id)

	report, err := c.gw.UpdateLostReportStatus(ctx, id, status)
	if err != nil {
		c.fail("memperbarui status laporan", err)
		return err
	}

	c.mu.Lock()
	if i := model.FindLostReport(c.reports, id); i >= 0 {
		if report != nil {
			c.reports[i] = *report
		} else {
			c.reports[i].Status = status
		}
	}
	c.touchReports()
	c.mu.Unlock()

	c.post(NoticeSuccess, done)
	c.RefreshReports(ctx)
	return nil
}

// DeleteReport removes a lost report after the admin confirms.
func (c *Controller) DeleteReport(ctx context.Context, id int64) error {
	if !c.confirm.Confirm(ctx, fmt.Sprintf("Hapus laporan #%d?", id)) {
		return ErrCancelled
	}

	if !c.begin(ActionReportDelete, id) {
		return ErrBusy
	}
	defer c.end(ActionReportDelete, id)

	if err := c.gw.DeleteLostReport(ctx, id); err != nil {
		c.fail("menghapus laporan", err)
		return err
	}

	c.mu.Lock()
	c.reports = removeLostReport(c.reports, id)
	c.touchReports()
	c.mu.Unlock()

	c.post(NoticeSuccess, "Laporan dihapus")
	return nil
}
