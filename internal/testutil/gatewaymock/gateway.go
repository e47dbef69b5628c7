// Package gatewaymock provides a function-backed fake of the dashboard's
// Gateway. Unset functions fall back to a harmless default; every call is
// counted so tests can assert that no request was issued.
package gatewaymock

import (
	"context"
	"errors"
	"sync"

	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/model"
)

// ErrNotImplemented is returned by calls that need a value but have no Fn.
var ErrNotImplemented = errors.New("gatewaymock: not implemented")

type Gateway struct {
	ListFoundItemsFn         func(ctx context.Context) ([]model.FoundItem, error)
	CreateFoundItemFn        func(ctx context.Context, form forms.FoundItem) (*model.FoundItem, error)
	UpdateFoundItemFn        func(ctx context.Context, id int64, form forms.FoundItem) (*model.FoundItem, error)
	DeleteFoundItemFn        func(ctx context.Context, id int64) error
	VerifyFoundItemFn        func(ctx context.Context, id int64) error
	UnverifyFoundItemFn      func(ctx context.Context, id int64) error
	ListLostReportsFn        func(ctx context.Context) ([]model.LostReport, error)
	UpdateLostReportStatusFn func(ctx context.Context, id int64, status string) (*model.LostReport, error)
	DeleteLostReportFn       func(ctx context.Context, id int64) error
	LogoutFn                 func(ctx context.Context) error

	mu    sync.Mutex
	calls map[string]int
}

func (g *Gateway) record(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[name]++
}

// Calls returns how many times the named method was called.
func (g *Gateway) Calls(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

// TotalCalls returns the number of calls across all methods.
func (g *Gateway) TotalCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

func (g *Gateway) ListFoundItems(ctx context.Context) ([]model.FoundItem, error) {
	g.record("ListFoundItems")
	if g.ListFoundItemsFn != nil {
		return g.ListFoundItemsFn(ctx)
	}
	return []model.FoundItem{}, nil
}

func (g *Gateway) CreateFoundItem(ctx context.Context, form forms.FoundItem) (*model.FoundItem, error) {
	g.record("CreateFoundItem")
	if g.CreateFoundItemFn != nil {
		return g.CreateFoundItemFn(ctx, form)
	}
	return nil, ErrNotImplemented
}

func (g *Gateway) UpdateFoundItem(ctx context.Context, id int64, form forms.FoundItem) (*model.FoundItem, error) {
	g.record("UpdateFoundItem")
	if g.UpdateFoundItemFn != nil {
		return g.UpdateFoundItemFn(ctx, id, form)
	}
	return nil, ErrNotImplemented
}

func (g *Gateway) DeleteFoundItem(ctx context.Context, id int64) error {
	g.record("DeleteFoundItem")
	if g.DeleteFoundItemFn != nil {
		return g.DeleteFoundItemFn(ctx, id)
	}
	return nil
}

func (g *Gateway) VerifyFoundItem(ctx context.Context, id int64) error {
	g.record("VerifyFoundItem")
	if g.VerifyFoundItemFn != nil {
		return g.VerifyFoundItemFn(ctx, id)
	}
	return nil
}

func (g *Gateway) UnverifyFoundItem(ctx context.Context, id int64) error {
	g.record("UnverifyFoundItem")
	if g.UnverifyFoundItemFn != nil {
		return g.UnverifyFoundItemFn(ctx, id)
	}
	return nil
}

func (g *Gateway) ListLostReports(ctx context.Context) ([]model.LostReport, error) {
	g.record("ListLostReports")
	if g.ListLostReportsFn != nil {
		return g.ListLostReportsFn(ctx)
	}
	return []model.LostReport{}, nil
}

func (g *Gateway) UpdateLostReportStatus(ctx context.Context, id int64, status string) (*model.LostReport, error) {
	g.record("UpdateLostReportStatus")
	if g.UpdateLostReportStatusFn != nil {
		return g.UpdateLostReportStatusFn(ctx, id, status)
	}
	return nil, ErrNotImplemented
}

func (g *Gateway) DeleteLostReport(ctx context.Context, id int64) error {
	g.record("DeleteLostReport")
	if g.DeleteLostReportFn != nil {
		return g.DeleteLostReportFn(ctx, id)
	}
	return nil
}

func (g *Gateway) Logout(ctx context.Context) error {
	g.record("Logout")
	if g.LogoutFn != nil {
		return g.LogoutFn(ctx)
	}
	return nil
}
