// Package dashboard holds the admin dashboard state: both collections, the
// listing query, the notification feed and pending actions. Every change
// goes through the Controller, and local state changes only after the
// server has accepted a mutation.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/findora/findora/internal/detector"
	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/listing"
	"github.com/findora/findora/internal/model"
	"github.com/findora/findora/internal/session"
)

// DefaultPollInterval is how often lost reports are re-fetched.
const DefaultPollInterval = 10 * time.Second

var (
	// ErrBusy is returned when the same action is already in flight.
	ErrBusy = errors.New("action already in progress")
	// ErrCancelled is returned when the admin declines a confirmation.
	ErrCancelled = errors.New("cancelled")
	// ErrNotLoggedIn is returned by Start without an admin session.
	ErrNotLoggedIn = errors.New("not logged in")
)

// Gateway is the remote API used by the controller.
type Gateway interface {
	ListFoundItems(ctx context.Context) ([]model.FoundItem, error)
	CreateFoundItem(ctx context.Context, form forms.FoundItem) (*model.FoundItem, error)
	UpdateFoundItem(ctx context.Context, id int64, form forms.FoundItem) (*model.FoundItem, error)
	DeleteFoundItem(ctx context.Context, id int64) error
	VerifyFoundItem(ctx context.Context, id int64) error
	UnverifyFoundItem(ctx context.Context, id int64) error
	ListLostReports(ctx context.Context) ([]model.LostReport, error)
	UpdateLostReportStatus(ctx context.Context, id int64, status string) (*model.LostReport, error)
	DeleteLostReport(ctx context.Context, id int64) error
	Logout(ctx context.Context) error
}

// Confirmer asks the admin to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Options configures a Controller. The zero value is usable.
type Options struct {
	PollInterval time.Duration
	// Confirmer defaults to one that declines everything.
	Confirmer Confirmer
	Logger    *slog.Logger
	// OnNotice is called for every notice, outside the controller lock,
	// possibly from the polling goroutine.
	OnNotice func(Notice)
}

// Action names a kind of pending mutation.
type Action string

// Actions tracked by Busy.
const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionVerify       Action = "verify"
	ActionUnverify     Action = "unverify"
	ActionReportDone   Action = "report_done"
	ActionReportUndone Action = "report_undone"
	ActionReportDelete Action = "report_delete"
)

type pendingKey struct {
	action Action
	id     int64
}

// Controller is safe for concurrent use. Network calls run without the
// lock held.
type Controller struct {
	gw       Gateway
	session  session.Store
	confirm  Confirmer
	logger   *slog.Logger
	interval time.Duration
	onNotice func(Notice)
	now      func() time.Time

	mu            sync.Mutex
	items         []model.FoundItem
	reports       []model.LostReport
	itemsLoaded   bool
	reportsLoaded bool
	detector      *detector.Detector
	query         listing.Query
	pending       map[pendingKey]bool
	notices       []Notice
	pollFailing   bool
	expired       bool

	// Fetch sequence numbers. A response whose number is below the last
	// applied one for the same collection is stale and dropped.
	itemsSeq       uint64
	itemsApplied   uint64
	reportsSeq     uint64
	reportsApplied uint64

	poller *poller
}

// New creates a controller. Call Start to load data.
func New(gw Gateway, store session.Store, opts Options) *Controller {
	c := &Controller{
		gw:       gw,
		session:  store,
		confirm:  opts.Confirmer,
		logger:   opts.Logger,
		interval: opts.PollInterval,
		onNotice: opts.OnNotice,
		now:      time.Now,
		detector: detector.New(),
		query:    listing.Query{Criteria: listing.Criteria{Category: listing.All, Status: listing.All}, Page: 1},
		pending:  make(map[pendingKey]bool),
	}
	if c.confirm == nil {
		c.confirm = ConfirmFunc(func(context.Context, string) bool { return false })
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.interval <= 0 {
		c.interval = DefaultPollInterval
	}
	return c
}

// Start checks the session, loads both collections once and starts polling
// lost reports. Load failures become notices; they do not fail Start.
func (c *Controller) Start(ctx context.Context) error {
	ok, err := session.IsAdmin(ctx, c.session)
	if err != nil {
		return fmt.Errorf("reading session: %w", err)
	}
	if !ok {
		return ErrNotLoggedIn
	}

	c.RefreshFoundItems(ctx)
	c.RefreshReports(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poller == nil {
		c.poller = startPoller(ctx, c.interval, c.poll)
		c.logger.Info("dashboard started", "poll_interval", c.interval)
	}
	return nil
}

// Stop cancels polling and waits for an in-flight poll to return.
func (c *Controller) Stop() {
	c.mu.Lock()
	p := c.poller
	c.poller = nil
	c.mu.Unlock()

	if p != nil {
		p.stop()
	}
}

// Running reports whether the poller is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poller != nil
}

// Logout stops polling, revokes the token on the server and clears the
// session. A failed server call is only logged.
func (c *Controller) Logout(ctx context.Context) error {
	c.Stop()

	if err := c.gw.Logout(ctx); err != nil {
		c.logger.Warn("revoking token", "error", err)
	}
	if err := c.session.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	c.post(NoticeSuccess, "Logout berhasil: Anda telah keluar dari sistem")
	return nil
}

// SessionExpired reports whether the server has rejected the stored token
// since the controller was created.
func (c *Controller) SessionExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// EndSession stops polling and clears the local session without calling
// the server, whose token is no longer valid anyway.
func (c *Controller) EndSession(ctx context.Context) error {
	c.Stop()
	if err := c.session.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// begin marks an action as pending. It returns false when the same action
// on the same target is already running.
func (c *Controller) begin(action Action, id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := pendingKey{action, id}
	if c.pending[k] {
		return false
	}
	c.pending[k] = true
	return true
}

func (c *Controller) end(action Action, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, pendingKey{action, id})
}

// Busy reports whether action is in flight for id. Create uses id 0.
func (c *Controller) Busy(action Action, id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[pendingKey{action, id}]
}
