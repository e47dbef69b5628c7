package dashboard

import (
	"errors"
	"time"

	"github.com/findora/findora/internal/gateway"
)

// NoticeKind classifies a notice.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
	// NoticeReport announces a newly observed lost report.
	NoticeReport
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	case NoticeReport:
		return "report"
	default:
		return "info"
	}
}

// Notice is a transient message for the admin (a toast).
type Notice struct {
	Kind    NoticeKind
	Message string
	Time    time.Time
}

// post queues a notice. It must be called without c.mu held.
func (c *Controller) post(kind NoticeKind, msg string) {
	n := Notice{Kind: kind, Message: msg, Time: c.now()}

	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()

	if c.onNotice != nil {
		c.onNotice(n)
	}
}

// fail logs a gateway failure and posts it. The server's message is shown
// verbatim when it sent one; otherwise a generic text naming the action.
// A 401 marks the session as expired.
func (c *Controller) fail(action string, err error) {
	c.logger.Warn(action, "error", err)

	if errors.Is(err, gateway.ErrUnauthorized) {
		c.mu.Lock()
		c.expired = true
		c.mu.Unlock()
	}

	msg := gateway.ServerMessage(err)
	if msg == "" {
		msg = "Gagal " + action
	}
	c.post(NoticeError, msg)
}

// Notices returns and clears the queued notices, oldest first.
func (c *Controller) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.notices
	c.notices = nil
	return out
}
