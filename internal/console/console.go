// Package console is the line-oriented terminal front end of the admin
// dashboard.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/findora/findora/internal/dashboard"
	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/gateway"
	"github.com/findora/findora/internal/session"
)

// MaxLoginAttempts bounds the login prompt.
const MaxLoginAttempts = 3

// ErrLoginFailed is returned by Login after MaxLoginAttempts failures.
var ErrLoginFailed = errors.New("login failed")

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, form forms.Login) (string, error)
}

// Console reads commands from in and writes to out. Output is serialized so
// notices from the polling goroutine do not interleave with tables.
type Console struct {
	in *bufio.Reader

	mu  sync.Mutex
	out io.Writer
}

// New creates a console.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// readLine prompts and returns the next line without its newline. It
// returns io.EOF once input is exhausted.
func (c *Console) readLine(prompt string) (string, error) {
	if prompt != "" {
		c.printf("%s", prompt)
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a y/N question. Anything but y or ya declines.
func (c *Console) Confirm(_ context.Context, prompt string) bool {
	answer, err := c.readLine(prompt + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "ya":
		return true
	}
	return false
}

// Notice prints a dashboard notice. It is meant for dashboard.Options.OnNotice.
func (c *Console) Notice(n dashboard.Notice) {
	c.printf("[%s] %s\n", noticeLabel(n.Kind), n.Message)
}

func noticeLabel(k dashboard.NoticeKind) string {
	switch k {
	case dashboard.NoticeSuccess:
		return "OK"
	case dashboard.NoticeError:
		return "GAGAL"
	case dashboard.NoticeReport:
		return "LAPORAN BARU"
	default:
		return "INFO"
	}
}

// Login prompts for credentials until the server accepts them, then stores
// the token in the session.
func (c *Console) Login(ctx context.Context, auth Authenticator, store session.Store) error {
	for range MaxLoginAttempts {
		email, err := c.readLine("Email: ")
		if err != nil {
			return err
		}
		password, err := c.readLine("Password: ")
		if err != nil {
			return err
		}

		form := forms.Login{Email: strings.TrimSpace(email), Password: password}
		if err := form.Validate(); err != nil {
			c.printFormErrors(err)
			continue
		}

		token, err := auth.Login(ctx, form)
		if err != nil {
			c.printf("Login gagal: %s\n", errorText(err))
			continue
		}
		if err := session.SaveLogin(ctx, store, token); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		c.printf("Login berhasil.\n")
		return nil
	}
	return ErrLoginFailed
}

func (c *Console) printFormErrors(err error) {
	var ve *forms.ValidationError
	if !errors.As(err, &ve) {
		c.printf("%s\n", err)
		return
	}
	for _, f := range ve.Fields {
		c.printf("  %s: %s\n", f.Field, f.Message)
	}
}

// errorText prefers the server's message.
func errorText(err error) string {
	if msg := gateway.ServerMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}
