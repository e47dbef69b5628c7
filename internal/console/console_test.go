package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/findora/findora/internal/dashboard"
	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/gateway"
	"github.com/findora/findora/internal/model"
	"github.com/findora/findora/internal/session"
	"github.com/findora/findora/internal/testutil/gatewaymock"
)

type authFunc func(ctx context.Context, form forms.Login) (string, error)

func (f authFunc) Login(ctx context.Context, form forms.Login) (string, error) { return f(ctx, form) }

func sampleItems(n int) []model.FoundItem {
	out := make([]model.FoundItem, n)
	for i := range out {
		out[i] = model.FoundItem{
			ID:            int64(n - i),
			Name:          "Barang",
			Category:      model.CategoryBooks,
			LocationFound: "Aula",
			Status:        model.ItemStatusFound,
		}
	}
	return out
}

// start wires a console reading input to a started controller.
func start(t *testing.T, gw *gatewaymock.Gateway, input string) (*Console, *dashboard.Controller, *bytes.Buffer, *session.Memory) {
	t.Helper()
	var out bytes.Buffer
	con := New(strings.NewReader(input), &out)

	sess := session.NewMemory()
	if err := session.SaveLogin(context.Background(), sess, "tok"); err != nil {
		t.Fatalf("SaveLogin: %v", err)
	}
	ctl := dashboard.New(gw, sess, dashboard.Options{
		PollInterval: time.Hour,
		Confirmer:    con,
		OnNotice:     con.Notice,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(ctl.Stop)
	if err := ctl.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return con, ctl, &out, sess
}

func TestLoginRetriesUntilAccepted(t *testing.T) {
	var out bytes.Buffer
	con := New(strings.NewReader("bukan-email\nx\nadmin@kampus.ac.id\nsalah\nadmin@kampus.ac.id\npassword\n"), &out)

	attempts := 0
	auth := authFunc(func(_ context.Context, form forms.Login) (string, error) {
		attempts++
		if form.Password != "password" {
			return "", &gateway.ResponseError{Op: "logging in", Status: 401, Message: "invalid email or password"}
		}
		return "tok-123", nil
	})
	sess := session.NewMemory()

	if err := con.Login(context.Background(), auth, sess); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 server attempts (first form is invalid), got %d", attempts)
	}
	if tok, _ := session.Token(context.Background(), sess); tok != "tok-123" {
		t.Errorf("expected token saved, got %q", tok)
	}
	if !strings.Contains(out.String(), "email: must be a valid email address") {
		t.Errorf("expected field error in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Login gagal: invalid email or password") {
		t.Errorf("expected server message in output:\n%s", out.String())
	}
}

func TestLoginGivesUp(t *testing.T) {
	con := New(strings.NewReader(strings.Repeat("a@b.id\nx\n", MaxLoginAttempts)), io.Discard)
	auth := authFunc(func(context.Context, forms.Login) (string, error) {
		return "", &gateway.ResponseError{Status: 401, Message: "invalid email or password"}
	})

	if err := con.Login(context.Background(), auth, session.NewMemory()); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
}

func TestLoginEOF(t *testing.T) {
	con := New(strings.NewReader(""), io.Discard)
	auth := authFunc(func(context.Context, forms.Login) (string, error) { return "tok", nil })

	if err := con.Login(context.Background(), auth, session.NewMemory()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestRunPaging(t *testing.T) {
	gw := &gatewaymock.Gateway{
		ListFoundItemsFn: func(context.Context) ([]model.FoundItem, error) { return sampleItems(7), nil },
	}
	con, ctl, out, _ := start(t, gw, "items\nnext\nnext\npage 9\nprev\nquit\n")

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Total barang: 7",
		"Halaman 1/2 (7 barang)",
		"Halaman 2/2 (7 barang)",
		"Sudah di halaman terakhir.",
		"Halaman 9 tidak ada.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunFilters(t *testing.T) {
	items := sampleItems(3)
	items[0].Name = "Payung Hitam"
	items[0].Category = model.CategoryOther
	gw := &gatewaymock.Gateway{
		ListFoundItemsFn: func(context.Context) ([]model.FoundItem, error) { return items, nil },
	}
	con, ctl, out, _ := start(t, gw, "search payung\ncategory Buku\ncategory Mainan\nsort terbalik\n")

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Payung Hitam") || !strings.Contains(got, "Halaman 1/1 (1 barang)") {
		t.Errorf("expected search result:\n%s", got)
	}
	if !strings.Contains(got, "Tidak ada barang yang cocok.") {
		t.Errorf("expected empty result for search+category:\n%s", got)
	}
	if !strings.Contains(got, `unknown category "Mainan"`) || !strings.Contains(got, `unknown sort key "terbalik"`) {
		t.Errorf("expected rejected filter values:\n%s", got)
	}
}

func TestRunDeleteAsksForConfirmation(t *testing.T) {
	gw := &gatewaymock.Gateway{
		ListFoundItemsFn: func(context.Context) ([]model.FoundItem, error) { return sampleItems(3), nil },
	}
	con, ctl, out, _ := start(t, gw, "rm 2\nn\nrm 2\ny\nquit\n")

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := gw.Calls("DeleteFoundItem"); n != 1 {
		t.Errorf("expected one delete request, got %d", n)
	}
	got := out.String()
	if !strings.Contains(got, "Hapus barang #2? [y/N]") || !strings.Contains(got, "Dibatalkan.") {
		t.Errorf("expected prompt and cancellation:\n%s", got)
	}
	if !strings.Contains(got, "[OK] Item dihapus") {
		t.Errorf("expected success notice:\n%s", got)
	}
	if _, ok := ctl.FoundItem(2); ok {
		t.Error("item 2 should be gone")
	}
}

func TestRunAddRejectsIncompleteForm(t *testing.T) {
	gw := &gatewaymock.Gateway{}
	con, ctl, out, _ := start(t, gw, "add\n"+strings.Repeat("\n", 9)+"quit\n")

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gw.Calls("CreateFoundItem") != 0 {
		t.Error("invalid form must not reach the gateway")
	}
	got := out.String()
	if !strings.Contains(got, "Data tidak valid:") || !strings.Contains(got, "name: is required") {
		t.Errorf("expected validation errors:\n%s", got)
	}
}

func TestRunAddCreates(t *testing.T) {
	var sent forms.FoundItem
	gw := &gatewaymock.Gateway{
		CreateFoundItemFn: func(_ context.Context, form forms.FoundItem) (*model.FoundItem, error) {
			sent = form
			return &model.FoundItem{ID: 10, Name: *form.Name}, nil
		},
	}
	input := "add\nPayung\n\nHitam\nLainnya\nKantin\n2025-05-01\n\n\n\nquit\n"
	con, ctl, out, _ := start(t, gw, input)

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sent.Name == nil || *sent.Name != "Payung" || sent.Color == nil || *sent.Color != "Hitam" {
		t.Fatalf("unexpected form %+v", sent)
	}
	if sent.Brand != nil || sent.Status != nil || sent.Photo != nil {
		t.Errorf("blank answers must stay unset: %+v", sent)
	}
	if !strings.Contains(out.String(), "[OK] Barang berhasil ditambahkan") {
		t.Errorf("expected success notice:\n%s", out.String())
	}
}

func TestRunEditSendsOnlyChanges(t *testing.T) {
	var sent forms.FoundItem
	gw := &gatewaymock.Gateway{
		ListFoundItemsFn: func(context.Context) ([]model.FoundItem, error) { return sampleItems(1), nil },
		UpdateFoundItemFn: func(_ context.Context, id int64, form forms.FoundItem) (*model.FoundItem, error) {
			sent = form
			return &model.FoundItem{ID: id}, nil
		},
	}
	// Name is re-entered unchanged; only status really changes.
	input := "edit 1\nBarang\n\n\n\n\n\n\nDikembalikan\n\nedit 1\n" + strings.Repeat("\n", 9) + "quit\n"
	con, ctl, out, _ := start(t, gw, input)

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gw.Calls("UpdateFoundItem") != 1 {
		t.Fatalf("expected one update, got %d", gw.Calls("UpdateFoundItem"))
	}
	if sent.Name != nil || sent.Status == nil || *sent.Status != model.ItemStatusReturned {
		t.Errorf("unexpected form %+v", sent)
	}
	if !strings.Contains(out.String(), "Tidak ada perubahan.") {
		t.Errorf("expected second edit to be a no-op:\n%s", out.String())
	}
}

func TestRunEditClearsOptionalField(t *testing.T) {
	item := sampleItems(1)[0]
	item.Brand = "Eiger"
	var sent forms.FoundItem
	gw := &gatewaymock.Gateway{
		ListFoundItemsFn: func(context.Context) ([]model.FoundItem, error) { return []model.FoundItem{item}, nil },
		UpdateFoundItemFn: func(_ context.Context, id int64, form forms.FoundItem) (*model.FoundItem, error) {
			sent = form
			return &model.FoundItem{ID: id}, nil
		},
	}
	// "-" on brand clears it; on color, already empty, it changes nothing.
	input := "edit 1\n\n-\n-\n\n\n\n\n\n\nquit\n"
	con, ctl, _, _ := start(t, gw, input)

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gw.Calls("UpdateFoundItem") != 1 {
		t.Fatalf("expected one update, got %d", gw.Calls("UpdateFoundItem"))
	}
	if sent.Brand == nil || *sent.Brand != "" {
		t.Errorf("expected brand cleared, got %v", sent.Brand)
	}
	if sent.Color != nil || sent.Name != nil || sent.Status != nil {
		t.Errorf("unexpected form %+v", sent)
	}
}

func TestRunEndsWhenSessionExpires(t *testing.T) {
	gw := &gatewaymock.Gateway{
		ListFoundItemsFn: func(context.Context) ([]model.FoundItem, error) { return sampleItems(1), nil },
		VerifyFoundItemFn: func(context.Context, int64) error {
			return &gateway.ResponseError{Status: 401, Message: "token has expired"}
		},
	}
	con, ctl, out, sess := start(t, gw, "verify 1\nverify 1\nquit\n")

	if err := con.Run(context.Background(), ctl); !errors.Is(err, ErrLoggedOut) {
		t.Fatalf("expected ErrLoggedOut, got %v", err)
	}
	if gw.Calls("VerifyFoundItem") != 1 {
		t.Errorf("expected Run to stop after the rejected call, got %d calls", gw.Calls("VerifyFoundItem"))
	}
	if !strings.Contains(out.String(), "Sesi telah berakhir") {
		t.Errorf("expected expiry message:\n%s", out.String())
	}
	if ok, _ := session.IsAdmin(context.Background(), sess); ok {
		t.Error("expected session cleared")
	}
	if ctl.Running() {
		t.Error("expected polling stopped")
	}
}

func TestRunServerErrorIsShownOnce(t *testing.T) {
	gw := &gatewaymock.Gateway{
		ListFoundItemsFn: func(context.Context) ([]model.FoundItem, error) { return sampleItems(1), nil },
		VerifyFoundItemFn: func(context.Context, int64) error {
			return &gateway.ResponseError{Status: 404, Message: "found item not found"}
		},
	}
	con, ctl, out, _ := start(t, gw, "verify 1\nquit\n")

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := strings.Count(out.String(), "found item not found"); n != 1 {
		t.Errorf("expected server message once, got %d:\n%s", n, out.String())
	}
}

func TestRunReportsAndNotifications(t *testing.T) {
	reports := []model.LostReport{{ID: 1, Name: "Budi", Category: "Dokumen", Status: model.ReportStatusLost}}
	gw := &gatewaymock.Gateway{
		ListLostReportsFn: func(context.Context) ([]model.LostReport, error) { return reports, nil },
		UpdateLostReportStatusFn: func(_ context.Context, id int64, status string) (*model.LostReport, error) {
			for _, r := range reports {
				if r.ID == id {
					r.Status = status
					return &r, nil
				}
			}
			return nil, &gateway.ResponseError{Status: 404, Message: "lost report not found"}
		},
	}
	con, ctl, out, _ := start(t, gw, "")

	reports = append([]model.LostReport{{ID: 2, Name: "Siti", Category: "Elektronik", Status: model.ReportStatusLost}}, reports...)
	con.in.Reset(strings.NewReader("refresh\nnotif\nread 2\nnotif\nreports\ndone 1\nquit\n"))

	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"[LAPORAN BARU] Laporan baru dari Siti (Elektronik)",
		"1 belum dibaca",
		"0 belum dibaca",
		"Budi",
		"[OK] Laporan ditandai selesai",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunLogout(t *testing.T) {
	gw := &gatewaymock.Gateway{}
	con, ctl, _, sess := start(t, gw, "logout\nitems\n")

	if err := con.Run(context.Background(), ctl); !errors.Is(err, ErrLoggedOut) {
		t.Fatalf("expected ErrLoggedOut, got %v", err)
	}
	if gw.Calls("Logout") != 1 {
		t.Error("expected server logout")
	}
	if ok, _ := session.IsAdmin(context.Background(), sess); ok {
		t.Error("session should be cleared")
	}
}

func TestRunUsageAndUnknown(t *testing.T) {
	con, ctl, out, _ := start(t, &gatewaymock.Gateway{}, "verify\nshow abc\nfly\nhelp\n")

	// End of input ends the loop cleanly.
	if err := con.Run(context.Background(), ctl); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Penggunaan: verify <id>",
		"Penggunaan: show <id>",
		"Perintah tidak dikenal: fly",
		"rmreport <id>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConfirm(t *testing.T) {
	con := New(strings.NewReader("y\nYA\nno\n\n"), io.Discard)
	want := []bool{true, true, false, false, false}
	for i, w := range want {
		if got := con.Confirm(context.Background(), "Lanjut?"); got != w {
			t.Errorf("answer %d: expected %v, got %v", i, w, got)
		}
	}
}
