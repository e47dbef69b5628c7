package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/findora/findora/internal/dashboard"
	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/listing"
	"github.com/findora/findora/internal/model"
)

// ErrLoggedOut is returned by Run after the logout command and when the
// server no longer accepts the session.
var ErrLoggedOut = errors.New("logged out")

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, ctl *dashboard.Controller, args []string) error
}

// errQuit ends Run without error.
var errQuit = errors.New("quit")

func (c *Console) commands() map[string]command {
	return map[string]command{
		"items":    {"items", "tampilkan barang temuan (halaman aktif)", c.cmdItems},
		"search":   {"search [kata]", "cari nama barang; tanpa kata menghapus pencarian", c.cmdSearch},
		"category": {"category <kategori|all>", "filter kategori", c.cmdCategory},
		"status":   {"status <status|all>", "filter status barang", c.cmdStatus},
		"sort":     {"sort <none|date_desc|date_asc|name_asc|name_desc>", "urutkan barang", c.cmdSort},
		"page":     {"page <n>", "pindah ke halaman n", c.cmdPage},
		"next":     {"next", "halaman berikutnya", c.cmdNext},
		"prev":     {"prev", "halaman sebelumnya", c.cmdPrev},
		"show":     {"show <id>", "detail barang", c.cmdShow},
		"add":      {"add", "tambah barang temuan", c.cmdAdd},
		"edit":     {"edit <id>", "ubah barang; kosongkan isian untuk mempertahankan nilai, \"-\" mengosongkan merek/warna/deskripsi", c.cmdEdit},
		"verify":   {"verify <id>", "verifikasi barang", c.cmdVerify},
		"unverify": {"unverify <id>", "batalkan verifikasi", c.cmdUnverify},
		"rm":       {"rm <id>", "hapus barang", c.cmdRemove},
		"reports":  {"reports", "tampilkan laporan kehilangan", c.cmdReports},
		"done":     {"done <id>", "tandai laporan selesai", c.cmdDone},
		"undone":   {"undone <id>", "tandai laporan diproses", c.cmdUndone},
		"rmreport": {"rmreport <id>", "hapus laporan", c.cmdRemoveReport},
		"notif":    {"notif", "tampilkan notifikasi", c.cmdNotifications},
		"read":     {"read <id|all>", "tandai notifikasi sudah dibaca", c.cmdRead},
		"refresh":  {"refresh", "muat ulang data dari server", c.cmdRefresh},
		"logout":   {"logout", "keluar", c.cmdLogout},
		"help":     {"help", "daftar perintah", c.cmdHelp},
		"quit":     {"quit", "tutup dashboard", c.cmdQuit},
	}
}

// Run reads commands until quit, logout or end of input. It returns
// ErrLoggedOut after a logout and nil otherwise.
func (c *Console) Run(ctx context.Context, ctl *dashboard.Controller) error {
	cmds := c.commands()
	c.printSummary(ctl.View())
	c.printf("Ketik \"help\" untuk daftar perintah.\n")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if ctl.SessionExpired() {
			return c.endExpiredSession(ctx, ctl)
		}

		line, err := c.readLine("findora> ")
		if errors.Is(err, io.EOF) {
			c.printf("\n")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name, args := strings.ToLower(fields[0]), fields[1:]
		if name == "exit" {
			name = "quit"
		}

		cmd, ok := cmds[name]
		if !ok {
			c.printf("Perintah tidak dikenal: %s\n", name)
			continue
		}

		err = cmd.run(ctx, ctl, args)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, ErrLoggedOut):
			return ErrLoggedOut
		case err != nil:
			c.printError(err)
		}
	}
}

func (c *Console) endExpiredSession(ctx context.Context, ctl *dashboard.Controller) error {
	if err := ctl.EndSession(ctx); err != nil {
		return err
	}
	c.printf("Sesi telah berakhir. Silakan login kembali.\n")
	return ErrLoggedOut
}

// printError shows errors the controller has not already turned into
// notices.
func (c *Console) printError(err error) {
	var ve *forms.ValidationError
	var ue usageError
	switch {
	case errors.As(err, &ve):
		c.printf("Data tidak valid:\n")
		c.printFormErrors(err)
	case errors.As(err, &ue):
		c.printf("Penggunaan: %s\n", ue.usage)
	case errors.Is(err, dashboard.ErrCancelled):
		c.printf("Dibatalkan.\n")
	case errors.Is(err, dashboard.ErrBusy):
		c.printf("Masih diproses, tunggu sebentar.\n")
	case isGatewayError(err):
		// Already posted as a notice.
	default:
		c.printf("%s\n", err)
	}
}

type usageError struct{ usage string }

func (e usageError) Error() string { return "usage: " + e.usage }

func idArg(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, usageError{usage}
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError{usage}
	}
	return id, nil
}

func (c *Console) cmdItems(_ context.Context, ctl *dashboard.Controller, _ []string) error {
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdSearch(_ context.Context, ctl *dashboard.Controller, args []string) error {
	ctl.SetSearch(strings.Join(args, " "))
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdCategory(_ context.Context, ctl *dashboard.Controller, args []string) error {
	if len(args) != 1 {
		return usageError{"category <" + strings.Join(model.Categories, "|") + "|all>"}
	}
	if err := ctl.SetCategory(args[0]); err != nil {
		return err
	}
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdStatus(_ context.Context, ctl *dashboard.Controller, args []string) error {
	if len(args) != 1 {
		return usageError{"status <" + strings.Join(model.ItemStatuses, "|") + "|all>"}
	}
	if err := ctl.SetStatus(args[0]); err != nil {
		return err
	}
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdSort(_ context.Context, ctl *dashboard.Controller, args []string) error {
	if len(args) != 1 {
		return usageError{"sort <none|date_desc|date_asc|name_asc|name_desc>"}
	}
	key, ok := listing.ParseSortKey(args[0])
	if !ok {
		return fmt.Errorf("unknown sort key %q", args[0])
	}
	if err := ctl.SetSort(key); err != nil {
		return err
	}
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdPage(_ context.Context, ctl *dashboard.Controller, args []string) error {
	if len(args) != 1 {
		return usageError{"page <n>"}
	}
	p, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError{"page <n>"}
	}
	if !ctl.GoToPage(p) {
		c.printf("Halaman %d tidak ada.\n", p)
		return nil
	}
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdNext(_ context.Context, ctl *dashboard.Controller, _ []string) error {
	if !ctl.NextPage() {
		c.printf("Sudah di halaman terakhir.\n")
		return nil
	}
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdPrev(_ context.Context, ctl *dashboard.Controller, _ []string) error {
	if !ctl.PrevPage() {
		c.printf("Sudah di halaman pertama.\n")
		return nil
	}
	c.printItems(ctl.View())
	return nil
}

func (c *Console) cmdShow(_ context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "show <id>")
	if err != nil {
		return err
	}
	item, ok := ctl.FoundItem(id)
	if !ok {
		c.printf("Barang #%d tidak ditemukan.\n", id)
		return nil
	}
	c.printItem(item)
	return nil
}

func (c *Console) cmdAdd(ctx context.Context, ctl *dashboard.Controller, _ []string) error {
	form, err := c.readFoundItemForm(nil)
	if err != nil {
		return err
	}
	_, err = ctl.Create(ctx, form)
	return err
}

func (c *Console) cmdEdit(ctx context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "edit <id>")
	if err != nil {
		return err
	}
	item, ok := ctl.FoundItem(id)
	if !ok {
		c.printf("Barang #%d tidak ditemukan.\n", id)
		return nil
	}
	form, err := c.readFoundItemForm(&item)
	if err != nil {
		return err
	}
	if form.Empty() {
		c.printf("Tidak ada perubahan.\n")
		return nil
	}
	_, err = ctl.Update(ctx, id, form)
	return err
}

func (c *Console) cmdVerify(ctx context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "verify <id>")
	if err != nil {
		return err
	}
	return ctl.Verify(ctx, id)
}

func (c *Console) cmdUnverify(ctx context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "unverify <id>")
	if err != nil {
		return err
	}
	return ctl.Unverify(ctx, id)
}

func (c *Console) cmdRemove(ctx context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "rm <id>")
	if err != nil {
		return err
	}
	return ctl.Delete(ctx, id)
}

func (c *Console) cmdReports(_ context.Context, ctl *dashboard.Controller, _ []string) error {
	c.printReports(ctl.View())
	return nil
}

func (c *Console) cmdDone(ctx context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "done <id>")
	if err != nil {
		return err
	}
	return ctl.MarkReportDone(ctx, id)
}

func (c *Console) cmdUndone(ctx context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "undone <id>")
	if err != nil {
		return err
	}
	return ctl.MarkReportUndone(ctx, id)
}

func (c *Console) cmdRemoveReport(ctx context.Context, ctl *dashboard.Controller, args []string) error {
	id, err := idArg(args, "rmreport <id>")
	if err != nil {
		return err
	}
	return ctl.DeleteReport(ctx, id)
}

func (c *Console) cmdNotifications(_ context.Context, ctl *dashboard.Controller, _ []string) error {
	c.printNotifications(ctl.View())
	return nil
}

func (c *Console) cmdRead(_ context.Context, ctl *dashboard.Controller, args []string) error {
	if len(args) == 1 && args[0] == "all" {
		ctl.MarkAllNotificationsRead()
		return nil
	}
	id, err := idArg(args, "read <id|all>")
	if err != nil {
		return err
	}
	if !ctl.MarkNotificationRead(id) {
		c.printf("Notifikasi #%d tidak ada.\n", id)
	}
	return nil
}

func (c *Console) cmdRefresh(ctx context.Context, ctl *dashboard.Controller, _ []string) error {
	// Failures are posted as notices.
	ctl.RefreshFoundItems(ctx)
	ctl.RefreshReports(ctx)
	c.printSummary(ctl.View())
	return nil
}

func (c *Console) cmdLogout(ctx context.Context, ctl *dashboard.Controller, _ []string) error {
	if err := ctl.Logout(ctx); err != nil {
		return err
	}
	return ErrLoggedOut
}

func (c *Console) cmdHelp(context.Context, *dashboard.Controller, []string) error {
	c.printHelp(c.commands())
	return nil
}

func (c *Console) cmdQuit(context.Context, *dashboard.Controller, []string) error {
	return errQuit
}

// clearAnswer empties an optional field when editing.
const clearAnswer = "-"

// readFoundItemForm prompts for every field. With a current item, an
// empty answer keeps the stored value and clearAnswer empties an optional
// one; without a current item an empty answer leaves the field unset so
// validation reports it.
func (c *Console) readFoundItemForm(current *model.FoundItem) (forms.FoundItem, error) {
	var form forms.FoundItem
	prompts := []struct {
		label    string
		now      func(model.FoundItem) string
		target   **string
		optional bool
	}{
		{"Nama", func(it model.FoundItem) string { return it.Name }, &form.Name, false},
		{"Merek", func(it model.FoundItem) string { return it.Brand }, &form.Brand, true},
		{"Warna", func(it model.FoundItem) string { return it.Color }, &form.Color, true},
		{"Kategori (" + strings.Join(model.Categories, "/") + ")", func(it model.FoundItem) string { return it.Category }, &form.Category, false},
		{"Lokasi ditemukan", func(it model.FoundItem) string { return it.LocationFound }, &form.LocationFound, false},
		{"Tanggal ditemukan (YYYY-MM-DD)", func(it model.FoundItem) string { return it.FoundDate.String() }, &form.FoundDate, false},
		{"Deskripsi", func(it model.FoundItem) string { return it.Description }, &form.Description, true},
		{"Status (" + strings.Join(model.ItemStatuses, "/") + ")", func(it model.FoundItem) string { return it.Status }, &form.Status, false},
	}

	for _, p := range prompts {
		label := p.label
		if current != nil {
			label += " [" + p.now(*current) + "]"
		}
		answer, err := c.readLine(label + ": ")
		if err != nil {
			return forms.FoundItem{}, err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			continue
		}
		if current != nil && p.optional && answer == clearAnswer {
			if p.now(*current) != "" {
				*p.target = forms.String("")
			}
			continue
		}
		if current != nil && answer == p.now(*current) {
			continue
		}
		*p.target = forms.String(answer)
	}

	path, err := c.readLine("Foto (path file, kosongkan jika tidak ada): ")
	if err != nil {
		return forms.FoundItem{}, err
	}
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return forms.FoundItem{}, fmt.Errorf("reading photo: %w", err)
		}
		form.Photo = &forms.Photo{Filename: filepath.Base(path), Data: data}
	}
	return form, nil
}
