package console

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/findora/findora/internal/dashboard"
	"github.com/findora/findora/internal/gateway"
	"github.com/findora/findora/internal/model"
)

// helpOrder is the order commands are listed in.
var helpOrder = []string{
	"items", "search", "category", "status", "sort", "page", "next", "prev",
	"show", "add", "edit", "verify", "unverify", "rm",
	"reports", "done", "undone", "rmreport",
	"notif", "read", "refresh", "logout", "help", "quit",
}

// table writes aligned rows under the output lock.
func (c *Console) table(fn func(w io.Writer)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fn(tw)
	tw.Flush()
}

func (c *Console) printSummary(v dashboard.View) {
	c.printf("Total barang: %d  Hilang: %d  Ditemukan: %d  Terverifikasi: %d  Notifikasi belum dibaca: %d\n",
		v.Summary.Total, v.Summary.Lost, v.Summary.Found, v.Summary.Verified, v.Unread)
}

func (c *Console) printItems(v dashboard.View) {
	if !v.ItemsLoaded {
		c.printf("Data barang belum dimuat. Coba \"refresh\".\n")
		return
	}
	if v.Items.Matched == 0 {
		c.printf("Tidak ada barang yang cocok.\n")
		return
	}

	c.table(func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAMA\tKATEGORI\tLOKASI\tTANGGAL\tSTATUS\tVERIFIKASI")
		for _, it := range v.Items.Rows {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				it.ID, it.Name, it.Category, it.LocationFound, it.FoundDate, it.Status, verifiedLabel(it.Verified))
		}
	})
	c.printf("Halaman %d/%d (%d barang)\n", v.Items.Page, v.Items.PageCount, v.Items.Matched)
}

func (c *Console) printItem(it model.FoundItem) {
	c.table(func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%d\n", it.ID)
		fmt.Fprintf(w, "Nama:\t%s\n", it.Name)
		fmt.Fprintf(w, "Merek:\t%s\n", it.Brand)
		fmt.Fprintf(w, "Warna:\t%s\n", it.Color)
		fmt.Fprintf(w, "Kategori:\t%s\n", it.Category)
		fmt.Fprintf(w, "Lokasi:\t%s\n", it.LocationFound)
		fmt.Fprintf(w, "Tanggal:\t%s\n", it.FoundDate)
		fmt.Fprintf(w, "Deskripsi:\t%s\n", it.Description)
		fmt.Fprintf(w, "Status:\t%s\n", it.Status)
		fmt.Fprintf(w, "Verifikasi:\t%s\n", verifiedLabel(it.Verified))
		if it.PhotoURL != "" {
			fmt.Fprintf(w, "Foto:\t%s\n", it.PhotoURL)
		}
	})
}

func (c *Console) printReports(v dashboard.View) {
	if !v.ReportsLoaded {
		c.printf("Data laporan belum dimuat. Coba \"refresh\".\n")
		return
	}
	if len(v.Reports) == 0 {
		c.printf("Belum ada laporan kehilangan.\n")
		return
	}

	c.table(func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAMA\tNIM\tKONTAK\tKATEGORI\tTANGGAL HILANG\tSTATUS")
		for _, r := range v.Reports {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s / %s\t%s\t%s\t%s\n",
				r.ID, r.Name, r.NIM, r.Email, r.Phone, r.Category, r.LostDate, r.Status)
		}
	})
}

func (c *Console) printNotifications(v dashboard.View) {
	if len(v.Notifications) == 0 {
		c.printf("Tidak ada notifikasi.\n")
		return
	}

	c.table(func(w io.Writer) {
		for _, n := range v.Notifications {
			mark := " "
			if !n.Read {
				mark = "*"
			}
			fmt.Fprintf(w, "%s\t#%d\t%s\t%s\n", mark, n.ID, n.Date.Format("2006-01-02 15:04"), n.Message)
		}
	})
	c.printf("%d belum dibaca\n", v.Unread)
}

func (c *Console) printHelp(cmds map[string]command) {
	c.table(func(w io.Writer) {
		for _, name := range helpOrder {
			cmd := cmds[name]
			fmt.Fprintf(w, "  %s\t%s\n", cmd.usage, cmd.help)
		}
	})
}

func verifiedLabel(v bool) string {
	if v {
		return "Terverifikasi"
	}
	return "Belum"
}

// isGatewayError reports whether the controller has already posted err as
// a notice.
func isGatewayError(err error) bool {
	var (
		te *gateway.TransportError
		re *gateway.ResponseError
		de *gateway.DecodeError
	)
	return errors.As(err, &te) || errors.As(err, &re) || errors.As(err, &de)
}
