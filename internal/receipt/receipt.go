// Package receipt renders committed transactions as plain-text receipts.
package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fekuna/omnipos-workshop-pos/internal/model"
	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/money"
)

const (
	dateLayout = "02 Jan 2006 15:04"
	width      = 48
)

type Shop struct {
	Name     string
	Address  string
	Phone    string
	Location *time.Location
}

func (s Shop) withDefaults() Shop {
	if s.Name == "" {
		s.Name = "Bengkel POS"
	}
	if s.Address == "" {
		s.Address = "Jl. Workshop No. 123"
	}
	if s.Phone == "" {
		s.Phone = "0812-3456-7890"
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	return s
}

func center(s string) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

// Render lays out txn for a receipt printer.
func Render(txn *model.Transaction, shop Shop) string {
	shop = shop.withDefaults()
	rule := strings.Repeat("-", width)

	var b bytes.Buffer
	fmt.Fprintln(&b, center(shop.Name))
	fmt.Fprintln(&b, center(shop.Address))
	fmt.Fprintln(&b, center(shop.Phone))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Receipt #%s\n", txn.ID)
	fmt.Fprintf(&b, "Date: %s\n", txn.Date.In(shop.Location).Format(dateLayout))
	customer := "Walk-in Customer"
	if txn.CustomerName != nil {
		customer = *txn.CustomerName
	}
	fmt.Fprintf(&b, "Customer: %s\n", customer)
	fmt.Fprintln(&b, rule)

	tw := tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Item\tPrice\tQty\tTotal\t")
	for _, it := range txn.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t\n", it.Name, money.FormatIDR(it.Price), it.Quantity, money.FormatIDR(it.LineTotal()))
	}
	tw.Flush()

	fmt.Fprintln(&b, rule)
	tw = tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Subtotal:\t%s\t\n", money.FormatIDR(txn.Subtotal))
	fmt.Fprintf(tw, "Tax:\t%s\t\n", money.FormatIDR(txn.Tax))
	fmt.Fprintf(tw, "Discount:\t%s\t\n", money.FormatIDR(txn.Discount))
	fmt.Fprintf(tw, "Total:\t%s\t\n", money.FormatIDR(txn.Total))
	tw.Flush()

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, center("Thank you for your business!"))
	fmt.Fprintln(&b, center("Please come again!"))
	return b.String()
}
