// Package receipt renders checkout results as printable text.
package receipt

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/AJFrosty/YouWee/internal/domain"
)

const banner = "YOUWEE"

// Render formats a receipt for printing. The grand total is printed as
// computed, even when a discount pushes it negative.
func Render(d domain.ReceiptData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\t\t%s\n\t\tRECEIPT\n", banner)
	fmt.Fprintf(&b, "Member ID: %s\n", d.MemberID)
	fmt.Fprintf(&b, "Transaction: %s\n", d.TransactionID)
	fmt.Fprintf(&b, "Date: %s\n\n", d.Date.Format("2006-01-02 15:04:05"))

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Item\tUnit Price\tQuantity\tTotal")
	for _, line := range d.Lines {
		fmt.Fprintf(w, "%s\t$%s\t%d\t$%s\n",
			line.Name, line.UnitPrice.StringFixed(2), line.Quantity, line.LineTotal.StringFixed(2))
	}
	w.Flush()

	fmt.Fprintf(&b, "\nTOTAL: $%s\n", d.Total.StringFixed(2))
	fmt.Fprintf(&b, "Discount: $%s\n", d.Discount.StringFixed(2))
	fmt.Fprintf(&b, "GRAND TOTAL: $%s\n", d.GrandTotal.StringFixed(2))
	fmt.Fprintf(&b, "\nPOINTS EARNED: %d\n", d.PointsEarned)

	return b.String()
}
