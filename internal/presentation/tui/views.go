package tui

import (
	"fmt"
	"strings"

	"github.com/An-Noor-Team/An-Noor-Store/pkg/checkout"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
)

// escape keeps user-supplied text from breaking table cells.
func escape(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}

// ProductsMarkdown renders the catalog as a table.
func ProductsMarkdown(products []domain.Product) string {
	var b strings.Builder
	b.WriteString("# Catalog\n\n")
	b.WriteString("| ID | Name | MRP | Price |\n|---|---|---:|---:|\n")
	for _, p := range products {
		fmt.Fprintf(&b, "| `%s` | %s | ~~%s~~ | **%s** |\n",
			p.ID, escape(p.Name), domain.FormatAmount(p.MRP), domain.FormatAmount(p.Price))
	}
	return b.String()
}

// ProductMarkdown renders one product with its specs and description.
func ProductMarkdown(p domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)
	fmt.Fprintf(&b, "**%s** ~~%s~~\n\n", domain.FormatAmount(p.Price), domain.FormatAmount(p.MRP))
	if p.Short != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Short)
	}
	if len(p.Specs) > 0 {
		b.WriteString("## Specs\n\n")
		for _, s := range p.Specs {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n", p.Description)
	}
	return b.String()
}

// CartMarkdown renders the cart lines and subtotal.
func CartMarkdown(sessionID string, cart domain.Cart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Cart `%s`\n\n", sessionID)
	if cart.IsEmpty() {
		b.WriteString("Your cart is empty.\n")
		return b.String()
	}
	b.WriteString("| Product | Price | Qty | Total |\n|---|---:|---:|---:|\n")
	for _, item := range cart {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
			escape(item.Name), domain.FormatAmount(item.Price), item.Qty, domain.FormatAmount(item.LineTotal()))
	}
	fmt.Fprintf(&b, "\n**Subtotal:** %s (%d items)\n", domain.FormatAmount(cart.Subtotal()), cart.ItemCount())
	return b.String()
}

// QuoteMarkdown renders the totals for a zone.
func QuoteMarkdown(zone domain.Zone, totals domain.OrderTotals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Delivery: %s\n\n", zone.Label())
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Subtotal | %s |\n", domain.FormatAmount(totals.Subtotal))
	fmt.Fprintf(&b, "| Delivery | %s |\n", domain.FormatAmount(totals.DeliveryFee))
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", domain.FormatAmount(totals.Total))
	return b.String()
}

// PaymentMarkdown tells the shopper where to send a mobile money transfer.
// It is empty for cash on delivery.
func PaymentMarkdown(method domain.PaymentMethod, merchant domain.MerchantNumbers, total int64) string {
	number := merchant.For(method)
	if number == "" {
		return ""
	}
	return fmt.Sprintf("> Send **%s** via %s to `%s`, then enter the Trx ID and your sender number.\n",
		domain.FormatAmount(total), method, number)
}

// ReceiptMarkdown renders the outcome of a submission.
func ReceiptMarkdown(r checkout.Receipt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", r.Message)
	if r.Reference != "" {
		fmt.Fprintf(&b, "Reference: `%s`\n\n", r.Reference)
	}
	fmt.Fprintf(&b, "Total: **%s**\n", domain.FormatAmount(r.Totals.Total))
	return b.String()
}
