package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/An-Noor-Team/An-Noor-Store/internal/cli"
	"github.com/An-Noor-Team/An-Noor-Store/internal/presentation/tui"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/checkout"
	"github.com/An-Noor-Team/An-Noor-Store/pkg/domain"
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Price and submit the cart",
}

var checkoutQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Show subtotal, delivery fee and total for a zone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		zoneFlag, _ := cmd.Flags().GetString("zone")
		zone, err := domain.ParseZone(zoneFlag)
		if err != nil {
			return err
		}

		rt, err := newRuntime(cmd, cli.Options{})
		if err != nil {
			return err
		}
		defer rt.Close()

		totals, err := rt.Shop.Quote(cmd.Context(), sessionFlag(cmd), zone)
		if err != nil {
			return err
		}
		md := tui.QuoteMarkdown(zone, totals)
		if method, err := domain.ParsePaymentMethod(mustString(cmd, "payment")); err == nil {
			md += "\n" + tui.PaymentMarkdown(method, rt.Config.Merchant, totals.Total)
		}
		return output(cmd, totals, md)
	},
}

var checkoutSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the cart as an order",
	Long: `Submit the cart with the shipping details as an order.

The cart is kept after submission whatever the outcome. With --dry-run the
order is printed to stderr instead of being sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		redact, _ := cmd.Flags().GetBool("redact")

		rt, err := newRuntime(cmd, cli.Options{DryRun: dryRun, Redact: redact, Stdout: cmd.ErrOrStderr()})
		if err != nil {
			return err
		}
		defer rt.Close()

		form := checkout.Form{
			Zone:    mustString(cmd, "zone"),
			Payment: mustString(cmd, "payment"),
			Name:    mustString(cmd, "name"),
			Phone:   mustString(cmd, "phone"),
			Address: mustString(cmd, "address"),
			Notes:   mustString(cmd, "notes"),
			TrxID:   mustString(cmd, "trx-id"),
			Sender:  mustString(cmd, "sender"),
		}

		receipt, err := rt.Shop.Checkout(cmd.Context(), sessionFlag(cmd), form)
		var verr *checkout.ValidationError
		switch {
		case err == nil:
			return output(cmd, receipt, tui.ReceiptMarkdown(receipt))
		case errors.As(err, &verr):
			lines := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				lines = append(lines, fmt.Sprintf("  --%s %s", flagName(f.Field), f.Message))
			}
			return fmt.Errorf("%w:\n%s", checkout.ErrInvalidForm, strings.Join(lines, "\n"))
		case errors.Is(err, domain.ErrSubmissionFailed):
			_ = output(cmd, receipt, tui.ReceiptMarkdown(receipt))
			return err
		default:
			return err
		}
	},
}

// flagName maps a form field to the flag that sets it.
func flagName(field string) string {
	switch field {
	case "trx_id":
		return "trx-id"
	case "sender_number":
		return "sender"
	default:
		return field
	}
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
	checkoutCmd.AddCommand(checkoutQuoteCmd)
	checkoutCmd.AddCommand(checkoutSubmitCmd)

	checkoutCmd.PersistentFlags().String("zone", string(domain.ZoneInside), "Delivery zone: inside or outside (Dhaka)")
	checkoutCmd.PersistentFlags().String("payment", string(domain.PaymentCOD), "Payment method: bKash, Nagad or COD")

	f := checkoutSubmitCmd.Flags()
	f.String("name", "", "Recipient name")
	f.String("phone", "", "Contact phone")
	f.String("address", "", "Delivery address")
	f.String("notes", "", "Delivery notes")
	f.String("trx-id", "", "Mobile money transaction id (bKash/Nagad)")
	f.String("sender", "", "Mobile money sender number (bKash/Nagad)")
	f.Bool("dry-run", false, "Print the order instead of sending it")
	f.Bool("redact", false, "Mask shopper details in the printed order")
}
