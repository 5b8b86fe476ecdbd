package main

import (
	"fmt"
	"image/png"
	"os"
	"strconv"

	"invoice_manager/internal/barcode"

	"github.com/spf13/cobra"
)

var barcodeCmd = &cobra.Command{
	Use:   "barcode",
	Short: "Build a Finnish bank payment barcode",
	Long: `Print the 54-digit virtual barcode (pankkiviivakoodi) for a payment.

References starting with RF are encoded as creditor references, anything
else as a national reference. Use --reference-base to derive the reference
from an invoice number instead.`,
	Example: `  invoicectl barcode --iban "FI58 1017 1000 0001 22" --amount 482.99 \
    --reference 123453 --due 2024-06-30

  # Also write a Code 128 image
  invoicectl barcode --iban FI5810171000000122 --amount 10 --reference-base 1000 --png code.png`,
	Args: cobra.NoArgs,
	RunE: runBarcode,
}

func init() {
	rootCmd.AddCommand(barcodeCmd)

	barcodeCmd.Flags().String("iban", "", "Finnish IBAN of the recipient")
	barcodeCmd.Flags().String("amount", "", "Amount in euros, e.g. 482.99")
	barcodeCmd.Flags().String("reference", "", "National or RF payment reference")
	barcodeCmd.Flags().Int64("reference-base", 0, "Derive a national reference from this number")
	barcodeCmd.Flags().Bool("rf", false, "Convert a derived reference to RF form")
	barcodeCmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	barcodeCmd.Flags().String("png", "", "Also write the barcode image to this file")
	barcodeCmd.MarkFlagRequired("iban")
}

func runBarcode(cmd *cobra.Command, args []string) error {
	iban, _ := cmd.Flags().GetString("iban")
	amount, _ := cmd.Flags().GetString("amount")
	reference, _ := cmd.Flags().GetString("reference")
	base, _ := cmd.Flags().GetInt64("reference-base")
	rf, _ := cmd.Flags().GetBool("rf")
	due, _ := cmd.Flags().GetString("due")
	pngPath, _ := cmd.Flags().GetString("png")

	if base > 0 {
		ref, err := barcode.NationalReference(strconv.FormatInt(base, 10))
		if err != nil {
			return err
		}
		if rf {
			if ref, err = barcode.RFReference(ref); err != nil {
				return err
			}
		}
		reference = ref
	}

	payload, err := barcode.Build(iban, amount, reference, due)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reference: %s\n", reference)
	fmt.Fprintln(out, payload)

	if pngPath == "" {
		return nil
	}
	img, err := barcode.Image(payload, 600, 80)
	if err != nil {
		return err
	}
	f, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", pngPath, err)
	}
	defer f.Close()
	return png.Encode(f, img)
}
