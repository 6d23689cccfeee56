package invoice

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Render produces the invoice PDF: header, seller and customer blocks, the
// line table (designation / qty / unit HT / TVA / TTC) and a totals footer
// with the legal mentions.
func Render(doc Document, shop ShopInfo) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Facture %s", doc.Number), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(120, 10, shop.LegalName)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Facture %s", doc.Number), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if shop.Address != "" {
		pdf.Cell(0, 5, shop.Address)
		pdf.Ln(5)
	}
	if shop.SIRET != "" {
		pdf.Cell(0, 5, "SIRET : "+shop.SIRET)
		pdf.Ln(5)
	}
	pdf.CellFormat(0, 5, "Date : "+doc.IssuedAt.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Client")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	if doc.CustomerName != "" {
		pdf.Cell(0, 5, doc.CustomerName)
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, doc.CustomerEmail)
	pdf.Ln(10)

	colWidths := []float64{80, 18, 28, 32, 32}
	headers := []string{"Désignation", "Qté", "PU HT", "Total HT", "Total TTC"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		pdf.CellFormat(colWidths[0], 7, line.Designation, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 7, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 7, euros(line.UnitPriceCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, euros(line.TotalCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 7, euros(ttc(line.TotalCents, shop.VATRatePercent)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	totals := [][2]string{
		{"Sous-total HT", euros(doc.SubtotalCents)},
	}
	if doc.DiscountCents > 0 {
		totals = append(totals, [2]string{"Remise", "-" + euros(doc.DiscountCents)})
	}
	if doc.ShippingCents > 0 {
		totals = append(totals, [2]string{"Livraison", euros(doc.ShippingCents)})
	}
	if doc.DepositCents > 0 {
		totals = append(totals, [2]string{"Caution", euros(doc.DepositCents)})
	}
	totals = append(totals,
		[2]string{"Total HT", euros(doc.TotalCents)},
		[2]string{fmt.Sprintf("TVA (%d%%)", shop.VATRatePercent), euros(ttc(doc.TotalCents, shop.VATRatePercent) - doc.TotalCents)},
		[2]string{"Total TTC", euros(ttc(doc.TotalCents, shop.VATRatePercent))},
	)

	for i, row := range totals {
		style := ""
		if i >= len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(158, 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(32, 6, row[1], "", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.MultiCell(0, 4, "TVA non applicable sauf mention contraire. Paiement reçu via prestataire de paiement en ligne. "+
		"En cas de retard de paiement, indemnité forfaitaire pour frais de recouvrement : 40 EUR (art. L441-10 du Code de commerce).", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", doc.Number, err)
	}
	return buf.Bytes(), nil
}
