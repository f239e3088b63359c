// Package render turns finalized invoices into operator-facing artifacts: the
// printable HTML bill, a plain-text preview for the terminal, and an xlsx
// export of per-layer details for the accountant.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tailorbill/backend/internal/billing"
	"tailorbill/backend/internal/domain"
)

// BuildDocument aggregates everything the printed bill shows. Tax ("other
// charges") is taxRatePercent of the grand total, rounded to two decimals
// with decimal arithmetic so 33.335 does not print as 33.33 on one terminal
// and 33.34 on another. The invoice value and amount receivable are both the
// total with tax added; the bill prints them as separate rows.
func BuildDocument(
	invoice domain.Invoice,
	byPattern []domain.PatternTotal,
	client domain.ClientDetail,
	company domain.CompanyDetail,
	taxRatePercent float64,
) domain.InvoiceDocument {
	total := float64(invoice.GrandTotal)
	tax := decimal.NewFromFloat(total).
		Mul(decimal.NewFromFloat(taxRatePercent)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
	receivable := total + tax

	return domain.InvoiceDocument{
		CompanyName:        company.Name,
		AddressLine1:       company.AddressLine1,
		AddressLine2:       company.AddressLine2,
		GSTN:               company.GSTN,
		ClientName:         client.Name,
		ClientState:        client.State,
		ClientEmail:        client.Email,
		ClientPhone:        client.PhoneNumber,
		BillNo:             invoice.BillNo,
		BillDate:           invoice.BillDate.Format("02-01-2006"),
		DressRecords:       byPattern,
		TotalCostForClient: total,
		OtherCharges:       tax,
		InvoiceValue:       receivable,
		AmountReceivable:   receivable,
		TotalInWords:       billing.NumberToWords(receivable),
	}
}

// invoiceHTMLTmpl renders the printable bill. All user-controlled fields are
// auto-escaped by html/template.
var invoiceHTMLTmpl = template.Must(template.New("invoice").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.BillNo}}</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2, h3 { margin-bottom: 4px; }
    .totals td { font-weight: bold; }
  </style>
</head>
<body>
  <h2>{{.CompanyName}}</h2>
  <p>{{.AddressLine1}}<br/>{{.AddressLine2}}</p>
  <p>GSTN: {{.GSTN}}</p>

  <h3>Invoice {{.BillNo}}</h3>
  <p>Date: {{.BillDate}}</p>
  <p>Bill To: {{.ClientName}}{{if .ClientState}}, {{.ClientState}}{{end}}<br/>
  {{if .ClientEmail}}{{.ClientEmail}}<br/>{{end}}{{if .ClientPhone}}{{.ClientPhone}}{{end}}</p>

  <table>
    <thead><tr><th>S.No</th><th>Dress Pattern</th><th style="text-align:right;">Total Cost</th></tr></thead>
    <tbody>{{range .DressRecords}}<tr><td>{{.SNo}}</td><td>{{.DressPattern}}</td><td style="text-align:right;">{{printf "%.2f" .TotalCost}}</td></tr>{{end}}</tbody>
  </table>

  <table class="totals">
    <tbody>
      <tr><td>Total Cost</td><td style="text-align:right;">{{printf "%.2f" .TotalCostForClient}}</td></tr>
      <tr><td>Other Charges</td><td style="text-align:right;">{{printf "%.2f" .OtherCharges}}</td></tr>
      <tr><td>Invoice Value</td><td style="text-align:right;">{{printf "%.2f" .InvoiceValue}}</td></tr>
      <tr><td>Amount Receivable</td><td style="text-align:right;">{{printf "%.2f" .AmountReceivable}}</td></tr>
    </tbody>
  </table>

  <p><em>{{.TotalInWords}}{{if .TotalInWords}} Rupees Only{{end}}</em></p>
</body>
</html>
`))

func InvoiceHTML(doc domain.InvoiceDocument) string {
	var buf bytes.Buffer
	if err := invoiceHTMLTmpl.Execute(&buf, doc); err != nil {
		return "<!doctype html><html><body><p>Invoice rendering error.</p></body></html>"
	}
	return buf.String()
}

// PlainTextSummary is the terminal preview of a draft or finalized bill: the
// pattern totals table and the grand total with its words rendering.
func PlainTextSummary(billNo string, byPattern []domain.PatternTotal, grandTotal float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bill No: %s\n", billNo)
	fmt.Fprintf(&b, "%-5s %-40s %12s\n", "S.No", "Dress Pattern", "Total Cost")
	for _, row := range byPattern {
		fmt.Fprintf(&b, "%-5d %-40s %12.2f\n", row.SNo, row.DressPattern, row.TotalCost)
	}
	fmt.Fprintf(&b, "%-46s %12.2f\n", "Grand Total", grandTotal)
	if words := billing.NumberToWords(grandTotal); words != "" {
		fmt.Fprintf(&b, "In Words: %s Rupees Only\n", words)
	}
	return b.String()
}

var exportHeader = []any{
	"bill_no", "client_name", "bill_date",
	"dress_pattern", "piece_name", "layer_name", "total_cost",
	"layer_qnty", "layer_price", "machine_hours", "machine_cost",
	"embroidery_hours", "embroidery_cost", "embroidery_material_cost",
	"dying_charges", "other_cost", "fixed_cost", "accessories",
}

// ExportBillDetails writes one row per line item of the bill to a fresh xlsx
// workbook and returns the encoded bytes.
func ExportBillDetails(record domain.BillRecord, clientName string, billDate string) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Bill Details"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	if err := file.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, item := range record.LineItems {
		row := []any{
			record.BillNo, clientName, billDate,
			item.DressPattern, item.PieceName, item.LayerName, float64(item.TotalCost),
			float64(item.LayerQuantity), float64(item.LayerPrice),
			float64(item.MachineHours), float64(item.MachineCost),
			float64(item.EmbroideryHours), float64(item.EmbroideryCost), float64(item.EmbroideryMaterialCost),
			float64(item.DyingCharges), float64(item.OtherCost), float64(item.FixedCost),
			formatAccessories(item.Accessories),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAccessories(entries []domain.AccessoryEntry) string {
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, fmt.Sprintf("%s x%.0f @%.2f", entry.Name, float64(entry.Quantity), float64(entry.Price)))
	}
	return strings.Join(parts, "; ")
}
