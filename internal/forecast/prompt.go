package forecast

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wonny/warehouse/internal/contracts"
)

const structuredInstructions = `You are a warehouse logistics analyst. Based on the recent inventory scans below, ` +
	`estimate restocking needs for each product.
Respond ONLY with a JSON array and no other text. Each element must be an object:
{"product_id": "<id>", "days_until_stockout": <integer>, "recommended_order": <integer>, "confidence": <number between 0 and 1>}`

const narrativeInstructions = `You are a logistics analyst. Based on the goods receipts below, give a short forecast: ` +
	`which products will be needed soon, with purchasing and logistics recommendations. Answer in Russian, structured.`

// BuildPrompt renders the structured JSON-array prompt.
// Product names come from the catalog; unmatched ids are shown as-is.
func BuildPrompt(window []contracts.ScanEvent, catalog []contracts.Product) string {
	names := make(map[string]string, len(catalog))
	for i := range catalog {
		names[catalog[i].ID] = catalog[i].DisplayName()
	}

	var b strings.Builder
	b.WriteString(structuredInstructions)
	b.WriteString("\n\nRecent inventory scans (newest first):\n")
	for _, e := range window {
		name, ok := names[e.ProductID]
		if !ok {
			name = e.ProductID
		}
		fmt.Fprintf(&b, "- %s (product_id: %s): quantity %s, zone %s row %d shelf %d, status %s, scanned %s\n",
			name, e.ProductID, rawQuantity(e.Quantity), e.Zone, e.RowNumber, e.ShelfNumber, e.Status, e.ScannedAt)
	}
	return b.String()
}

// BuildNarrativePrompt renders the free-text prompt over recent receipts
func BuildNarrativePrompt(receipts []contracts.Receipt) string {
	var b strings.Builder
	b.WriteString(narrativeInstructions)
	b.WriteString("\n\nWarehouse receipts:\n\n")
	for _, r := range receipts {
		supplier := r.Supplier
		if supplier == "" {
			supplier = "-"
		}
		fmt.Fprintf(&b, "- %s: %d pcs (date: %s, supplier: %s)\n",
			r.ProductName, r.Quantity, r.ReceiptDate.Format("02.01.2006"), supplier)
	}
	b.WriteString("\nWrite the forecast.")
	return b.String()
}

// rawQuantity shows the reported value without coercion
func rawQuantity(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
