package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"atelier-storefront/internal/domain"
)

type ProductWriter interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter bulk-loads the product catalog from a CSV export.
//
// Expected header: name, description, price_cents, daily_rental_price_cents,
// stock_quantity, for_sale, for_rent, customizable, images. The images column
// holds URLs separated by "|".
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		products: products,
	}
}

// Run parses CSV rows and creates one product per row. It stops at the first
// invalid row so a bad export does not half-load.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}
		if _, err := i.products.Create(ctx, *p); err != nil {
			return imported, fmt.Errorf("create product %q: %w", p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	name := pick(record, index, "name")
	if name == "" {
		return nil, nil
	}

	price, err := pickInt(record, index, "price_cents")
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", name, err)
	}
	daily, err := pickInt(record, index, "daily_rental_price_cents")
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", name, err)
	}
	stock, err := pickInt(record, index, "stock_quantity")
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", name, err)
	}

	p := &domain.Product{
		Name:                  name,
		Description:           pick(record, index, "description"),
		PriceCents:            price,
		DailyRentalPriceCents: daily,
		StockQuantity:         int(stock),
		ForSale:               pickBool(record, index, "for_sale"),
		ForRent:               pickBool(record, index, "for_rent"),
		Customizable:          pickBool(record, index, "customizable"),
	}
	if raw := pick(record, index, "images"); raw != "" {
		for _, u := range strings.Split(raw, "|") {
			if u = strings.TrimSpace(u); u != "" {
				p.Images = append(p.Images, u)
			}
		}
	}

	if !p.ForSale && !p.ForRent {
		return nil, fmt.Errorf("product %q: neither for_sale nor for_rent", name)
	}
	if p.ForSale && p.PriceCents <= 0 {
		return nil, fmt.Errorf("product %q: missing sale price", name)
	}
	if p.ForRent && p.DailyRentalPriceCents <= 0 {
		return nil, fmt.Errorf("product %q: missing daily rental price", name)
	}
	return p, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func pickInt(record []string, index map[string]int, key string) (int64, error) {
	raw := pick(record, index, key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func pickBool(record []string, index map[string]int, key string) bool {
	switch strings.ToLower(pick(record, index, key)) {
	case "1", "true", "yes", "oui":
		return true
	}
	return false
}
