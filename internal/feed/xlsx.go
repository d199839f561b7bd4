package feed

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/errors"
)

// ParseXLSX parses an xlsx catalog sheet. Expected columns on the first
// sheet: name, category, price, unit, alternates (alternates separated by
// "|"). A header row is detected by a non-numeric price cell in row one
// and skipped. Category and unit may be empty; an unparsable price cell
// yields a product with no price.
func ParseXLSX(path string) ([]catalog.Product, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFeedUnavailable, err.Error())
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Wrap(errors.ErrFeedUnavailable, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.ErrFeedUnavailable, err.Error())
	}

	var products []catalog.Product
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(cell(row, 0))
		if name == "" {
			continue
		}
		priceCell := strings.TrimSpace(cell(row, 2))
		price, priceOK := parseSheetPrice(priceCell)
		if i == 0 && !priceOK && priceCell != "" {
			// Header row ("price", "السعر", ...)
			continue
		}

		p := newProduct(name, strings.TrimSpace(cell(row, 1)), nil, cell(row, 3))
		if priceOK {
			p.Price = &price
		}
		if alts := strings.TrimSpace(cell(row, 4)); alts != "" {
			for _, alt := range strings.Split(alts, "|") {
				if alt = strings.TrimSpace(alt); alt != "" {
					p.Alternates = append(p.Alternates, alt)
				}
			}
		}
		products = append(products, p)
	}
	return products, nil
}

func parseSheetPrice(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p < 0 {
		return 0, false
	}
	return p, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
