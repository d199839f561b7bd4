// Package feed parses catalog source files into product records.
//
// Two formats are supported: the plain-text price list the shop maintains
// by hand, and an xlsx sheet exported from their stock program. The core
// never sees raw feed syntax; it consumes the []catalog.Product this
// package produces.
package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/errors"
)

// The price list mixes several hand-written line shapes:
//
//	التصنيف:                     a colon line without a price opens a category
//	بسبوسة سادة: 130 — كيلو      name, colon, price, dash, unit
//	كحك العيد	220	كيلو         tab-separated columns
//	كنافة 180 كيلو               name then trailing price and unit
//
// Lines that fit none of these become products without a price.

// priceRe extracts a trailing price and optional unit from a field like
// "130 — كيلو" or "35.5".
var priceRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:[:\-–—]\s*)?([A-Za-z\x{0600}-\x{06FF}%]*)$`)

// inlineRe matches "name 130 كيلو" style lines.
var inlineRe = regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)\s*([A-Za-z\x{0600}-\x{06FF}%]*)$`)

// parsePrice extracts (price, unit) from a price field. Returns ok=false
// when the field holds no number.
func parsePrice(field string) (price float64, unit string, ok bool) {
	field = strings.TrimSpace(strings.ReplaceAll(field, ",", ""))
	m := priceRe.FindStringSubmatch(field)
	if m == nil {
		return 0, "", false
	}
	p, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return p, strings.TrimSpace(m[2]), true
}

// ParseText parses the plain-text price list format.
func ParseText(r io.Reader) ([]catalog.Product, error) {
	var products []catalog.Product
	category := catalog.DefaultCategory

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.Contains(line, "\t") {
			parts := splitFields(line, "\t")
			if len(parts) >= 2 {
				if price, unit, ok := parsePrice(parts[len(parts)-1]); ok {
					name := parts[0]
					if len(parts) > 2 {
						// "category  name  ...  price" exports carry the
						// name in the second column
						name = parts[1]
					}
					products = append(products, newProduct(name, category, &price, unit))
					continue
				}
			}
			if len(parts) == 1 {
				category = parts[0]
				continue
			}
		}

		if name, rest, found := strings.Cut(line, ":"); found {
			name = strings.TrimSpace(name)
			if price, unit, ok := parsePrice(rest); ok {
				products = append(products, newProduct(name, category, &price, unit))
			} else {
				// A colon line without a price opens a category
				category = name
			}
			continue
		}

		if m := inlineRe.FindStringSubmatch(line); m != nil {
			price, _ := strconv.ParseFloat(m[2], 64)
			products = append(products, newProduct(m[1], category, &price, m[3]))
			continue
		}

		// Name-only line: listed but price not available
		products = append(products, newProduct(line, category, nil, ""))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read price list: %w", err)
	}
	return products, nil
}

// ParseFile parses a feed file, choosing the format by extension.
func ParseFile(path string) ([]catalog.Product, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ParseXLSX(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFeedUnavailable, err.Error())
	}
	defer func() { _ = f.Close() }()
	return ParseText(f)
}

// Loader returns a catalog.LoadFunc reading the feed file at path on
// every invocation, so an admin reload picks up edits.
func Loader(path string) catalog.LoadFunc {
	return func(context.Context) ([]catalog.Product, error) {
		return ParseFile(path)
	}
}

func newProduct(name, category string, price *float64, unit string) catalog.Product {
	p := catalog.Product{
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Price:    price,
	}
	if unit = strings.TrimSpace(unit); unit != "" {
		p.Unit = &unit
	}
	return p
}

func splitFields(line, sep string) []string {
	raw := strings.Split(line, sep)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
