// Package catalog holds the in-memory product index the matcher runs
// against. An Index maps every normalized alias of a product (its name,
// its spaceless name and any declared alternates) to one immutable
// Product. Indexes are built once and never mutated; reloads build a new
// Index and swap it in atomically via Store.
package catalog

import (
	"github.com/misrsweets/sweetbot-go/internal/arabic"
	"github.com/misrsweets/sweetbot-go/internal/logger"
)

// DefaultCategory is the sentinel category for products declared without one.
const DefaultCategory = "عام"

// Product is a single catalog entry. Price and Unit are optional: a nil
// Price means "not available", a nil Unit means "unspecified". Products
// are immutable once loaded and replaced wholesale on reload.
type Product struct {
	Name       string
	Category   string
	Price      *float64
	Unit       *string
	Alternates []string // declared alternate names, consumed at build time only
}

// HasPrice reports whether the product has a known price.
func (p *Product) HasPrice() bool {
	return p != nil && p.Price != nil
}

// Index is an immutable mapping from normalized aliases to products.
type Index struct {
	byAlias  map[string]*Product
	aliases  []string   // registration order, the stable iteration order for matching
	products []*Product // source order, distinct
}

// Build constructs an Index from source records.
//
// For each record it registers the normalized name, the normalized name
// with internal spaces removed, and the normalized form of every declared
// alternate. When two distinct records normalize to the same alias the
// later record wins; this inherits the source data's ambiguity, so the
// collision is logged instead of resolved differently.
func Build(src []Product, log *logger.Logger) *Index {
	idx := &Index{
		byAlias: make(map[string]*Product, len(src)*2),
	}

	for i := range src {
		rec := src[i]
		if rec.Category == "" {
			rec.Category = DefaultCategory
		}
		name := arabic.Normalize(rec.Name)
		if name == "" {
			log.WithModule("catalog").WithField("name", rec.Name).
				Warn("Skipping product whose name normalizes to empty")
			continue
		}

		p := &rec
		idx.products = append(idx.products, p)
		idx.register(name, p, log)
		idx.register(spaceless(name), p, log)
		for _, alt := range rec.Alternates {
			idx.register(arabic.Normalize(alt), p, log)
		}
	}

	return idx
}

func (idx *Index) register(alias string, p *Product, log *logger.Logger) {
	if alias == "" {
		return
	}
	if prev, ok := idx.byAlias[alias]; ok {
		if prev != p {
			log.WithModule("catalog").
				WithField("alias", alias).
				WithField("kept", p.Name).
				WithField("shadowed", prev.Name).
				Warn("Alias collision, last record wins")
			idx.byAlias[alias] = p
		}
		return
	}
	idx.byAlias[alias] = p
	idx.aliases = append(idx.aliases, alias)
}

// LookupExact returns the product registered under a normalized alias.
func (idx *Index) LookupExact(normalizedQuery string) (*Product, bool) {
	p, ok := idx.byAlias[normalizedQuery]
	return p, ok
}

// Aliases returns every alias in registration order. Callers must not
// modify the returned slice.
func (idx *Index) Aliases() []string {
	return idx.aliases
}

// Get returns the product for an alias, nil if absent.
func (idx *Index) Get(alias string) *Product {
	return idx.byAlias[alias]
}

// Products returns the distinct products in source order. Callers must
// not modify the returned slice.
func (idx *Index) Products() []*Product {
	return idx.products
}

// Len returns the number of distinct products.
func (idx *Index) Len() int {
	return len(idx.products)
}

func spaceless(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
