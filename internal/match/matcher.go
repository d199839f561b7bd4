// Package match resolves normalized queries against the catalog index.
//
// Strategy, in strict priority order (the first tier that yields any
// result wins, later tiers are never attempted):
//
//  1. Exact normalized match (score 1.0, treated as certain)
//  2. Substring match in either direction (fixed score 0.9)
//  3. Edit-similarity ratio against every alias, top-K above the floor
//
// Ordering is deterministic: score descending, ties broken by alias
// registration order.
package match

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/misrsweets/sweetbot-go/internal/arabic"
	"github.com/misrsweets/sweetbot-go/internal/catalog"
)

// Strategy names the tier that produced a match result.
type Strategy string

const (
	StrategyExact     Strategy = "exact"
	StrategySubstring Strategy = "substring"
	StrategyRatio     Strategy = "ratio"
	StrategyNone      Strategy = "none"
)

// Fixed scores for the non-ratio tiers, on the same 0..1 scale the ratio
// tier produces. Substring sits below certain but above any sane
// confidence threshold.
const (
	ScoreExact     = 1.0
	ScoreSubstring = 0.9
)

// Candidate is one ranked match. Transient, produced per query.
type Candidate struct {
	Product *catalog.Product
	Alias   string  // the index key that produced the hit
	Score   float64 // 0..1 similarity
}

// Options are the matcher tunables. The thresholds varied across bot
// deployments, so they are configuration, not constants.
type Options struct {
	ConfidentThreshold float64 // At or above: eligible for a direct answer
	DiscardFloor       float64 // Below: dropped entirely, not even suggested
	TopK               int     // Maximum ratio-tier candidates kept
}

// DefaultOptions returns the recurring deployment values.
func DefaultOptions() Options {
	return Options{
		ConfidentThreshold: 0.62,
		DiscardFloor:       0.45,
		TopK:               4,
	}
}

// Confident reports whether a candidate is eligible for a direct answer.
func (o Options) Confident(c Candidate) bool {
	return c.Score >= o.ConfidentThreshold
}

// Match resolves a raw query against the index. The query is normalized
// internally (normalization is idempotent, so pre-normalized input is
// fine). An empty normalized query or an empty index yields no
// candidates, never an error.
func Match(query string, idx *catalog.Index, opts Options) ([]Candidate, Strategy) {
	q := arabic.Normalize(query)
	if q == "" || idx.Len() == 0 {
		return nil, StrategyNone
	}

	if p, ok := idx.LookupExact(q); ok {
		return []Candidate{{Product: p, Alias: q, Score: ScoreExact}}, StrategyExact
	}

	if cands := substringTier(q, idx); len(cands) > 0 {
		return cands, StrategySubstring
	}

	if cands := ratioTier(q, idx, opts); len(cands) > 0 {
		return cands, StrategyRatio
	}

	return nil, StrategyNone
}

// substringTier collects aliases that contain the query or are contained
// by it, in alias registration order, one candidate per product.
func substringTier(q string, idx *catalog.Index) []Candidate {
	var cands []Candidate
	seen := make(map[*catalog.Product]bool)
	for _, alias := range idx.Aliases() {
		if !strings.Contains(alias, q) && !strings.Contains(q, alias) {
			continue
		}
		p := idx.Get(alias)
		if seen[p] {
			continue
		}
		seen[p] = true
		cands = append(cands, Candidate{Product: p, Alias: alias, Score: ScoreSubstring})
	}
	return cands
}

// ratioTier scores every alias by edit similarity, keeps the best alias
// per product, drops scores below the floor and returns the top K.
func ratioTier(q string, idx *catalog.Index, opts Options) []Candidate {
	qRunes := strings.Split(q, "")

	best := make(map[*catalog.Product]Candidate)
	order := make([]*catalog.Product, 0)
	for _, alias := range idx.Aliases() {
		m := difflib.NewMatcher(qRunes, strings.Split(alias, ""))
		score := m.Ratio()
		if score < opts.DiscardFloor {
			continue
		}
		p := idx.Get(alias)
		prev, ok := best[p]
		if !ok {
			order = append(order, p)
		}
		if !ok || score > prev.Score {
			best[p] = Candidate{Product: p, Alias: alias, Score: score}
		}
	}

	cands := make([]Candidate, 0, len(order))
	for _, p := range order {
		cands = append(cands, best[p])
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})

	k := opts.TopK
	if k <= 0 {
		k = DefaultOptions().TopK
	}
	if len(cands) > k {
		cands = cands[:k]
	}
	return cands
}
