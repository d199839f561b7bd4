package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrsweets/sweetbot-go/internal/catalog"
	"github.com/misrsweets/sweetbot-go/internal/logger"
)

func price(v float64) *float64 { return &v }
func unit(s string) *string    { return &s }

func testIndex(t *testing.T) *catalog.Index {
	t.Helper()
	return catalog.Build([]catalog.Product{
		{Name: "بسبوسة سادة", Category: "حلويات شرقية", Price: price(130), Unit: unit("كيلو")},
		{Name: "بسبوسة بالقشطة", Category: "حلويات شرقية", Price: price(160), Unit: unit("كيلو")},
		{Name: "كحك العيد", Category: "مخبوزات", Price: price(220), Unit: unit("كيلو")},
		{Name: "كنافة بالمكسرات", Category: "حلويات شرقية", Price: price(180), Unit: unit("كيلو")},
	}, logger.New("error"))
}

func TestMatchExactWinsOverEverything(t *testing.T) {
	idx := testIndex(t)

	cands, strategy := Match("كحك العيد", idx, DefaultOptions())
	require.NotEmpty(t, cands)
	assert.Equal(t, StrategyExact, strategy)
	assert.Equal(t, "كحك العيد", cands[0].Product.Name)
	assert.Equal(t, ScoreExact, cands[0].Score)
	assert.Len(t, cands, 1)
}

func TestMatchExactAfterNormalizationFolding(t *testing.T) {
	idx := testIndex(t)

	// teh marbuta misspelling folds onto the canonical alias
	cands, strategy := Match("بسبوسه ساده", idx, DefaultOptions())
	require.NotEmpty(t, cands)
	assert.Equal(t, StrategyExact, strategy)
	assert.Equal(t, "بسبوسة سادة", cands[0].Product.Name)
}

func TestMatchSubstring(t *testing.T) {
	idx := testIndex(t)

	cands, strategy := Match("كحك", idx, DefaultOptions())
	require.NotEmpty(t, cands)
	assert.Equal(t, StrategySubstring, strategy)
	assert.Equal(t, "كحك العيد", cands[0].Product.Name)
	assert.Equal(t, ScoreSubstring, cands[0].Score)
}

func TestMatchSubstringCollectsAllHits(t *testing.T) {
	idx := testIndex(t)

	cands, strategy := Match("بسبوسة", idx, DefaultOptions())
	assert.Equal(t, StrategySubstring, strategy)
	require.Len(t, cands, 2)
	// Registration order is the tie-break
	assert.Equal(t, "بسبوسة سادة", cands[0].Product.Name)
	assert.Equal(t, "بسبوسة بالقشطة", cands[1].Product.Name)
}

func TestMatchRatioTier(t *testing.T) {
	idx := testIndex(t)

	// One letter off from كنافة بالمكسرات's short form; no exact or
	// substring hit, so the ratio tier must fire.
	cands, strategy := Match("كنافه بالمكسرالت", idx, DefaultOptions())
	require.NotEmpty(t, cands)
	assert.Equal(t, StrategyRatio, strategy)
	assert.Equal(t, "كنافة بالمكسرات", cands[0].Product.Name)
	assert.Greater(t, cands[0].Score, DefaultOptions().ConfidentThreshold)
}

func TestMatchDiscardFloor(t *testing.T) {
	idx := testIndex(t)

	cands, strategy := Match("xyz123", idx, DefaultOptions())
	assert.Empty(t, cands)
	assert.Equal(t, StrategyNone, strategy)
}

func TestMatchEmptyQuery(t *testing.T) {
	idx := testIndex(t)

	for _, q := range []string{"", "   ", "؟!،"} {
		cands, strategy := Match(q, idx, DefaultOptions())
		assert.Empty(t, cands, "query %q", q)
		assert.Equal(t, StrategyNone, strategy)
	}
}

func TestMatchEmptyIndex(t *testing.T) {
	idx := catalog.Build(nil, logger.New("error"))
	cands, strategy := Match("بسبوسة", idx, DefaultOptions())
	assert.Empty(t, cands)
	assert.Equal(t, StrategyNone, strategy)
}

func TestMatchDeterministicOrdering(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultOptions()

	first, _ := Match("بسبوسا", idx, opts)
	for range 10 {
		again, _ := Match("بسبوسا", idx, opts)
		require.Equal(t, len(first), len(again))
		for i := range first {
			assert.Equal(t, first[i].Product.Name, again[i].Product.Name)
			assert.Equal(t, first[i].Score, again[i].Score)
		}
	}
}

func TestMatchTopKLimit(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultOptions()
	opts.TopK = 1
	opts.DiscardFloor = 0.1

	cands, strategy := Match("بسبوسا بالقشطا", idx, opts)
	assert.Equal(t, StrategyRatio, strategy)
	assert.Len(t, cands, 1)
}
