package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misrsweets/sweetbot-go/internal/arabic"
	"github.com/misrsweets/sweetbot-go/internal/logger"
)

func price(v float64) *float64 { return &v }
func unit(s string) *string    { return &s }

func testProducts() []Product {
	return []Product{
		{Name: "بسبوسة سادة", Category: "حلويات شرقية", Price: price(130), Unit: unit("كيلو")},
		{Name: "كحك العيد", Category: "مخبوزات", Price: price(220), Unit: unit("كيلو"), Alternates: []string{"كحك"}},
		{Name: "آيس كريم فانيليا", Price: price(35.5), Unit: unit("كوب")},
		{Name: "تورتة شيكولاتة"}, // no price, no unit
	}
}

func TestBuildRegistersNormalizedAliases(t *testing.T) {
	idx := Build(testProducts(), logger.New("error"))

	require.Equal(t, 4, idx.Len())

	// Own normalized name
	p, ok := idx.LookupExact(arabic.Normalize("بسبوسة سادة"))
	require.True(t, ok)
	assert.Equal(t, "بسبوسة سادة", p.Name)

	// Spaceless variant
	_, ok = idx.LookupExact("بسبوسهساده")
	assert.True(t, ok)

	// Declared alternate
	p, ok = idx.LookupExact("كحك")
	require.True(t, ok)
	assert.Equal(t, "كحك العيد", p.Name)

	// Misspelling that normalization folds onto the canonical form
	_, ok = idx.LookupExact(arabic.Normalize("بسبوسه ساده"))
	assert.True(t, ok)
}

func TestBuildDefaultsCategory(t *testing.T) {
	idx := Build(testProducts(), logger.New("error"))

	p, ok := idx.LookupExact(arabic.Normalize("آيس كريم فانيليا"))
	require.True(t, ok)
	assert.Equal(t, DefaultCategory, p.Category)
}

func TestBuildLastWriteWinsOnCollision(t *testing.T) {
	src := []Product{
		{Name: "كنافة", Price: price(100)},
		{Name: "كنافه", Price: price(150)}, // normalizes to the same alias
	}
	idx := Build(src, logger.New("error"))

	p, ok := idx.LookupExact("كنافه")
	require.True(t, ok)
	require.True(t, p.HasPrice())
	assert.Equal(t, 150.0, *p.Price)
}

func TestBuildSkipsUnnameableProducts(t *testing.T) {
	src := []Product{
		{Name: "؟！", Price: price(10)}, // punctuation-only name
		{Name: "بسبوسة"},
	}
	idx := Build(src, logger.New("error"))
	assert.Equal(t, 1, idx.Len())
}

func TestAliasOrderIsStable(t *testing.T) {
	idx := Build(testProducts(), logger.New("error"))
	first := append([]string(nil), idx.Aliases()...)

	again := Build(testProducts(), logger.New("error"))
	assert.Equal(t, first, again.Aliases())
}
