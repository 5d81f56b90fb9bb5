package comparison

import (
	"encoding/json"
	"strings"
	"testing"

	"ecom-support-widget/pkg/payload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products(names ...string) []payload.Product {
	out := make([]payload.Product, len(names))
	for i, n := range names {
		out[i] = payload.Product{Name: n}
	}
	return out
}

func TestMatchColumnsExact(t *testing.T) {
	table := []payload.Row{
		payload.NewRow("feature", "RAM", "Galaxy S24", "8 GB", "Pixel 9", "12 GB"),
	}
	mapping := MatchColumns(products("Galaxy S24", "Pixel 9"), table)

	assert.Equal(t, ColumnMapping{0: "Galaxy S24", 1: "Pixel 9"}, mapping)
}

func TestMatchColumnsTruncatedHeader(t *testing.T) {
	// Column key is a prefix of the full product name.
	table := []payload.Row{
		payload.NewRow("feature", "RAM", "Samsung Galaxy", "8 GB"),
	}
	mapping := MatchColumns(products("Samsung Galaxy S24 Ultra 5G"), table)

	key, ok := mapping.Key(0)
	require.True(t, ok)
	assert.Equal(t, "Samsung Galaxy", key)
}

func TestMatchColumnsNameIsPrefixOfKey(t *testing.T) {
	table := []payload.Row{
		payload.NewRow("feature", "RAM", "Pixel 9 Pro XL", "16 GB"),
	}
	mapping := MatchColumns(products("Pixel 9 Pro"), table)

	key, ok := mapping.Key(0)
	require.True(t, ok)
	assert.Equal(t, "Pixel 9 Pro XL", key)
}

func TestMatchColumnsProductIdInKey(t *testing.T) {
	table := []payload.Row{
		payload.NewRow("feature", "RAM", "item-88421", "8 GB"),
	}
	mapping := MatchColumns([]payload.Product{{ID: "88421", Name: "Totally Different Name"}}, table)

	key, ok := mapping.Key(0)
	require.True(t, ok)
	assert.Equal(t, "item-88421", key)
}

func TestMatchColumnsFuzzy(t *testing.T) {
	table := []payload.Row{
		payload.NewRow("feature", "RAM", "Galaxy S24 Ultra 256GB", "12 GB"),
	}
	mapping := MatchColumns(products("Samsung Galaxy S24 Ultra"), table)

	key, ok := mapping.Key(0)
	require.True(t, ok)
	assert.Equal(t, "Galaxy S24 Ultra 256GB", key)
}

func TestMatchColumnsPositionalFallback(t *testing.T) {
	// Nothing matches lexically; products claim columns in table order.
	table := []payload.Row{
		payload.NewRow("feature", "RAM", "Col One", "8 GB", "Col Two", "16 GB"),
	}
	mapping := MatchColumns(products("XXXX", "YYYY"), table)

	require.Len(t, mapping, 2)
	k0, _ := mapping.Key(0)
	k1, _ := mapping.Key(1)
	assert.Equal(t, "Col One", k0)
	assert.Equal(t, "Col Two", k1)
}

func TestMatchColumnsPositionalKeepsWireOrder(t *testing.T) {
	// Keys arrive in non-alphabetical order on the wire; the positional
	// fallback must follow that order, not a sorted one.
	var table []payload.Row
	require.NoError(t, json.Unmarshal(
		[]byte(`[{"feature":"RAM","Zeta":"8 GB","Alpha":"16 GB"}]`), &table))

	mapping := MatchColumns(products("ProductOne", "ProductTwo"), table)

	k0, _ := mapping.Key(0)
	k1, _ := mapping.Key(1)
	assert.Equal(t, "Zeta", k0)
	assert.Equal(t, "Alpha", k1)
}

func TestMatchColumnsMoreProductsThanColumns(t *testing.T) {
	table := []payload.Row{
		payload.NewRow("feature", "RAM", "Only Column", "8 GB"),
	}
	mapping := MatchColumns(products("XXXX", "YYYY", "ZZZZ"), table)

	// Only one column exists; only the first product lands on it.
	require.Len(t, mapping, 1)
	key, ok := mapping.Key(0)
	require.True(t, ok)
	assert.Equal(t, "Only Column", key)
}

func TestMatchColumnsEmptyTable(t *testing.T) {
	mapping := MatchColumns(products("A"), nil)
	assert.Empty(t, mapping)
}

func TestHeaderText(t *testing.T) {
	assert.Equal(t, "Short Name", HeaderText("Short Name"))

	long := strings.Repeat("x", 50)
	got := HeaderText(long)
	assert.Equal(t, strings.Repeat("x", 40)+"...", got)
}

func TestCellValue(t *testing.T) {
	row := payload.NewRow("feature", "RAM", "Galaxy", "8 GB", "Pixel", "")
	mapping := ColumnMapping{0: "Galaxy", 1: "Pixel"}

	assert.Equal(t, "8 GB", CellValue(row, mapping, 0))
	assert.Equal(t, "-", CellValue(row, mapping, 1), "empty cell renders placeholder")
	assert.Equal(t, "-", CellValue(row, mapping, 2), "unmapped product renders placeholder")
}
