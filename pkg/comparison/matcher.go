// Package comparison resolves which comparison-table column belongs to which
// product. Backend table headers are not guaranteed to equal product names,
// so matching walks an ordered chain of strategies from exact to positional.
package comparison

import (
	"strings"

	"ecom-support-widget/pkg/payload"
)

// fuzzyThreshold is the minimum token-overlap score a fuzzy match must reach.
const fuzzyThreshold = 0.3

// headerMaxLen caps header cell text; the full name travels as a tooltip.
const headerMaxLen = 40

// ColumnMapping relates each product (by its index in the input slice) to the
// table column key holding its values. A missing entry means no column
// matched and the product's cells render as placeholders.
type ColumnMapping map[int]string

// Key returns the mapped column key for product index i.
func (m ColumnMapping) Key(i int) (string, bool) {
	k, ok := m[i]
	return k, ok
}

// MatchColumns builds the product-to-column mapping for one comparison
// render. It is pure and deterministic for a given input.
func MatchColumns(products []payload.Product, table []payload.Row) ColumnMapping {
	mapping := make(ColumnMapping, len(products))
	if len(table) == 0 {
		return mapping
	}
	keys := columnKeys(table[0])
	claimed := make(map[string]bool, len(keys))

	for i, product := range products {
		if key, ok := matchProduct(product, i, keys, claimed); ok {
			mapping[i] = key
			claimed[key] = true
		}
	}
	return mapping
}

// matchProduct tries each strategy in strict order; the first success wins.
func matchProduct(product payload.Product, index int, keys []string, claimed map[string]bool) (string, bool) {
	name := product.DisplayName()

	// 1. Exact match on the display name.
	for _, key := range keys {
		if key == name {
			return key, true
		}
	}

	// 2. Column key is a prefix of the name (truncated headers).
	for _, key := range keys {
		if strings.HasPrefix(name, key) {
			return key, true
		}
	}

	// 3. Name is a prefix of the column key.
	for _, key := range keys {
		if strings.HasPrefix(key, name) {
			return key, true
		}
	}

	// 4. Column key contains the product id.
	if product.ID != "" {
		for _, key := range keys {
			if strings.Contains(key, product.ID) {
				return key, true
			}
		}
	}

	// 5. Fuzzy token overlap against unclaimed keys.
	if key, ok := fuzzyMatch(name, keys, claimed); ok {
		return key, true
	}

	// 6. Positional fallback into the unclaimed keys in table order.
	if index < len(keys) {
		if !claimed[keys[index]] {
			return keys[index], true
		}
		for _, key := range keys {
			if !claimed[key] {
				return key, true
			}
		}
	}

	return "", false
}

// fuzzyMatch scores each unclaimed key by shared-token ratio and accepts the
// best one above the threshold.
func fuzzyMatch(name string, keys []string, claimed map[string]bool) (string, bool) {
	nameTokens := tokenize(name)
	if len(nameTokens) == 0 {
		return "", false
	}

	bestKey := ""
	bestScore := 0.0
	for _, key := range keys {
		if claimed[key] {
			continue
		}
		keyTokens := tokenize(key)
		if len(keyTokens) == 0 {
			continue
		}

		common := 0
		for _, nt := range nameTokens {
			for _, kt := range keyTokens {
				if strings.Contains(kt, nt) || strings.Contains(nt, kt) {
					common++
					break
				}
			}
		}

		denom := len(nameTokens)
		if len(keyTokens) > denom {
			denom = len(keyTokens)
		}
		score := float64(common) / float64(denom)
		if score > fuzzyThreshold && score > bestScore {
			bestScore = score
			bestKey = key
		}
	}
	return bestKey, bestKey != ""
}

// tokenize lower-cases and splits on whitespace and commas, dropping empties.
func tokenize(s string) []string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	return parts
}

// columnKeys lists the table's column keys in wire order, excluding the
// reserved feature key. The positional fallback relies on this order.
func columnKeys(row payload.Row) []string {
	all := row.Keys()
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if k == "feature" {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// HeaderText truncates a product name for the header cell.
func HeaderText(name string) string {
	runes := []rune(name)
	if len(runes) > headerMaxLen {
		return string(runes[:headerMaxLen]) + "..."
	}
	return name
}

// CellValue resolves one table cell through the mapping, defaulting to the
// placeholder when the product is unmapped or the row lacks the key.
func CellValue(row payload.Row, mapping ColumnMapping, productIndex int) string {
	key, ok := mapping.Key(productIndex)
	if !ok {
		return "-"
	}
	if v, present := row.Get(key); present && v != "" {
		return v
	}
	return "-"
}
