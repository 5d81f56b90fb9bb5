package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Product is one catalog item as the bot backend describes it. Field names
// follow the backend wire format; everything is optional.
type Product struct {
	ID             string      `json:"product_id"`
	Name           string      `json:"product_name"`
	Image          string      `json:"product_image"`
	MRP            string      `json:"product_mrp"` // pre-formatted price string
	URL            string      `json:"product_url"`
	Features       []string    `json:"features"`
	Specifications []SpecEntry `json:"specifications"`
}

// DisplayName returns the product name, falling back to the id.
func (p Product) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// HasIdentity reports whether the product carries at least a name or an id.
func (p Product) HasIdentity() bool {
	return p.Name != "" || p.ID != ""
}

// SpecEntry is one specification line. The backend sends either a plain
// string ("4K HDR") or a single-key object ({"Processor": "Ultra 9"}).
type SpecEntry struct {
	Key   string
	Value string
}

func (s *SpecEntry) UnmarshalJSON(b []byte) error {
	var plain string
	if err := json.Unmarshal(b, &plain); err == nil {
		s.Key = ""
		s.Value = plain
		return nil
	}
	var keyed map[string]string
	if err := json.Unmarshal(b, &keyed); err != nil {
		return err
	}
	for k, v := range keyed {
		s.Key = k
		s.Value = v
		break
	}
	return nil
}

func (s SpecEntry) MarshalJSON() ([]byte, error) {
	if s.Key == "" {
		return json.Marshal(s.Value)
	}
	return json.Marshal(map[string]string{s.Key: s.Value})
}

// ProductList accepts both a single product object and an array of them,
// which is how the backend ships product_details.
type ProductList []Product

func (pl *ProductList) UnmarshalJSON(b []byte) error {
	var many []Product
	if err := json.Unmarshal(b, &many); err == nil {
		*pl = many
		return nil
	}
	var one Product
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*pl = ProductList{one}
	return nil
}

// Store is a physical store location. The backend is inconsistent about
// name/store_name and timings/timing, so both spellings are accepted.
type Store struct {
	Name      string `json:"name"`
	StoreName string `json:"store_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Timings   string `json:"timings"`
	Timing    string `json:"timing"`
	Phone     string `json:"phone"`
}

func (s Store) DisplayName() string {
	switch {
	case s.Name != "":
		return s.Name
	case s.StoreName != "":
		return s.StoreName
	}
	return "Store"
}

func (s Store) Hours() string {
	if s.Timings != "" {
		return s.Timings
	}
	if s.Timing != "" {
		return s.Timing
	}
	return "Timing not available"
}

// FullAddress joins address, city, zipcode and state the way the widget
// displays them.
func (s Store) FullAddress() string {
	var b strings.Builder
	b.WriteString(s.Address)
	if s.City != "" {
		b.WriteString(", " + s.City)
	}
	if s.Zipcode != "" {
		b.WriteString(" - " + s.Zipcode)
	}
	if s.State != "" {
		b.WriteString(", " + s.State)
	}
	return b.String()
}

// Comparison is the backend-supplied feature-by-product grid.
type Comparison struct {
	Products []Product `json:"products"`
	Table    []Row     `json:"table"`
}

// Row is one comparison-table row. Column keys keep their wire order, which
// the positional column fallback depends on. The reserved key "feature"
// names the row.
type Row struct {
	keys  []string
	cells map[string]string
}

// NewRow builds a row from alternating key/value pairs in display order.
func NewRow(pairs ...string) Row {
	r := Row{cells: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.set(pairs[i], pairs[i+1])
	}
	return r
}

func (r *Row) set(key, value string) {
	if _, seen := r.cells[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.cells[key] = value
}

// Keys lists the column keys in wire order.
func (r Row) Keys() []string { return r.keys }

// Get returns the cell value for key.
func (r Row) Get(key string) (string, bool) {
	v, ok := r.cells[key]
	return v, ok
}

// Feature returns the row label.
func (r Row) Feature() string { return r.cells["feature"] }

// UnmarshalJSON decodes the row object token by token so key order survives
// the round trip; a plain map would scramble it.
func (r *Row) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("comparison row: expected object, got %v", tok)
	}
	r.keys = nil
	r.cells = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("comparison row: non-string key %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		r.set(key, value)
	}
	_, err = dec.Token()
	return err
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.cells[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PolicyInfo wraps policy search results. The backend sometimes nests the
// real payload under search_terms_conditions_response.
type PolicyInfo struct {
	Success        bool            `json:"success"`
	TotalFound     int             `json:"total_found"`
	PolicySections []PolicySection `json:"policy_sections"`
	Nested         *PolicyInfo     `json:"search_terms_conditions_response"`
}

// Effective resolves the nested-vs-flat shapes, returning nil when neither
// carries a success flag.
func (p *PolicyInfo) Effective() *PolicyInfo {
	if p == nil {
		return nil
	}
	if p.Nested != nil && p.Nested.Success {
		return p.Nested
	}
	if p.Success {
		return p
	}
	return nil
}

// PolicySection is one matched policy fragment with its 0-1 relevance score.
type PolicySection struct {
	Document       string  `json:"document"`
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
}

// RelevancePercent converts the 0-1 score to a rounded integer percentage.
func (s PolicySection) RelevancePercent() int {
	return int(s.RelevanceScore*100 + 0.5)
}

// BotResponse is the effective (unwrapped) reply payload. Every field is
// optional and independently present.
type BotResponse struct {
	Answer         string      `json:"answer"`
	Products       []Product   `json:"products"`
	ProductDetails ProductList `json:"product_details"`
	Stores         []Store     `json:"stores"`
	PolicyInfo     *PolicyInfo `json:"policy_info"`
	Comparison     *Comparison `json:"comparison"`
	End            string      `json:"end"`
}
