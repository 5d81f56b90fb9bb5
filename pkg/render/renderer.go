// Package render interprets normalizer directives into widget HTML
// fragments. The normalizer emits data; only this package touches markup,
// and every backend-supplied value passes through html/template escaping.
package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"ecom-support-widget/pkg/comparison"
	"ecom-support-widget/pkg/payload"
)

type Renderer struct {
	tpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tpl, err := template.New("widget").Parse(widgetTemplates)
	if err != nil {
		return nil, fmt.Errorf("parse widget templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render produces the HTML fragment for one directive. Timestamp is the
// display string stamped on text bubbles; cards carry no timestamp.
func (r *Renderer) Render(d payload.Directive, timestamp string) (string, error) {
	switch v := d.(type) {
	case payload.TextBubble:
		if v.Transient {
			return r.exec("retry_notice", map[string]any{"Text": v.Text})
		}
		return r.BotBubble(v.Text, timestamp)
	case payload.ProductCarousel:
		return r.exec("carousel", map[string]any{"Products": v.Products})
	case payload.ComparisonTable:
		return r.exec("comparison", buildComparisonView(v))
	case payload.StoreCard:
		return r.exec("store_card", buildStoreView(v.Store))
	case payload.ProductDetailsCard:
		return r.exec("details_card", map[string]any{
			"Name":  v.Product.DisplayName(),
			"MRP":   v.Product.MRP,
			"Image": v.Product.Image,
			"URL":   v.Product.URL,
			"Specs": detailSpecs(v.Product),
		})
	case payload.PolicyCard:
		return r.exec("policy_card", buildPolicyView(v))
	}
	return "", fmt.Errorf("unknown directive %T", d)
}

// RenderAll concatenates fragments for a directive sequence in order.
func (r *Renderer) RenderAll(directives []payload.Directive, timestamp string) (string, error) {
	var b strings.Builder
	for _, d := range directives {
		frag, err := r.Render(d, timestamp)
		if err != nil {
			return "", err
		}
		b.WriteString(frag)
	}
	return b.String(), nil
}

// UserBubble renders a user message bubble with escaped content.
func (r *Renderer) UserBubble(text, timestamp string) (string, error) {
	return r.bubble(text, "user", timestamp)
}

// BotBubble renders a bot message bubble with escaped content.
func (r *Renderer) BotBubble(text, timestamp string) (string, error) {
	return r.bubble(text, "bot", timestamp)
}

// RawBubble rebuilds a bubble from previously rendered content. Only content
// this renderer produced earlier (the legacy persisted log) may pass through
// unescaped.
func (r *Renderer) RawBubble(contentHTML, role, timestamp string) (string, error) {
	return r.exec("bubble", map[string]any{
		"Role":    role,
		"Content": template.HTML(contentHTML),
		"Time":    timestamp,
	})
}

func (r *Renderer) bubble(text, role, timestamp string) (string, error) {
	return r.exec("bubble", map[string]any{
		"Role":    role,
		"Content": textToHTML(text),
		"Time":    timestamp,
	})
}

func (r *Renderer) exec(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// textToHTML escapes plain text and preserves line breaks.
func textToHTML(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// detailSpecs merges the structured specification entries with the plain
// feature strings; features render as keyless checkmark lines.
func detailSpecs(p payload.Product) []payload.SpecEntry {
	specs := make([]payload.SpecEntry, 0, len(p.Specifications)+len(p.Features))
	specs = append(specs, p.Specifications...)
	for _, f := range p.Features {
		specs = append(specs, payload.SpecEntry{Value: f})
	}
	return specs
}

type comparisonHeader struct {
	Short string
	Full  string
}

type comparisonRow struct {
	Feature string
	Cells   []string
}

type comparisonView struct {
	Headers []comparisonHeader
	Rows    []comparisonRow
}

// buildComparisonView resolves the product-to-column mapping and flattens the
// table into renderable rows.
func buildComparisonView(t payload.ComparisonTable) comparisonView {
	mapping := comparison.MatchColumns(t.Products, t.Table)

	view := comparisonView{
		Headers: make([]comparisonHeader, 0, len(t.Products)),
		Rows:    make([]comparisonRow, 0, len(t.Table)),
	}
	for _, p := range t.Products {
		name := p.DisplayName()
		view.Headers = append(view.Headers, comparisonHeader{
			Short: comparison.HeaderText(name),
			Full:  name,
		})
	}
	for _, row := range t.Table {
		cells := make([]string, 0, len(t.Products))
		for i := range t.Products {
			cells = append(cells, comparison.CellValue(row, mapping, i))
		}
		view.Rows = append(view.Rows, comparisonRow{Feature: row.Feature(), Cells: cells})
	}
	return view
}

func buildStoreView(s payload.Store) map[string]any {
	query := url.QueryEscape(s.DisplayName() + " " + s.FullAddress())
	return map[string]any{
		"Name":    s.DisplayName(),
		"Address": s.FullAddress(),
		"Hours":   s.Hours(),
		"Phone":   s.Phone,
		"MapsURL": "https://www.google.com/maps/search/?api=1&query=" + query,
	}
}

type policySectionView struct {
	Document string
	Content  template.HTML
	Percent  int
}

func buildPolicyView(c payload.PolicyCard) map[string]any {
	sections := make([]policySectionView, 0, len(c.Sections))
	for _, s := range c.Sections {
		doc := s.Document
		if doc == "" {
			doc = "Policy"
		}
		sections = append(sections, policySectionView{
			Document: doc,
			Content:  textToHTML(s.Content),
			Percent:  s.RelevancePercent(),
		})
	}
	return map[string]any{
		"TotalFound": c.TotalFound,
		"Sections":   sections,
	}
}
