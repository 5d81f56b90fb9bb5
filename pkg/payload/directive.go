package payload

// Directive is one render instruction emitted by the normalizer. The widget
// renderer interprets directives into HTML; the normalizer itself never
// touches markup.
type Directive interface {
	directive()
}

// TextBubble renders a bot text message. Transient bubbles (retry notices)
// are shown but excluded from the persisted message log.
type TextBubble struct {
	Text      string
	Transient bool
}

// ProductCarousel renders a horizontally scrollable row of product cards,
// one per product, in order.
type ProductCarousel struct {
	Products []Product
}

// ComparisonTable renders the side-by-side product grid. Column resolution
// happens in the renderer via the comparison matcher.
type ComparisonTable struct {
	Products []Product
	Table    []Row
}

// StoreCard renders a single store location card.
type StoreCard struct {
	Store Store
}

// ProductDetailsCard renders the expanded single-product view.
type ProductDetailsCard struct {
	Product Product
}

// PolicyCard renders matched policy sections with relevance tags.
type PolicyCard struct {
	TotalFound int
	Sections   []PolicySection
}

func (TextBubble) directive()         {}
func (ProductCarousel) directive()    {}
func (ComparisonTable) directive()    {}
func (StoreCard) directive()          {}
func (ProductDetailsCard) directive() {}
func (PolicyCard) directive()         {}
