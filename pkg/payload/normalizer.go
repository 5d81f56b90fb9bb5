package payload

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxUnwrapDepth bounds recursion through nested response wrappers.
const maxUnwrapDepth = 4

const genericFailureText = "Sorry, something went wrong. Please try again."

// Normalizer turns one raw backend reply of unknown shape into an ordered
// list of render directives. It never fails: unrecognized shapes fall through
// to a contextual canned reply keyed on the user's message.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize applies the unwrapping chain to raw and emits directives for the
// effective payload. userMessage feeds the canned-response fallback.
func (n *Normalizer) Normalize(raw []byte, userMessage string) []Directive {
	return n.unwrap(raw, userMessage, 0)
}

func (n *Normalizer) unwrap(raw []byte, userMessage string, depth int) []Directive {
	if depth > maxUnwrapDepth {
		return []Directive{TextBubble{Text: genericFailureText}}
	}

	// Bare JSON string: the whole reply is the answer text.
	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return []Directive{TextBubble{Text: bare}}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Not JSON at all; show it verbatim rather than dropping the turn.
		if text := strings.TrimSpace(string(raw)); text != "" {
			return []Directive{TextBubble{Text: text}}
		}
		return []Directive{TextBubble{Text: genericFailureText}}
	}

	// 1. response wrapper: string-encoded JSON or a nested object.
	if respRaw, ok := fields["response"]; ok && !isJSONNull(respRaw) {
		var encoded string
		if err := json.Unmarshal(respRaw, &encoded); err == nil {
			if json.Valid([]byte(encoded)) {
				return n.unwrap([]byte(encoded), userMessage, depth+1)
			}
			// Not parseable: the raw string is the final answer.
			return []Directive{TextBubble{Text: encoded}}
		}
		return n.unwrap(respRaw, userMessage, depth+1)
	}

	var status string
	if s, ok := fields["status"]; ok {
		_ = json.Unmarshal(s, &status)
	}
	dataRaw, hasData := fields["data"]
	hasData = hasData && !isJSONNull(dataRaw)

	// 2. Structured envelope.
	if status == "success" || (status == "partial" && hasData) {
		var body BotResponse
		if hasData {
			if err := json.Unmarshal(dataRaw, &body); err != nil {
				return []Directive{TextBubble{Text: genericFailureText}}
			}
		}
		return n.render(&body)
	}

	// 3. Flat payload with answer at the top level.
	if _, ok := fields["answer"]; ok {
		var body BotResponse
		if err := json.Unmarshal(raw, &body); err != nil {
			return []Directive{TextBubble{Text: genericFailureText}}
		}
		return n.render(&body)
	}

	// 4. Explicit error envelope.
	if status == "error" {
		text := genericFailureText
		if hasData {
			var body struct {
				Answer string `json:"answer"`
			}
			if json.Unmarshal(dataRaw, &body) == nil && body.Answer != "" {
				text = body.Answer
			}
		}
		return []Directive{TextBubble{Text: text}}
	}

	// 5. Unrecognized shape: probe the loose conventions the backend has been
	// seen using, then fall back to a canned contextual reply.
	if msgRaw, ok := fields["message"]; ok {
		var msg string
		if json.Unmarshal(msgRaw, &msg) == nil && msg != "" {
			return []Directive{TextBubble{Text: msg}}
		}
	}
	return []Directive{TextBubble{Text: cannedReply(userMessage)}}
}

// render emits directives for the effective payload in display order. Every
// step is conditional on field presence; an empty payload emits nothing.
func (n *Normalizer) render(body *BotResponse) []Directive {
	var out []Directive

	if body.Answer != "" {
		answer := body.Answer
		if len(body.Stores) > 0 {
			answer = stripStoreLines(answer, len(body.Stores))
		}
		if answer != "" {
			out = append(out, TextBubble{Text: answer})
		}
	}

	if body.Comparison != nil {
		products := body.Comparison.Products
		if len(products) == 0 {
			products = body.Products
		}
		if len(body.Comparison.Table) > 0 && len(products) > 0 {
			out = append(out, ComparisonTable{Products: products, Table: body.Comparison.Table})
		} else {
			out = append(out, TextBubble{Text: "Product comparison data is incomplete and can't be displayed."})
		}
	}

	if len(body.Products) > 0 {
		out = append(out, ProductCarousel{Products: body.Products})
	}

	for _, store := range body.Stores {
		out = append(out, StoreCard{Store: store})
	}

	for _, details := range body.ProductDetails {
		if details.HasIdentity() {
			out = append(out, ProductDetailsCard{Product: details})
		}
	}

	if policy := body.PolicyInfo.Effective(); policy != nil {
		out = append(out, PolicyCard{
			TotalFound: policy.TotalFound,
			Sections:   policy.PolicySections,
		})
	}

	if body.End != "" {
		out = append(out, TextBubble{Text: body.End})
	}

	return out
}

// stripStoreLines removes store-listing lines from the answer text so the
// same details are not duplicated by the store cards rendered right after.
// If stripping guts the answer, a short generic intro takes its place.
func stripStoreLines(answer string, storeCount int) string {
	lines := strings.Split(answer, "\n")
	cleaned := make([]string, 0, len(lines))
	skipMode := false

	for _, line := range lines {
		if isStoreDetailLine(line) {
			skipMode = true
			continue
		}
		if !skipMode || strings.TrimSpace(line) == "" ||
			strings.Contains(line, "?") ||
			strings.Contains(line, "specific area") ||
			strings.Contains(line, "looking for") {
			cleaned = append(cleaned, line)
			skipMode = false
		}
	}

	result := strings.TrimSpace(strings.Join(cleaned, "\n"))
	if len(result) < 20 {
		return fmt.Sprintf("Great! Here are %d stores found:", storeCount)
	}
	return result
}

func isStoreDetailLine(line string) bool {
	return strings.Contains(line, "*") ||
		strings.Contains(line, "📍") ||
		strings.Contains(line, "🕒") ||
		strings.Contains(line, "Store at") ||
		strings.Contains(line, "AM") ||
		strings.Contains(line, "PM")
}

// cannedReply picks a contextual acknowledgement when the backend reply has
// no recognizable shape, so the user's turn is never silently dropped.
func cannedReply(userMessage string) string {
	msg := strings.ToLower(userMessage)
	switch {
	case strings.Contains(msg, "hello") || strings.Contains(msg, "hi") || strings.Contains(msg, "hey"):
		return "Hello! Welcome! I'm here to help you find the perfect electronics products. What are you looking for today?"
	case strings.Contains(msg, "help"):
		return "I'd be happy to help! I can assist you with:\n• Finding products (TVs, smartphones, laptops, etc.)\n• Getting detailed product specifications\n• Locating nearby stores\n• Checking product availability\n\nWhat would you like to explore?"
	case strings.Contains(msg, "thanks") || strings.Contains(msg, "thank you"):
		return "You're welcome! Is there anything else I can help you find in our electronics collection?"
	}
	return "I'm here to help! How can I assist you with our products today?"
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
