// Package content models the typed content payloads stored in a card's
// opaque content blob, and the structural inspection the editor needs:
// text extraction and emptiness checks over rich documents.
//
// Rich text arrives in two shapes: a legacy plain string, or a structured
// rich-document object (doc -> block nodes -> text nodes). Parsing never
// fails loudly; malformed blobs degrade to empty/plain-text semantics.
package content

import (
	"encoding/json"
	"strings"
)

// Text is the persisted payload of a TEXT card. RichText holds either a
// JSON-encoded string (legacy plain text) or a rich-document object.
type Text struct {
	RichText json.RawMessage `json:"richText"`
	Source   *string         `json:"source,omitempty"`
}

// Link is the persisted payload of a LINK card.
type Link struct {
	URL string `json:"url"`
}

// ParseText decodes a TEXT card blob. Malformed blobs yield (nil, false).
func ParseText(blob string) (*Text, bool) {
	if blob == "" {
		return nil, false
	}
	var t Text
	if err := json.Unmarshal([]byte(blob), &t); err != nil {
		return nil, false
	}
	return &t, true
}

// ParseLink decodes a LINK card blob. Malformed blobs yield (nil, false).
func ParseLink(blob string) (*Link, bool) {
	if blob == "" {
		return nil, false
	}
	var l Link
	if err := json.Unmarshal([]byte(blob), &l); err != nil {
		return nil, false
	}
	return &l, true
}

// MarshalText wraps the editor's working representation as a TEXT blob.
// Valid JSON is embedded as-is (a rich document survives round-tripping);
// anything else is stored as a plain string.
func MarshalText(raw string) string {
	rt := json.RawMessage(raw)
	if !json.Valid(rt) {
		rt, _ = json.Marshal(raw)
	}
	b, _ := json.Marshal(Text{RichText: rt})
	return string(b)
}

// MarshalLink wraps a normalized URL as a LINK blob.
func MarshalLink(url string) string {
	b, _ := json.Marshal(Link{URL: url})
	return string(b)
}

// docNode is the subset of the rich-document tree needed for inspection.
type docNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []docNode `json:"content"`
}

// ExtractText returns the plain text of the editor's working representation.
// A rich document is flattened: child texts joined within a block, blocks
// joined by newlines. Anything that does not parse as a document is treated
// as plain text.
func ExtractText(raw string) string {
	var doc docNode
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc.Content == nil {
		return strings.TrimSpace(raw)
	}
	lines := make([]string, 0, len(doc.Content))
	for _, block := range doc.Content {
		var sb strings.Builder
		for _, n := range block.Content {
			sb.WriteString(n.Text)
		}
		lines = append(lines, sb.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// IsEmpty reports whether the editor's working representation carries no
// content: a document whose blocks are all childless, or blank plain text.
func IsEmpty(raw string) bool {
	var doc docNode
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || doc.Content == nil {
		return strings.TrimSpace(raw) == ""
	}
	for _, block := range doc.Content {
		if len(block.Content) > 0 {
			return false
		}
	}
	return true
}

// RichTextPlain returns the displayable plain text of a parsed TEXT payload:
// the legacy string form directly, or the flattened document text.
func (t *Text) RichTextPlain() string {
	if t == nil || len(t.RichText) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(t.RichText, &s); err == nil {
		return s
	}
	return ExtractText(string(t.RichText))
}
