// Package dom inspects parsed HTML pages and gathers, per form control,
// every available textual signal into a normalized snapshot. It is a
// pure read layer: nothing here mutates the page.
package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Option is one choice of a select control.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Field is the snapshot of one eligible form control and its signals.
type Field struct {
	Ref         string   `json:"ref"` // deterministic CSS path
	Tag         string   `json:"tag"` // input, select, textarea
	Type        string   `json:"type,omitempty"`
	Label       string   `json:"label,omitempty"`
	Name        string   `json:"name,omitempty"`
	ID          string   `json:"id,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	AriaLabel   string   `json:"aria_label,omitempty"`
	Required    bool     `json:"required,omitempty"`
	MaxLength   int      `json:"max_length,omitempty"`
	Value       string   `json:"value,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Heading     string   `json:"heading,omitempty"`      // nearest preceding section heading
	SectionHint string   `json:"section_hint,omitempty"` // ancestor class/id/data tokens
}

// IsSelect reports whether the control is a select element.
func (f *Field) IsSelect() bool { return f.Tag == "select" }

// IsTextArea reports whether the control is a textarea element.
func (f *Field) IsTextArea() bool { return f.Tag == "textarea" }

// IsDateLike reports whether the control expects a date-formatted value.
func (f *Field) IsDateLike() bool {
	return f.Type == "date" || f.Type == "month"
}

// Empty reports whether the control held no value at snapshot time.
func (f *Field) Empty() bool { return strings.TrimSpace(f.Value) == "" }

// Context returns the combined, lowercased context string used by the
// classifier and the section scorer.
func (f *Field) Context() string {
	parts := make([]string, 0, 7)
	for _, p := range []string{f.Label, f.Name, f.ID, f.Placeholder, f.AriaLabel, f.Heading, f.SectionHint} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Page wraps a parsed HTML document.
type Page struct {
	doc *goquery.Document
}

// Parse builds a Page from raw HTML.
func Parse(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Page{doc: doc}, nil
}

// excludedInputTypes are input types never considered for classification.
var excludedInputTypes = map[string]bool{
	"hidden":   true,
	"submit":   true,
	"button":   true,
	"reset":    true,
	"image":    true,
	"file":     true,
	"password": true,
	"checkbox": true,
	"radio":    true,
}

// Fields returns a snapshot of every eligible control on the page, in
// document order. Callers must re-query after any await boundary; the
// snapshot is not kept in sync with the live page.
func (p *Page) Fields() []Field {
	return collectFields(p.doc.Selection)
}

func collectFields(root *goquery.Selection) []Field {
	var fields []Field
	root.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		f, ok := snapshotField(s)
		if ok {
			fields = append(fields, f)
		}
	})
	return fields
}

// snapshotField builds a Field from one control, reporting false for
// ineligible controls.
func snapshotField(s *goquery.Selection) (Field, bool) {
	tag := goquery.NodeName(s)
	typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
	if tag == "input" {
		if typ == "" {
			typ = "text"
		}
		if excludedInputTypes[typ] {
			return Field{}, false
		}
	}
	if !eligible(s) {
		return Field{}, false
	}

	f := Field{
		Ref:         refFor(s),
		Tag:         tag,
		Type:        typ,
		Name:        s.AttrOr("name", ""),
		ID:          s.AttrOr("id", ""),
		Placeholder: s.AttrOr("placeholder", ""),
		AriaLabel:   ariaLabel(s),
	}
	if _, ok := s.Attr("required"); ok {
		f.Required = true
	}
	if ml := s.AttrOr("maxlength", ""); ml != "" {
		f.MaxLength = atoiSafe(ml)
	}

	switch tag {
	case "select":
		s.Find("option").Each(func(_ int, o *goquery.Selection) {
			f.Options = append(f.Options, Option{
				Value: o.AttrOr("value", strings.TrimSpace(o.Text())),
				Text:  strings.TrimSpace(o.Text()),
			})
			if _, sel := o.Attr("selected"); sel {
				f.Value = o.AttrOr("value", strings.TrimSpace(o.Text()))
			}
		})
	case "textarea":
		f.Value = strings.TrimSpace(s.Text())
	default:
		f.Value = s.AttrOr("value", "")
	}

	f.Label = resolveLabel(s, f)
	f.Heading = nearestHeading(s)
	f.SectionHint = sectionHint(s)
	return f, true
}

// eligible filters out disabled and hidden controls, including controls
// inside an ancestor hidden by attribute or inline style.
func eligible(s *goquery.Selection) bool {
	if _, ok := s.Attr("disabled"); ok {
		return false
	}
	for cur := s; cur.Length() > 0; cur = cur.Parent() {
		if _, ok := cur.Attr("hidden"); ok {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(cur.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
		if goquery.NodeName(cur) == "body" {
			break
		}
	}
	return true
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
