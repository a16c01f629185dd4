package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section is a located repeating sub-form container (work history,
// education, projects).
type Section struct {
	sel     *goquery.Selection
	Ref     string
	Heading string
}

// Clickable is a snapshot of a button-like element.
type Clickable struct {
	Ref  string
	Text string
}

// containerTags are elements accepted as section containers outright.
var containerTags = map[string]bool{
	"section":  true,
	"fieldset": true,
	"form":     true,
	"ol":       true,
	"ul":       true,
}

// containerClassTokens mark a div/span as a plausible section container.
var containerClassTokens = []string{
	"section", "container", "group", "panel", "block", "card", "list", "wrapper", "repeat",
}

// Section locates a repeating sub-form by heading text. It finds the
// first heading matching any synonym, then walks up the ancestor chain
// to the nearest recognizable container. Returns false when no heading
// matches; the caller treats that as a section-not-found (zero fills
// for the entity, never an abort of the whole pass).
func (p *Page) Section(synonyms []string) (*Section, bool) {
	var heading *goquery.Selection
	var headingText string

	p.doc.Find("h1, h2, h3, h4, h5, h6, legend, [role=heading]").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		text := strings.ToLower(cleanLabelText(h.Text()))
		for _, syn := range synonyms {
			if strings.Contains(text, strings.ToLower(syn)) {
				heading = h
				headingText = cleanLabelText(h.Text())
				return false
			}
		}
		return true
	})

	if heading == nil {
		return nil, false
	}

	container := containerFor(heading)
	return &Section{
		sel:     container,
		Ref:     refFor(container),
		Heading: headingText,
	}, true
}

// containerFor walks up from a heading to the nearest element that
// looks like a section container, falling back to the heading's parent.
func containerFor(heading *goquery.Selection) *goquery.Selection {
	cur := heading.Parent()
	fallback := cur
	for depth := 0; depth < maxHintAncestors && cur.Length() > 0; depth++ {
		tag := goquery.NodeName(cur)
		if tag == "body" {
			break
		}
		if containerTags[tag] {
			return cur
		}
		classes := strings.ToLower(cur.AttrOr("class", "") + " " + cur.AttrOr("id", ""))
		for _, token := range containerClassTokens {
			if strings.Contains(classes, token) {
				return cur
			}
		}
		cur = cur.Parent()
	}
	return fallback
}

// Fields returns the eligible controls inside the section.
func (s *Section) Fields() []Field {
	return collectFields(s.sel)
}

// AddControl searches for a clickable "add entry" affordance: first
// inside the section, then in the nearest following sibling containers.
// Its text must combine an add synonym with either an entity synonym or
// a generic "another"/"more" qualifier.
func (s *Section) AddControl(entitySynonyms []string) (Clickable, bool) {
	if c, ok := findAdd(s.sel, entitySynonyms); ok {
		return c, true
	}
	// Some forms render the add button just below the section.
	sib := s.sel.Next()
	for i := 0; i < 2 && sib.Length() > 0; i++ {
		if c, ok := findAdd(sib, entitySynonyms); ok {
			return c, true
		}
		sib = sib.Next()
	}
	return Clickable{}, false
}

var addSynonyms = []string{"add", "new", "+"}

var genericEntrySynonyms = []string{"another", "more", "entry", "item", "row", "position"}

func findAdd(scope *goquery.Selection, entitySynonyms []string) (Clickable, bool) {
	var found Clickable
	ok := false
	scope.Find(`button, a, [role=button], input[type=button]`).EachWithBreak(func(_ int, b *goquery.Selection) bool {
		text := strings.ToLower(cleanLabelText(b.Text()))
		if text == "" {
			text = strings.ToLower(b.AttrOr("value", b.AttrOr("aria-label", "")))
		}
		if !containsAny(text, addSynonyms) {
			return true
		}
		if containsAny(text, entitySynonyms) || containsAny(text, genericEntrySynonyms) || text == "add" || text == "+" {
			found = Clickable{Ref: refFor(b), Text: cleanLabelText(b.Text())}
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(text, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
