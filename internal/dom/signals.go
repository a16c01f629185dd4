package dom

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxHintAncestors bounds the ancestor walk for section hints.
const maxHintAncestors = 5

// resolveLabel finds the human-readable label for a control. Resolution
// order: explicit label[for=id], enclosing label element, ARIA label,
// placeholder, then name/id as last resort.
func resolveLabel(s *goquery.Selection, f Field) string {
	if f.ID != "" {
		doc := rootOf(s)
		if lbl := doc.Find(`label[for="` + f.ID + `"]`); lbl.Length() > 0 {
			if text := cleanLabelText(lbl.First().Text()); text != "" {
				return text
			}
		}
	}
	if enclosing := s.Closest("label"); enclosing.Length() > 0 {
		if text := cleanLabelText(enclosing.First().Text()); text != "" {
			return text
		}
	}
	if f.AriaLabel != "" {
		return f.AriaLabel
	}
	if f.Placeholder != "" {
		return f.Placeholder
	}
	if f.Name != "" {
		return humanize(f.Name)
	}
	if f.ID != "" {
		return humanize(f.ID)
	}
	return ""
}

// ariaLabel resolves aria-label, falling back to the text of elements
// referenced by aria-labelledby.
func ariaLabel(s *goquery.Selection) string {
	if v := strings.TrimSpace(s.AttrOr("aria-label", "")); v != "" {
		return v
	}
	ids := strings.Fields(s.AttrOr("aria-labelledby", ""))
	if len(ids) == 0 {
		return ""
	}
	doc := rootOf(s)
	var parts []string
	for _, id := range ids {
		if ref := doc.Find("#" + id); ref.Length() > 0 {
			if text := cleanLabelText(ref.First().Text()); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// nearestHeading returns the text of the closest preceding heading
// within the control's enclosing containers.
func nearestHeading(s *goquery.Selection) string {
	cur := s.Parent()
	for depth := 0; depth < maxHintAncestors && cur.Length() > 0; depth++ {
		if h := cur.Find("h1, h2, h3, h4, h5, h6, legend, [role=heading]"); h.Length() > 0 {
			if text := cleanLabelText(h.First().Text()); text != "" {
				return text
			}
		}
		if goquery.NodeName(cur) == "body" {
			break
		}
		cur = cur.Parent()
	}
	return ""
}

// sectionHint concatenates class/id/data-attribute tokens from up to
// five ancestors. The classifier uses it to suppress identity matches
// inside repeating sub-forms: a "name" field in a project block must
// never become the applicant's name.
func sectionHint(s *goquery.Selection) string {
	var tokens []string
	cur := s.Parent()
	for depth := 0; depth < maxHintAncestors && cur.Length() > 0; depth++ {
		if node := cur.Get(0); node != nil {
			for _, attr := range node.Attr {
				switch {
				case attr.Key == "class" || attr.Key == "id":
					tokens = append(tokens, splitTokens(attr.Val)...)
				case strings.HasPrefix(attr.Key, "data-"):
					tokens = append(tokens, splitTokens(attr.Val)...)
				}
			}
		}
		if goquery.NodeName(cur) == "body" {
			break
		}
		cur = cur.Parent()
	}
	return strings.ToLower(strings.Join(dedupe(tokens), " "))
}

var tokenSplit = regexp.MustCompile(`[\s_\-./:]+`)

func splitTokens(v string) []string {
	var out []string
	for _, t := range tokenSplit.Split(v, -1) {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

var wsCollapse = regexp.MustCompile(`\s+`)

// cleanLabelText trims, collapses whitespace, and strips required
// markers from label text.
func cleanLabelText(text string) string {
	text = wsCollapse.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "*")
	text = strings.TrimSuffix(text, ":")
	return strings.TrimSpace(text)
}

// humanize turns attribute identifiers like "first_name" or
// "firstName" into readable text.
func humanize(ident string) string {
	ident = tokenSplit.ReplaceAllString(ident, " ")
	// Split camelCase boundaries.
	var b strings.Builder
	for i, r := range ident {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(ident[i-1])
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func rootOf(s *goquery.Selection) *goquery.Selection {
	return s.Parents().Last()
}
