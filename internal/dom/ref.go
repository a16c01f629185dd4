package dom

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// simpleIdent matches ids safe to use directly in a CSS selector.
var simpleIdent = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// refFor computes a deterministic CSS path for a control. Controls with
// a plain id get "#id"; everything else gets a structural
// tag:nth-child path from the document root. The same markup always
// yields the same ref, which is what lets a snapshot taken from one
// render address the control in the next.
func refFor(s *goquery.Selection) string {
	if id := s.AttrOr("id", ""); simpleIdent.MatchString(id) {
		return "#" + id
	}

	node := s.Get(0)
	if node == nil {
		return ""
	}

	var segments []string
	for cur := node; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		tag := cur.Data
		if tag == "html" {
			segments = append(segments, "html")
			break
		}
		segments = append(segments, fmt.Sprintf("%s:nth-child(%d)", tag, childIndex(cur)))
	}

	// Reverse into document order.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, " > ")
}

// childIndex returns the 1-based position of node among its element
// siblings, matching the CSS :nth-child definition.
func childIndex(node *html.Node) int {
	idx := 1
	for sib := node.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode {
			idx++
		}
	}
	return idx
}
