package htmlutil

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

func GetText(node *nethtml.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *nethtml.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == nethtml.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CollapseWhitespace replaces every run of whitespace (including non-breaking spaces)
// with a single space and trims the ends.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// FirstText returns the text of the first child node of the first element in the
// selection, which is the first line of something like `<p>Janneke<br>Street 1</p>`.
func FirstText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return GetText(sel.Get(0).FirstChild)
}

var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
var tags = regexp.MustCompile(`<[^>]*>`)

// Lines splits the inner html of the first element of the selection on <br> tags and
// returns the text of every line, entities decoded and surrounding whitespace trimmed.
func Lines(sel *goquery.Selection) []string {
	if sel.Length() == 0 {
		return nil
	}
	inner, err := sel.First().Html()
	if err != nil {
		return nil
	}

	parts := lineBreak.Split(inner, -1)
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = strings.TrimSpace(html.UnescapeString(tags.ReplaceAllString(p, "")))
	}
	return lines
}
