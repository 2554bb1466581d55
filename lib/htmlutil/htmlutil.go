package htmlutil

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CellTexts returns the text content of every node in the selection,
// in document order. Used for pulling the label:value cells out of
// course-guide table rows.
func CellTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, len(sel.Nodes))
	for _, n := range sel.Nodes {
		out = append(out, GetText(n))
	}
	return out
}
