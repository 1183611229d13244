package htmlutil

import (
	"bytes"
	"context"
	"strings"

	"cloudbill/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

var tracer = otel.Tracer("cloudbill.lib.htmlutil")

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

// TextNodes returns the trimmed contents of every non-blank text leaf
// under node, in document order.
func TextNodes(node *html.Node) []string {
	var texts []string
	textNodesRecursive(node, &texts)
	return texts
}

func textNodesRecursive(node *html.Node, texts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		trimmed := strings.Trim(node.Data, " \t\n")
		if trimmed != "" {
			*texts = append(*texts, trimmed)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		textNodesRecursive(child, texts)
		child = child.NextSibling
	}
}

// IndexByText indexes the elements of a selection by their normalized
// text content. When two elements share the same text the first one in
// document order wins.
func IndexByText(ctx context.Context, sel *goquery.Selection) map[string]*goquery.Selection {
	ctx, span := tracer.Start(ctx, "IndexByText")
	defer span.End()

	index := map[string]*goquery.Selection{}
	for _, n := range sel.Nodes {
		// normalize before stripping non-printables so an internal
		// newline becomes a space instead of vanishing
		text := GetText(n)
		text = textutil.NormalizeSpace(text)
		text = textutil.RemoveNonPrintable(text)

		if _, taken := index[text]; taken {
			continue
		}
		index[text] = sel.FilterNodes(n)
		span.AddEvent("element", trace.WithAttributes(
			attribute.String("text", text),
		))
	}

	return index
}
