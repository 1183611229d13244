package htmlutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const testPage = `
<html><body>
	<h2> Your   credit </h2>
	<div><span>$100.00</span></div>
	<h2>Usage</h2>
	<div>
		<!-- comment node -->
		<span>$25.50</span>
	</div>
	<h2>Usage</h2>
</body></html>`

func parse(t *testing.T, contents string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contents))
	require.NoError(t, err)
	return doc
}

func TestGetText(t *testing.T) {
	doc := parse(t, `<p>a<b>b</b><i>c<u>d</u></i></p>`)
	require.Equal(t, "abcd", GetText(doc.Find("p").Nodes[0]))
}

func TestTextNodes(t *testing.T) {
	doc := parse(t, `<div>  <span> $100.00 </span> <!-- x --> <i></i></div>`)
	require.Equal(t, []string{"$100.00"}, TextNodes(doc.Find("div").Nodes[0]))

	doc = parse(t, `<div><span>a</span><span>b</span></div>`)
	require.Equal(t, []string{"a", "b"}, TextNodes(doc.Find("div").Nodes[0]))
}

func TestIndexByText(t *testing.T) {
	doc := parse(t, testPage)
	index := IndexByText(context.Background(), doc.Find("h2"))

	require.Contains(t, index, "Your credit")
	require.Contains(t, index, "Usage")
	require.Len(t, index, 2)

	value := index["Your credit"].Next()
	require.Equal(t, []string{"$100.00"}, TextNodes(value.Nodes[0]))
}

func TestIndexByTextInternalNewline(t *testing.T) {
	doc := parse(t, "<html><body><h2>Your\ncredit</h2><div><span>$1.00</span></div></body></html>")
	index := IndexByText(context.Background(), doc.Find("h2"))
	require.Contains(t, index, "Your credit")
}
