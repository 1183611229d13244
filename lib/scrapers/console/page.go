package console

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Page is a parsed document anchored to the URL it was finally served
// from, so relative links and form actions resolve correctly after
// redirects. Pages are not retained beyond the step that consumes them.
type Page struct {
	URL *url.URL
	Doc *goquery.Document
}

// Form is a named collection of input values harvested from a page.
// Values may be overridden before submission.
type Form struct {
	// resolved absolute action URL
	Action string
	Method string
	Values url.Values
}

// Forms collects every <form> on the page along with the current values
// of its named inputs.
func (p Page) Forms() []Form {
	var forms []Form
	p.Doc.Find("form").Each(func(_ int, sel *goquery.Selection) {
		form := Form{
			Action: p.Resolve(sel.AttrOr("action", "")),
			Method: sel.AttrOr("method", "get"),
			Values: url.Values{},
		}
		sel.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
			name := input.AttrOr("name", "")
			form.Values.Set(name, input.AttrOr("value", ""))
		})
		forms = append(forms, form)
	})
	return forms
}

// Resolve resolves href against the page's own URL.
func (p Page) Resolve(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	return p.URL.ResolveReference(parsed).String()
}
