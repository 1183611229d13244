package console

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cloudbill/lib/htmlutil"
	"cloudbill/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const (
	emailField    = "email"
	passwordField = "password"
	tokenField    = "i"

	historyDateFormat = "January 2, 2006"
)

type Credentials struct {
	Email    string
	Password string
}

type HistoryEntry struct {
	Date        time.Time
	Amount      string
	Description string
}

// BillingSnapshot is the pipeline output. Either all three fields are
// present and valid or no snapshot is produced at all.
type BillingSnapshot struct {
	Credit  string
	Usage   string
	History []HistoryEntry
}

// FetchBilling runs the full login -> main page -> billing page
// sequence and extracts a snapshot. Whatever happens along the way, a
// logout request is issued exactly once before returning; a logout
// failure only surfaces when extraction itself succeeded.
func FetchBilling(ctx context.Context, client *Client, creds Credentials) (BillingSnapshot, error) {
	ctx, span := tracer.Start(ctx, "console:FetchBilling")
	defer span.End()

	snapshot, err := scrapeBilling(ctx, client, creds)
	logoutErr := client.Logout(ctx)
	if err == nil {
		err = logoutErr
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch billing snapshot")
		return BillingSnapshot{}, err
	}
	return snapshot, nil
}

func scrapeBilling(ctx context.Context, client *Client, creds Credentials) (BillingSnapshot, error) {
	main, err := login(ctx, client, creds)
	if err != nil {
		return BillingSnapshot{}, err
	}

	token, err := refreshToken(main)
	if err != nil {
		return BillingSnapshot{}, err
	}

	billing, err := client.Fetch(ctx, "/settings/billing?i="+url.QueryEscape(token))
	if err != nil {
		return BillingSnapshot{}, err
	}

	headings := htmlutil.IndexByText(ctx, billing.Doc.Find("h2"))
	credit, err := headingValue(headings, "Your credit", "billing/credit")
	if err != nil {
		return BillingSnapshot{}, err
	}
	usage, err := headingValue(headings, "Usage", "billing/usage")
	if err != nil {
		return BillingSnapshot{}, err
	}
	history, err := extractHistory(billing)
	if err != nil {
		return BillingSnapshot{}, err
	}

	return BillingSnapshot{
		Credit:  credit,
		Usage:   usage,
		History: history,
	}, nil
}

// login submits the credentials through the login form and returns the
// post-login main page. A page carrying an errors region means the
// console rejected the credentials.
func login(ctx context.Context, client *Client, creds Credentials) (Page, error) {
	ctx, span := tracer.Start(ctx, "console:login")
	defer span.End()

	loginPage, err := client.Fetch(ctx, "/login")
	if err != nil {
		return Page{}, err
	}
	form, err := expectOne("login/forms#", loginPage.Forms())
	if err != nil {
		return Page{}, err
	}

	main, err := client.SubmitForm(ctx, form, map[string]string{
		emailField:    creds.Email,
		passwordField: creds.Password,
	})
	if err != nil {
		return Page{}, err
	}

	if main.Doc.Find(".errors").Length() > 0 {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return Page{}, LoginFailed
	}
	return main, nil
}

// refreshToken harvests the opaque session parameter the billing page
// fetch must be authorized with, hidden in the main page's only form.
func refreshToken(main Page) (string, error) {
	form, err := expectOne("main/forms#", main.Forms())
	if err != nil {
		return "", err
	}
	token := form.Values.Get(tokenField)
	if token == "" {
		return "", ScrapingError{Location: "main/form/i", Value: ""}
	}
	return token, nil
}

// headingValue finds the heading titled `title` and validates that the
// node following it holds exactly one money-formatted text node.
func headingValue(headings map[string]*goquery.Selection, title, location string) (string, error) {
	heading, ok := headings[title]
	if !ok {
		return "", ScrapingError{Location: location, Value: title}
	}

	var texts []string
	for _, n := range heading.Next().Nodes {
		texts = append(texts, htmlutil.TextNodes(n)...)
	}
	if len(texts) != 1 || !textutil.IsMoneyAmount(texts[0]) {
		return "", ScrapingError{
			Location: location + "/value",
			Value:    strings.Join(texts, " "),
		}
	}
	return texts[0], nil
}

// extractHistory walks the billing-history table in document order.
// Rows are never skipped or reordered, the first malformed row aborts
// the whole extraction.
func extractHistory(billing Page) ([]HistoryEntry, error) {
	tables := billing.Doc.Find("table.billing-history")
	if _, err := expectOne("billing/history#", tables.Nodes); err != nil {
		return nil, err
	}

	var entries []HistoryEntry
	var rowErr error
	tables.Find("tbody tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() != 4 {
			rowErr = ScrapingError{
				Location: "billing/history/td#",
				Value:    strconv.Itoa(cells.Length()),
			}
			return false
		}

		dateText := textutil.NormalizeSpace(cells.Eq(0).Text())
		date, err := time.Parse(historyDateFormat, dateText)
		if err != nil {
			rowErr = ScrapingError{Location: "billing/history/td/1", Value: dateText}
			return false
		}

		amount := textutil.NormalizeSpace(cells.Eq(2).Text())
		if !textutil.IsMoneyAmount(amount) {
			rowErr = ScrapingError{Location: "billing/history/td/3", Value: amount}
			return false
		}

		entries = append(entries, HistoryEntry{
			Date:   date,
			Amount: amount,
			// free-form, taken verbatim
			Description: textutil.NormalizeSpace(cells.Eq(1).Text()),
		})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return entries, nil
}
