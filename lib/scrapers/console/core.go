package console

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"cloudbill/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/console")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput must be called before NewClient to take
// effect.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	// path to a PEM bundle overriding the system trust store
	CACertFile string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	// requesting gzip by hand keeps net/http from decoding bodies
	// behind our back, the session owns the one supported encoding
	client.SetHeader("accept-encoding", "gzip")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	if opts.CACertFile != "" {
		client.SetRootCertificate(opts.CACertFile)
	}

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}
	return c, nil
}

// page parses a response into a Page, enforcing the single supported
// response encoding. Anything the server sends that isn't gzip is a
// contract violation, not a condition worth recovering from. resty has
// already gunzipped the body by the time it hands the response over,
// so the header is asserted and the body consumed as-is.
func page(res *resty.Response) (Page, error) {
	encoding := res.Header().Get("Content-Encoding")
	if encoding != "gzip" {
		return Page{}, TransportError{
			Reason: fmt.Sprintf("unexpected content encoding %q", encoding),
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return Page{}, err
	}
	return Page{
		// the URL the response was finally served from, after redirects
		URL: res.RawResponse.Request.URL,
		Doc: doc,
	}, nil
}

// Fetch GETs path relative to the base URL and parses the body into a
// Page.
func (c *Client) Fetch(ctx context.Context, path string) (Page, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Page{}, err
	}
	return page(res)
}

// SubmitForm serializes the form's field values, after overrides have
// been applied, and POSTs them to the form's action URL. Only POST
// submission is supported.
func (c *Client) SubmitForm(ctx context.Context, form Form, overrides map[string]string) (Page, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitForm")
	defer span.End()

	if !strings.EqualFold(form.Method, "post") {
		err := NotSupportedError{What: fmt.Sprintf("form method %q", form.Method)}
		span.SetStatus(codes.Error, err.Error())
		return Page{}, err
	}

	for name, value := range overrides {
		form.Values.Set(name, value)
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/x-www-form-urlencoded").
		SetBody(form.Values.Encode()).
		Post(form.Action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit form")
		return Page{}, err
	}
	return page(res)
}

// Logout terminates the authenticated session on the server side. The
// response body is not inspected.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Logout")
	defer span.End()

	_, err := c.Http.R().
		SetContext(ctx).
		Get("/logout")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to logout")
	}
	return err
}
