package console

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serveGzip(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html")
	w.Header().Set("Content-Encoding", "gzip")
	gz := gzip.NewWriter(w)
	gz.Write([]byte(body))
	gz.Close()
}

func newTestClient(t *testing.T, baseUrl string) *Client {
	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl: baseUrl,
	})
	require.NoError(t, err)
	return client
}

func TestFetch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "xyz"})
		serveGzip(w, `<html><body><h1>hello</h1></body></html>`)
	})
	var gotCookie string
	mux.HandleFunc("/second", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err == nil {
			gotCookie = cookie.Value
		}
		serveGzip(w, `<html><body></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	page, err := client.Fetch(context.Background(), "/page")
	require.NoError(t, err)
	require.Equal(t, "hello", page.Doc.Find("h1").Text())
	require.Equal(t, srv.URL+"/page", page.URL.String())

	// cookies persist across calls on the same client
	_, err = client.Fetch(context.Background(), "/second")
	require.NoError(t, err)
	require.Equal(t, "xyz", gotCookie)
}

func TestFetchGzipBody(t *testing.T) {
	// the body must come out decoded exactly once, as parseable markup
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveGzip(w, `<html><body><h2>Your credit</h2><div><span>$100.00</span></div></body></html>`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	page, err := client.Fetch(context.Background(), "/")
	require.NoError(t, err)
	require.Equal(t, "Your credit", page.Doc.Find("h2").Text())
	require.Equal(t, "$100.00", page.Doc.Find("span").Text())
}

func TestFetchUnexpectedEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// plain body, no content-encoding header
		w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Fetch(context.Background(), "/")
	var terr TransportError
	require.ErrorAs(t, err, &terr)
	require.Contains(t, terr.Reason, "content encoding")
}

func TestSubmitForm(t *testing.T) {
	var posted map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("/form", func(w http.ResponseWriter, r *http.Request) {
		serveGzip(w, `
			<html><body>
			<form action="/submit" method="post">
				<input name="email" value="">
				<input type="hidden" name="csrf" value="abc123">
			</form>
			</body></html>`)
	})
	mux.HandleFunc("/submit", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.NoError(t, r.ParseForm())
		posted = r.PostForm
		serveGzip(w, `<html><body><p>done</p></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	page, err := client.Fetch(context.Background(), "/form")
	require.NoError(t, err)
	form, err := expectOne("test/forms#", page.Forms())
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/submit", form.Action)

	result, err := client.SubmitForm(context.Background(), form, map[string]string{
		"email": "person@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "done", result.Doc.Find("p").Text())

	// overrides applied on top of the harvested values
	require.Equal(t, []string{"person@example.com"}, posted["email"])
	require.Equal(t, []string{"abc123"}, posted["csrf"])
}

func TestSubmitFormMethodNotSupported(t *testing.T) {
	client := newTestClient(t, "http://console.invalid")

	form := Form{Action: "http://console.invalid/search", Method: "get"}
	_, err := client.SubmitForm(context.Background(), form, nil)
	var nerr NotSupportedError
	require.ErrorAs(t, err, &nerr)
}

func TestExpectOne(t *testing.T) {
	_, err := expectOne("login/forms#", []int{})
	require.Equal(t, ScrapingError{Location: "login/forms#", Value: "0"}, err)

	_, err = expectOne("login/forms#", []int{1, 2})
	require.Equal(t, ScrapingError{Location: "login/forms#", Value: "2"}, err)

	v, err := expectOne("login/forms#", []int{7})
	require.NoError(t, err)
	require.Equal(t, 7, v)
}
