package console

import (
	"fmt"
	"strconv"
)

// LoginFailed means the console rejected the given credentials. This is
// an expected outcome the operator can act on, as opposed to a
// ScrapingError which means the page markup has drifted.
var LoginFailed = fmt.Errorf("failed to login to your account")

// ScrapingError reports that the remote page's structure did not match
// the expected shape at a specific location. It is always fatal to the
// current run, retrying will not help until the scraper is taught the
// new markup.
type ScrapingError struct {
	// a stable path such as "billing/history/td#"
	Location string
	// the offending observed value or count
	Value string
}

func (e ScrapingError) Error() string {
	return fmt.Sprintf("scrape %s: %q", e.Location, e.Value)
}

// TransportError reports a response the client cannot process, such as
// an unsupported content encoding. It is a hard precondition violation,
// not a transient fault.
type TransportError struct {
	Reason string
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport: %s", e.Reason)
}

type NotSupportedError struct {
	What string
}

func (e NotSupportedError) Error() string {
	return fmt.Sprintf("not supported: %s", e.What)
}

// expectOne asserts that exactly one candidate exists, returning a
// ScrapingError carrying the actual count otherwise.
func expectOne[T any](location string, candidates []T) (T, error) {
	if len(candidates) != 1 {
		var zero T
		return zero, ScrapingError{
			Location: location,
			Value:    strconv.Itoa(len(candidates)),
		}
	}
	return candidates[0], nil
}
