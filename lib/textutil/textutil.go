package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// NormalizeSpace trims surrounding whitespace and collapses any inner
// whitespace run, newlines included, into a single space.
func NormalizeSpace(s string) string {
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

func RemoveNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// the minus sign shows up both before and after the dollar sign in
// provider output, so both positions are accepted
var moneyRegex = regexp.MustCompile(`^-?\$-?\d+\.\d{2}$`)

// IsMoneyAmount reports whether s is a provider-formatted currency
// string: an optional minus, a dollar sign, one or more digits and
// exactly two decimal places. Amounts are validated, never parsed
// into a numeric type.
func IsMoneyAmount(s string) bool {
	return moneyRegex.MatchString(s)
}
