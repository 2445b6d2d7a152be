package match

import (
	"strings"
	"unicode"
)

// keySuffixes are the words that mark a member as a key or reference
// rather than naming what it holds. Longest first.
var keySuffixes = []string{"ids", "key", "ref", "id"}

// TokenizeIdent splits an identifier into lowercase words. Separators
// (underscore, dash, space) end a word, as do a lower-to-upper transition
// and the last capital of an acronym followed by a lowercase letter:
//
//	OrderID         -> order id
//	getHTTPResponse -> get http response
//	price_cents     -> price cents
func TokenizeIdent(s string) []string {
	var (
		words []string
		start = -1
	)

	runes := []rune(s)

	flush := func(end int) {
		if start >= 0 {
			words = append(words, strings.ToLower(string(runes[start:end])))
			start = -1
		}
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush(i)
			continue
		}

		if start >= 0 && wordBreak(runes, i) {
			flush(i)
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(runes))

	return words
}

// Fold reduces an identifier to its lowercase words run together, so that
// OrderID, order_id and orderId compare equal.
func Fold(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// FoldKey is Fold without a trailing key word, so CustomerID and
// customer_ref both fold to "customer". A name made only of the key word
// keeps it.
func FoldKey(s string) string {
	folded := Fold(s)

	for _, suffix := range keySuffixes {
		if len(folded) > len(suffix) && strings.HasSuffix(folded, suffix) {
			return strings.TrimSuffix(folded, suffix)
		}
	}

	return folded
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// wordBreak reports whether a new word starts at runes[i], i > 0.
func wordBreak(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i]) {
		return false
	}

	if !unicode.IsUpper(runes[i-1]) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
