// Package naming converts Go identifiers between casing conventions used for
// table and column names.
package naming

import (
	"strings"
	"unicode"

	"table-mapper/internal/match"
)

// Snake converts an identifier to snake_case.
// Examples: UserName -> user_name, HTTPServer -> http_server, OrderID -> order_id
func Snake(s string) string {
	return strings.Join(match.TokenizeIdent(s), "_")
}

// Pascal converts an identifier to PascalCase.
// Examples: user_name -> UserName, order_id -> OrderId
func Pascal(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, tok := range match.TokenizeIdent(s) {
		runes := []rune(tok)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	return b.String()
}

// Camel converts an identifier to camelCase.
// Examples: user_name -> userName, UserName -> userName
func Camel(s string) string {
	pascal := Pascal(s)
	if pascal == "" {
		return ""
	}

	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])

	return string(runes)
}

// Qualified returns the dot-separated qualified name (schema.table or table).
func Qualified(schema, table string) string {
	if schema == "" {
		return table
	}

	return schema + "." + table
}
