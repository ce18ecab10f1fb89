package codegen

import (
	"go/token"
	"strings"
	"unicode"
)

const (
	fallbackTypeName    = "GeneratedSchema"
	fallbackPackageName = "generated"
)

// initialisms lists word spellings that Go style keeps fully upper-cased.
var initialisms = map[string]string{
	"api":   "API",
	"db":    "DB",
	"dns":   "DNS",
	"eta":   "ETA",
	"html":  "HTML",
	"http":  "HTTP",
	"https": "HTTPS",
	"id":    "ID",
	"ids":   "IDs",
	"ip":    "IP",
	"json":  "JSON",
	"sku":   "SKU",
	"sql":   "SQL",
	"ttl":   "TTL",
	"uri":   "URI",
	"url":   "URL",
	"urls":  "URLs",
	"utc":   "UTC",
	"uuid":  "UUID",
	"xml":   "XML",
}

// SanitizeTypeName turns a schema title into an exported Go identifier.
// Dashes and underscores separate words, each word gets an upper-case first
// rune, and anything that is not a letter or digit is dropped:
//
//	"order_event-v2" -> "OrderEventV2"
//	"" or "@@@"      -> "GeneratedSchema"
//	"2fa-request"    -> "Schema2faRequest"
func SanitizeTypeName(name string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(name)

	var b strings.Builder
	for _, word := range strings.Fields(spaced) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		for _, r := range runes {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
	}

	sanitized := b.String()
	if sanitized == "" {
		return fallbackTypeName
	}
	if unicode.IsDigit([]rune(sanitized)[0]) {
		return "Schema" + sanitized
	}
	return sanitized
}

// PackageName derives the Go package clause from a dotted namespace such as
// "Acme.Orders.Generated": the last segment, lower-cased, letters and digits only.
func PackageName(namespace string) string {
	segment := namespace
	if idx := strings.LastIndex(namespace, "."); idx >= 0 {
		segment = namespace[idx+1:]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(segment) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	name := b.String()
	switch {
	case name == "":
		return fallbackPackageName
	case unicode.IsDigit([]rune(name)[0]):
		return "schema" + name
	case token.IsKeyword(name):
		return name + "pkg"
	}
	return name
}

// ToGoName converts a JSON property name ("customer_id", "unitPrice",
// "shipping-address") into an exported Go identifier with initialisms
// ("CustomerID", "UnitPrice", "ShippingAddress").
func ToGoName(jsonName string) string {
	var b strings.Builder
	for _, w := range splitWords(jsonName) {
		if upper, ok := initialisms[strings.ToLower(w)]; ok {
			b.WriteString(upper)
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	name := b.String()
	if name == "" {
		return ""
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return "Field" + name
	}
	return name
}

// splitWords breaks an identifier at separators and camelCase boundaries.
// An upper-case run followed by a lower-case rune ends one rune early, so
// "HTTPServer" splits into "HTTP" and "Server".
func splitWords(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (len(current) > 1 && nextLower) {
				flush()
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

// lowerIdent returns an unexported variant of an exported identifier,
// suitable for a parameter name: "ID" -> "id", "URLPath" -> "urlPath".
func lowerIdent(name string) string {
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}

	switch {
	case upper == 0:
	case upper == len(runes) || upper == 1:
		for i := 0; i < upper; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	default:
		for i := 0; i < upper-1; i++ {
			runes[i] = unicode.ToLower(runes[i])
		}
	}

	ident := string(runes)
	if token.IsKeyword(ident) {
		return ident + "Value"
	}
	return ident
}
