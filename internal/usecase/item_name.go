package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// brandCasing maps lower-cased product words to their canonical spelling
var brandCasing = map[string]string{
	"iphone":  "iPhone",
	"ipad":    "iPad",
	"macbook": "MacBook",
	"airpods": "AirPods",
}

// noItemSentinels are values an item extractor returns when nothing was found
var noItemSentinels = map[string]bool{
	"":     true,
	"none": true,
}

// FormatItemName normalizes an extracted item name before it is sent upstream.
// Whitespace is collapsed, known brand words get their canonical casing and
// everything else is capitalized on the first letter only.
func FormatItemName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	lower := strings.ToLower(name)
	if canonical, ok := brandCasing[lower]; ok {
		return canonical
	}

	first, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(first)) + lower[size:]
}

// IsNoItem reports whether name means "no item was mentioned"
func IsNoItem(name string) bool {
	return noItemSentinels[strings.ToLower(strings.TrimSpace(name))]
}
