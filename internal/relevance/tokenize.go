// Package relevance scores tasks, email threads and docs against an anchor
// (a meeting or free text) and ranks them.
package relevance

import (
	"strings"
	"unicode/utf8"
)

const minTokenLen = 3

var punctuation = strings.NewReplacer(
	"(", " ", ")", " ", "[", " ", "]", " ",
	",", " ", ".", " ", ":", " ", ";", " ",
	"!", " ", "¿", " ", "?", " ",
)

// Tokenize lowercases s, blanks out the punctuation class ()[],.:;!¿? and
// returns the whitespace-separated tokens of at least three characters.
func Tokenize(s string) []string {
	fields := strings.Fields(punctuation.Replace(strings.ToLower(s)))
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			out = append(out, f)
		}
	}
	return out
}

// ExtractAddress returns the address inside "Display Name <addr>" when present,
// otherwise the whole string, trimmed and lowercased.
func ExtractAddress(s string) string {
	if open := strings.IndexByte(s, '<'); open >= 0 {
		if end := strings.IndexByte(s[open+1:], '>'); end > 0 {
			return strings.ToLower(strings.TrimSpace(s[open+1 : open+1+end]))
		}
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// DomainOf returns the part of addr after the last '@', or "" when there is none.
func DomainOf(addr string) string {
	at := strings.LastIndexByte(addr, '@')
	if at < 0 || at == len(addr)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(addr[at+1:]))
}

func containsAnyKeyword(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
