package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxSearchQueryLength is the longest accepted name search query, in runes.
	MaxSearchQueryLength = 100
	// MaxKeyLength is the longest accepted key/value store key.
	MaxKeyLength = 128
)

var (
	ErrQueryTooLong     = errors.New("search query too long")
	ErrQueryInvalid     = errors.New("search query contains invalid characters")
	ErrKeyEmpty         = errors.New("key must not be empty")
	ErrKeyTooLong       = errors.New("key too long")
	ErrKeyInvalidFormat = errors.New("key contains invalid characters")
)

// suspiciousPatterns flag SQL or script fragments in search input.
// Keywords only match as whole words so names like "Updike" pass.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(union|select|insert|update|delete|drop|create|alter|exec|execute)\b`),
	regexp.MustCompile(`(?i)\b(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(--|#|/\*|\*/|;)`),
	regexp.MustCompile(`(?i)\b(waitfor|benchmark|sleep)\b`),
	regexp.MustCompile(`(?i)(<script|javascript:|vbscript:|onload=|onerror=)`),
}

// ValidateSearchQuery trims a name search query and rejects input that is
// too long or looks like an injection attempt. An empty query is valid.
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if len([]rune(query)) > MaxSearchQueryLength {
		return "", ErrQueryTooLong
	}

	for _, p := range suspiciousPatterns {
		if p.MatchString(query) {
			return "", ErrQueryInvalid
		}
	}

	for _, r := range query {
		if !isSearchRune(r) {
			return "", ErrQueryInvalid
		}
	}

	return query, nil
}

func isSearchRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) ||
		r == ' ' || r == '-' || r == '_' || r == '.' || r == '@' || r == '+' || r == '\''
}

// EscapeLike escapes LIKE wildcards so they match literally. Use with
// ESCAPE '\'.
func EscapeLike(query string) string {
	query = strings.ReplaceAll(query, `\`, `\\`)
	query = strings.ReplaceAll(query, "%", `\%`)
	return strings.ReplaceAll(query, "_", `\_`)
}

// ValidateKey checks a key/value store key.
func ValidateKey(key string) error {
	if key == "" {
		return ErrKeyEmpty
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	for _, r := range key {
		if !(r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))) &&
			r != '-' && r != '_' && r != '.' && r != ':' {
			return ErrKeyInvalidFormat
		}
	}
	return nil
}
