package validation

import (
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var adminCodeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{1,49}$`)

var textPolicy = bluemonday.StrictPolicy()

const MinPasswordLen = 8

// Errors maps field names to messages. A non-empty Errors is returned as an
// error by services and rendered as a 422 by handlers.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Required records an error when value is blank.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, field+" is required")
	}
}

// MaxLen records an error when value exceeds max characters.
func (e Errors) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		e.Add(field, field+" must be at most "+strconv.Itoa(max)+" characters")
	}
}

// NoMarkup records an error when the strict policy would change value.
// Text is stored as typed, so anything that looks like a tag is refused
// instead of being silently stripped.
func (e Errors) NoMarkup(field, value string) {
	if html.UnescapeString(textPolicy.Sanitize(value)) != value {
		e.Add(field, field+" must not contain markup")
	}
}

// Err returns nil when no errors were recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidAdminCode(code string) bool {
	return adminCodeRe.MatchString(code)
}
