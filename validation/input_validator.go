// Package validation provides input validation for chat messages and
// medication search terms.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/bulario-chat/interfaces"
)

// DefaultMaxMessageLength is used when no limit is configured.
const DefaultMaxMessageLength = 4000

var (
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrEmptySearchTerm = errors.New("search term cannot be empty")
)

// Compile-time check to ensure InputValidatorImpl implements InputValidator
var _ interfaces.InputValidator = (*InputValidatorImpl)(nil)

// InputValidatorImpl implements the interfaces.InputValidator interface
type InputValidatorImpl struct {
	maxMessageLength int
}

// NewInputValidator creates a validator; a non-positive limit falls back
// to DefaultMaxMessageLength.
func NewInputValidator(maxMessageLength int) *InputValidatorImpl {
	if maxMessageLength <= 0 {
		maxMessageLength = DefaultMaxMessageLength
	}
	return &InputValidatorImpl{maxMessageLength: maxMessageLength}
}

// ValidateMessage checks an inbound chat message
func (v *InputValidatorImpl) ValidateMessage(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	if !utf8.ValidString(text) {
		return fmt.Errorf("message is not valid UTF-8")
	}

	if n := utf8.RuneCountInString(text); n > v.maxMessageLength {
		return fmt.Errorf("message too long: %d characters, maximum %d", n, v.maxMessageLength)
	}

	if hasControlCharacters(text) {
		return fmt.Errorf("message contains control characters")
	}

	return nil
}

// NormalizeSearchTerm trims and lower-cases a lookup term
func (v *InputValidatorImpl) NormalizeSearchTerm(term string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(term))
	if normalized == "" {
		return "", ErrEmptySearchTerm
	}
	return normalized, nil
}

// hasControlCharacters reports control characters other than line breaks and tabs
func hasControlCharacters(text string) bool {
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
