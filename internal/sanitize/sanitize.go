// Package sanitize cleans caller-supplied text before it reaches the advisor,
// the logs or a terminal.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/parcel/pkg/domain"
)

var (
	// MaxFieldSize bounds a single string value of a property.
	MaxFieldSize = 4096
	// MaxTextSize bounds free text submitted for policy validation.
	MaxTextSize = 64 * 1024
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Text enforces limit, validates UTF-8 and strips control characters other
// than newline, tab and carriage return. Oversized input is rejected, never
// truncated.
func Text(input string, limit int) (string, error) {
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// Property returns a copy of p with every string value, nested ones
// included, passed through Text with MaxFieldSize.
func Property(p domain.PropertyInput) (domain.PropertyInput, error) {
	if p == nil {
		return nil, nil
	}
	out, err := sanitizeMap(p, "")
	if err != nil {
		return nil, err
	}
	return domain.PropertyInput(out), nil
}

func sanitizeMap(src map[string]any, prefix string) (map[string]any, error) {
	out := make(map[string]any, len(src))
	for k, v := range src {
		path := prefix + k
		switch val := v.(type) {
		case string:
			s, err := Text(val, MaxFieldSize)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", path, err)
			}
			out[k] = s
		case map[string]any:
			sub, err := sanitizeMap(val, path+".")
			if err != nil {
				return nil, err
			}
			out[k] = sub
		default:
			out[k] = v
		}
	}
	return out, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
