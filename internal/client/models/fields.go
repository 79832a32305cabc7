package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrIncorrectField = errors.New("field must be name=value")

// DateLayout is the day-precision format accepted for dates.
const DateLayout = "2006-01-02"

// Fields is a set of name=value pairs typed by the user.
type Fields map[string]string

// ParseFields parses "name=value" lines. Names are lower-cased and trimmed;
// the value may itself contain '='.
func ParseFields(lines []string) (Fields, error) {
	f := make(Fields, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrIncorrectField, line)
		}
		f[name] = strings.TrimSpace(value)
	}
	return f, nil
}

func (f Fields) String(name string) string {
	return f[name]
}

// Decimal returns zero for a missing field.
func (f Fields) Decimal(name string) (decimal.Decimal, error) {
	v, ok := f[name]
	if !ok || v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// NullDecimal returns an invalid NullDecimal for a missing field.
func (f Fields) NullDecimal(name string) (decimal.NullDecimal, error) {
	v, ok := f[name]
	if !ok || v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: %w", name, err)
	}
	return decimal.NewNullDecimal(d), nil
}

// Date parses a DateLayout value; a missing field yields def.
func (f Fields) Date(name string, def time.Time) (time.Time, error) {
	v, ok := f[name]
	if !ok || v == "" {
		return def, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

// OptionalDate is Date for nullable columns.
func (f Fields) OptionalDate(name string) (*time.Time, error) {
	v, ok := f[name]
	if !ok || v == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

func (f Fields) Bool(name string) bool {
	switch strings.ToLower(f[name]) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
