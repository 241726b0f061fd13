package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type.
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

type numberType struct{}

func (numberType) Name() string { return "number" }

func (numberType) Validate(value any) error {
	f, err := AsFloat(value)
	if err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected finite number, got %v", f)
	}
	return nil
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Validate(value any) error {
	f, err := AsFloat(value)
	if err != nil {
		return err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected whole number, got %v", value)
	}
	return nil
}

type customType struct {
	name     string
	validate func(any) error
}

func (t customType) Name() string { return t.name }

func (t customType) Validate(value any) error { return t.validate(value) }

// String accepts string values.
func String() Type { return stringType{} }

// Number accepts any finite numeric value, including numeric strings.
func Number() Type { return numberType{} }

// Int accepts whole numbers, including whole numeric strings and floats.
func Int() Type { return intType{} }

// Custom creates a type from a validation function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}

// Between returns a Number that must also lie within [min, max].
func Between(min, max float64) Type {
	name := fmt.Sprintf("number[%g..%g]", min, max)
	return Custom(name, func(v any) error {
		if err := Number().Validate(v); err != nil {
			return err
		}
		f, _ := AsFloat(v)
		if f < min || f > max {
			return fmt.Errorf("expected value between %g and %g, got %g", min, max, f)
		}
		return nil
	})
}

// AsFloat converts a numeric value, json.Number or numeric string to float64.
func AsFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("expected number, got %T", value)
}
