// Package finance computes deterministic investment metrics for a rental property.
//
// Calculate is the typed entry point and fails fast on invalid inputs. Run wraps
// it for transport boundaries: it never errors, returning either the rounded
// metrics with the formulas used or an error payload. Values are kept at full
// precision internally and rounded to cents only when a Result is built.
package finance
