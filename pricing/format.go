package pricing

import "math"

// Formatter turns a net amount into the price shown to employees.
type Formatter interface {
	FormatPrice(raw float64) float64
}

// TruncatingFormatter cuts prices to cents without rounding.
type TruncatingFormatter struct{}

func (TruncatingFormatter) FormatPrice(raw float64) float64 {
	return FormatPrice(raw)
}

// FormatPrice truncates raw toward zero at two decimal places: 21.7897
// formats to 21.78, never 21.79.
//
// Truncation is applied to the binary display value, so a net of 71.1
// (stored as 71.0999...) displays as 71.09.
func FormatPrice(raw float64) float64 {
	return math.Trunc(raw*100) / 100
}
