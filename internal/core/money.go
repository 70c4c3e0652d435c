// Package core provides money parsing and handling utilities.
//
// This file contains functions for checking amounts typed by the user
// and converting between cents and display representations.
package core

import (
	"math"
	"strconv"
	"strings"
)

type Money struct {
	Cents int64
}

// NormalizeAmount checks that s is a plain decimal greater than zero and
// returns it with a dot separator: "12,5" becomes "12.5". Positivity is
// decided on the digits as written, so "0.004" is accepted even though it
// rounds to zero cents.
func NormalizeAmount(s string) (string, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return "", ErrInvalidAmount
	}
	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") || (intPart == "" && fracPart == "") {
		return "", ErrInvalidAmount
	}
	positive := false
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return "", ErrInvalidAmount
		}
		if r != '0' {
			positive = true
		}
	}
	if !positive {
		return "", ErrInvalidAmount
	}
	intPart = strings.TrimLeft(intPart, "0")
	if intPart == "" {
		intPart = "0"
	}
	if !hasDot || fracPart == "" {
		return intPart, nil
	}
	return intPart + "." + fracPart, nil
}

// MoneyFromAmount converts an API amount to cents, rounding half away from zero.
func MoneyFromAmount(amount float64) Money {
	return Money{Cents: int64(math.Round(amount * 100))}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Dollars returns the value as a float64 for display purposes.
// Use cents for calculations.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// String renders the shortest decimal form: 100, 100.5, 100.25.
func (m Money) String() string {
	return FormatAmount(m.Dollars())
}

// FormatAmount renders an API amount the way the table and totals show it.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
