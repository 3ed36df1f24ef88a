// Package ean validates and normalises EAN/UPC barcodes.
package ean

import (
	"errors"
	"fmt"
	"strings"
)

// PrefixLength is the number of leading digits that identify a brand.
const PrefixLength = 7

var (
	ErrInvalidFormat   = errors.New("ean: invalid format")
	ErrInvalidLength   = fmt.Errorf("%w: invalid length", ErrInvalidFormat)
	ErrInvalidChecksum = errors.New("ean: invalid checksum")
)

// EAN is a validated barcode in compact (digits only) form.
type EAN string

// Compact strips the separators people type or scanners emit.
func Compact(raw string) string {
	r := strings.NewReplacer(" ", "", "-", "")
	return strings.TrimSpace(r.Replace(raw))
}

// CheckDigit computes the weighted mod-10 check digit for payload,
// which is the code without its last digit.
func CheckDigit(payload string) (byte, error) {
	if !isDigits(payload) {
		return 0, ErrInvalidFormat
	}
	sum := 0
	for i := 0; i < len(payload); i++ {
		d := int(payload[len(payload)-1-i] - '0')
		if i%2 == 0 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10), nil
}

// Validate compacts raw and checks digits, length and check digit.
// Accepted lengths are 8 (EAN-8), 12 (UPC-A) and 13 (EAN-13).
func Validate(raw string) (EAN, error) {
	code := Compact(raw)
	if !isDigits(code) {
		return "", ErrInvalidFormat
	}
	switch len(code) {
	case 8, 12, 13:
	default:
		return "", ErrInvalidLength
	}
	want, _ := CheckDigit(code[:len(code)-1])
	if code[len(code)-1] != want {
		return "", ErrInvalidChecksum
	}
	return EAN(code), nil
}

// Format returns the human readable grouping printed under a barcode.
// Input that is not 8, 12 or 13 digits after compaction is returned compacted.
func Format(raw string) string {
	code := Compact(raw)
	switch len(code) {
	case 13:
		return code[:1] + " " + code[1:7] + " " + code[7:]
	case 12:
		return code[:1] + " " + code[1:6] + " " + code[6:11] + " " + code[11:]
	case 8:
		return code[:4] + " " + code[4:]
	}
	return code
}

// Prefix is the brand identifier: the first PrefixLength digits.
func (e EAN) Prefix() string {
	if len(e) < PrefixLength {
		return string(e)
	}
	return string(e[:PrefixLength])
}

// Format returns the display form of e.
func (e EAN) Format() string { return Format(string(e)) }

func (e EAN) String() string { return string(e) }

// ValidPrefix reports whether s looks like a brand prefix.
func ValidPrefix(s string) bool {
	return len(s) == PrefixLength && isDigits(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
