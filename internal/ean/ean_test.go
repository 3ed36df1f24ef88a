package ean

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		input   string
		want    EAN
		wantErr error
	}{
		// EAN-13
		{"8718265638716", "8718265638716", nil},
		{"0000000000000", "0000000000000", nil},
		{"5901234123457", "5901234123457", nil},
		{"4006381333931", "4006381333931", nil},

		// Separators are stripped
		{"8 718265 638716", "8718265638716", nil},
		{"871-8265-638716", "8718265638716", nil},
		{" 4006381333931 ", "4006381333931", nil},

		// EAN-8 and UPC-A
		{"96385074", "96385074", nil},
		{"036000291452", "036000291452", nil},

		// Failures
		{"", "", ErrInvalidFormat},
		{"1", "", ErrInvalidLength},
		{"87182656387", "", ErrInvalidLength},
		{"87182656387160", "", ErrInvalidLength},
		{"87182656387a6", "", ErrInvalidFormat},
		{"8718265638717", "", ErrInvalidChecksum},
		{"96385075", "", ErrInvalidChecksum},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Validate(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidLengthIsFormatError(t *testing.T) {
	_, err := Validate("123")
	assert.ErrorIs(t, err, ErrInvalidLength)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.NotErrorIs(t, err, ErrInvalidChecksum)
}

func TestEveryWrongCheckDigitFails(t *testing.T) {
	for _, valid := range []string{"8718265638716", "5901234123457", "96385074", "036000291452"} {
		last := valid[len(valid)-1]
		for d := byte('0'); d <= '9'; d++ {
			if d == last {
				continue
			}
			code := valid[:len(valid)-1] + string(d)
			_, err := Validate(code)
			assert.ErrorIs(t, err, ErrInvalidChecksum, code)
		}
	}
}

func TestCheckDigit(t *testing.T) {
	d, err := CheckDigit("871826563871")
	require.NoError(t, err)
	assert.Equal(t, byte('6'), d)

	_, err = CheckDigit("12x")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"8718265638716", "8 718265 638716"},
		{"96385074", "9638 5074"},
		{"036000291452", "0 36000 29145 2"},
		{"8 718265 638716", "8 718265 638716"},
		{"123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.input))
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, raw := range []string{"8718265638716", "8 718265 638716", "96385074", "0 36000 29145 2"} {
		code, err := Validate(raw)
		require.NoError(t, err)
		assert.Equal(t, code.Format(), Format(Compact(raw)))

		again, err := Validate(code.Format())
		require.NoError(t, err)
		assert.Equal(t, code, again)
	}
}

func TestPrefix(t *testing.T) {
	code, err := Validate("8718265638716")
	require.NoError(t, err)
	assert.Equal(t, "8718265", code.Prefix())

	assert.True(t, ValidPrefix("0000000"))
	assert.False(t, ValidPrefix("000000"))
	assert.False(t, ValidPrefix("00000a0"))
}
