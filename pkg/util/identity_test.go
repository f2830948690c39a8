package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidNIB(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "Valid 13 digits", input: "1234567890123", want: true},
		{name: "Too short", input: "123456789012", want: false},
		{name: "Too long", input: "12345678901234", want: false},
		{name: "Contains letter", input: "123456789012a", want: false},
		{name: "Contains separator", input: "1234-56789012", want: false},
		{name: "Empty", input: "", want: false},
		{name: "Spaces", input: " 1234567890123", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidNIB(tt.input))
		})
	}
}

func TestIsValidNIK(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "Valid 16 digits", input: "3201234567890001", want: true},
		{name: "Too short", input: "320123456789000", want: false},
		{name: "Too long", input: "32012345678900011", want: false},
		{name: "Contains letter", input: "32012345678900x1", want: false},
		{name: "Empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidNIK(tt.input))
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "1234567890123", DigitsOnly("1234-5678.90123"))
	assert.Equal(t, "1234567890123", DigitsOnly(" 1234567890123 "))
	assert.Equal(t, "", DigitsOnly("abc"))
	assert.Equal(t, "42", DigitsOnly("4x2"))
}
