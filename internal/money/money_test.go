package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		minor int64
		want  string
	}{
		{0, "€0,00"},
		{5, "€0,05"},
		{4573, "€45,73"},
		{100000, "€1.000,00"},
		{123456, "€1.234,56"},
		{520000, "€5.200,00"},
		{123456789, "€1.234.567,89"},
		{-123456, "€-1.234,56"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.minor))
		})
	}
}

func TestFromMinor(t *testing.T) {
	assert.Equal(t, "45.73", FromMinor(4573).String())
	assert.True(t, FromMinor(13719).Equal(FromMinor(4573).Mul(FromMinor(300))))
}
