package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{12500, "12.500"},
		{1250000, "1.250.000"},
		{980, "980"},
		{18000.5, "18.000,5"},
	}
	for _, tt := range tests {
		got := formatPrice(tt.amount)
		assert.True(t, strings.HasPrefix(got, "$"), got)
		assert.Contains(t, got, tt.want)
	}
}
