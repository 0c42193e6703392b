package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"Pad":     "%pad%",
		"_":       "%!_%",
		"100%":    "%100!%%",
		"b!b":     "%b!!b%",
		`back\sl`: `%back\sl%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, ContainsPattern(in), in)
	}
}
