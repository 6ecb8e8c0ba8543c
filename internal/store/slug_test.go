package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugToName(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"physics", "Physics"},
		{"quantum-mechanics", "Quantum Mechanics"},
		{"error_handling", "Error Handling"},
		{"mixed-style_slug", "Mixed Style Slug"},
		{"already Spaced", "Already Spaced"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugToName(tt.slug))
		})
	}
}
