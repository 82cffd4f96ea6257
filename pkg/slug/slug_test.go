// Copyright (c) 2026 Revora. All rights reserved.

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revora-app/revora/pkg/slug"
)

/*
TestFrom covers the name-to-slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Movies", "movies"},
		{"spaces", "Science Fiction", "science-fiction"},
		{"accents", "Café Culture", "cafe-culture"},
		{"punctuation", "Rock'n'Roll!", "rock-n-roll"},
		{"multiple_separators", "A  --  B", "a-b"},
		{"leading_trailing", "  Top 10  ", "top-10"},
		{"already_slug", "sci-fi", "sci-fi"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
