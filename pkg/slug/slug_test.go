// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/opsboard/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Weekly Latency", "weekly-latency"},
		{"accents", "Résumé Générale", "resume-generale"},
		{"punctuation", "Sessions: per-user (daily)!", "sessions-per-user-daily"},
		{"collapse_spacing", "weekly   load", "weekly-load"},
		{"leading_trailing", "--Weekly Load--", "weekly-load"},
		{"digits", "Top 10 Users", "top-10-users"},
		{"symbols_only", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}
