package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesGlobPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		value    string
		want     bool
	}{
		{
			name:     "empty patterns matches all",
			patterns: []string{},
			value:    "anything",
			want:     true,
		},
		{
			name:     "exact match",
			patterns: []string{"v1.2.3"},
			value:    "v1.2.3",
			want:     true,
		},
		{
			name:     "no match",
			patterns: []string{"v1.2.3"},
			value:    "v2.0.0",
			want:     false,
		},
		{
			name:     "wildcard match",
			patterns: []string{"v1.*"},
			value:    "v1.2.3",
			want:     true,
		},
		{
			name:     "wildcard no match",
			patterns: []string{"v1.*"},
			value:    "v2.0.0",
			want:     false,
		},
		{
			name:     "question mark wildcard",
			patterns: []string{"v1.?"},
			value:    "v1.2",
			want:     true,
		},
		{
			name:     "negation excludes",
			patterns: []string{"v*", "!*-rc*"},
			value:    "v2.0.0-rc1",
			want:     false,
		},
		{
			name:     "negation allows non-matching",
			patterns: []string{"v*", "!*-rc*"},
			value:    "v2.0.0",
			want:     true,
		},
		{
			name:     "only negation defaults to match",
			patterns: []string{"!*-beta*"},
			value:    "v1.0.0",
			want:     true,
		},
		{
			name:     "only negation excludes matched",
			patterns: []string{"!*-beta*"},
			value:    "v1.0.0-beta2",
			want:     false,
		},
		{
			name:     "multiple patterns one matches",
			patterns: []string{"v1.*", "v2.*", "v3.*"},
			value:    "v2.4.0",
			want:     true,
		},
		{
			name:     "multiple patterns none match",
			patterns: []string{"v1.*", "v2.*"},
			value:    "v3.0.0",
			want:     false,
		},
		{
			name:     "multiple negations",
			patterns: []string{"*", "!*-rc*", "!*-beta*"},
			value:    "v1.0.0-beta1",
			want:     false,
		},
		{
			name:     "match all except negations",
			patterns: []string{"*", "!nightly-*"},
			value:    "v1.0.0",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesGlobPatterns(tt.patterns, tt.value)
			assert.Equal(t, tt.want, got)
		})
	}
}
