package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Tyson Family", "tyson-family"},
		{"punctuation runs", "Smith's  Ski -- Trip!!", "smith-s-ski-trip"},
		{"accents folded", "Café Émilie Crew", "cafe-emilie-crew"},
		{"leading and trailing junk", "  ***Big Sky 2025***  ", "big-sky-2025"},
		{"digits kept", "Class of 99", "class-of-99"},
		{"only symbols", "!!!", "group"},
		{"empty", "", "group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlug(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Regexp(t, slugPattern, got)
		})
	}
}

func TestSlugCandidate(t *testing.T) {
	assert.Equal(t, "tyson-family", SlugCandidate("tyson-family", 0))
	assert.Equal(t, "tyson-family-1", SlugCandidate("tyson-family", 1))
	assert.Equal(t, "tyson-family-12", SlugCandidate("tyson-family", 12))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "bring extra socks", SanitizeText("<b>bring</b> extra <script>alert(1)</script>socks"))
	assert.Equal(t, "size 10 & wide", SanitizeText("size 10 & wide"))
	assert.Equal(t, "", SanitizeText("   "))
}

func TestNewPaginationParams(t *testing.T) {
	p := NewPaginationParams(3, 10)
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, p)

	p = NewPaginationParams(0, 1000)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
