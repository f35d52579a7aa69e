package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		url string
		ok  bool
	}{
		{"/images/hero/home.webp", true},
		{"https://cdn.uplift.test/products/hr.PNG", true},
		{"https://images.unsplash.com/photo-123?w=1200", true},
		{"http://cdn.uplift.test/a.png", false},
		{"https://cdn.uplift.test/page.html", false},
		{"data:image/png;base64,AAAA", false},
		{"javascript:alert(1)", false},
		{"images/relative.png", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateImageURL(tt.url)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateHref(t *testing.T) {
	valid := []string{"/th/contact", "#pricing", "https://uplift.test", "http://example.com/x", "mailto:hello@uplift.test", "tel:+6621234567"}
	for _, href := range valid {
		assert.NoError(t, ValidateHref(href), href)
	}
	invalid := []string{"", "javascript:void(0)", " JavaScript:alert(1)", "//evil.test", "ftp://files.test", "https://", "contact"}
	for _, href := range invalid {
		assert.Error(t, ValidateHref(href), href)
	}
}
