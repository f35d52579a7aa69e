package utils

import (
	"errors"
	"net/url"
	"strings"
)

const maxURLLength = 2048

var allowedImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".svg", ".avif"}

// CDNs that serve images without a file extension
var noExtensionImageHosts = []string{
	"images.unsplash.com",
	"imagedelivery.net",
	"res.cloudinary.com",
	"placehold.co",
}

func unsafeScheme(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "vbscript:") ||
		strings.Contains(lower, "<script")
}

// ValidateImageURL accepts site-relative paths and HTTPS URLs that point to an image.
func ValidateImageURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("image URL cannot be empty")
	}
	if len(raw) > maxURLLength {
		return errors.New("image URL too long (max 2048 characters)")
	}
	if unsafeScheme(raw) {
		return errors.New("unsafe image URL")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid image URL format")
	}

	relative := parsed.Scheme == "" && parsed.Host == "" && strings.HasPrefix(parsed.Path, "/")
	if !relative && parsed.Scheme != "https" {
		return errors.New("image URL must be a site path or use HTTPS")
	}

	lowerPath := strings.ToLower(parsed.Path)
	for _, ext := range allowedImageExtensions {
		if strings.HasSuffix(lowerPath, ext) {
			return nil
		}
	}
	for _, host := range noExtensionImageHosts {
		if parsed.Host == host || strings.HasSuffix(parsed.Host, "."+host) {
			return nil
		}
	}
	return errors.New("URL must point to an image file (.png, .jpg, .jpeg, .webp, .gif, .svg, .avif)")
}

// ValidateHref accepts site paths, anchors, http(s), mailto: and tel: links.
func ValidateHref(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("link cannot be empty")
	}
	if len(raw) > maxURLLength {
		return errors.New("link too long (max 2048 characters)")
	}
	if unsafeScheme(raw) {
		return errors.New("unsafe link")
	}
	if strings.HasPrefix(raw, "//") {
		return errors.New("protocol-relative links are not allowed")
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "#") {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid link format")
	}
	switch parsed.Scheme {
	case "http", "https":
		if parsed.Host == "" {
			return errors.New("link is missing a host")
		}
		return nil
	case "mailto", "tel":
		return nil
	}
	return errors.New("link must be a site path or an http(s), mailto: or tel: URL")
}
