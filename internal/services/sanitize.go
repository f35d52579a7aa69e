package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/uplift-technology/uplift-backend/internal/models"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
	"github.com/uplift-technology/uplift-backend/pkg/utils"
)

// Field value limits
const (
	MaxTextLength     = 8000
	MaxRichTextLength = 20000
)

// bluemonday's UGC policy plus tel: links; internal links keep their rel.
var richTextPolicy = newRichTextPolicy()

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowURLSchemes("mailto", "http", "https", "tel")
	p.RequireNoFollowOnLinks(false)
	return p
}

// FieldIssue is one rejected field or button.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SanitizeRichText returns value with only the markup allowed by the rich
// text policy.
func SanitizeRichText(value string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(value))
}

// SanitizeFields cleans every value according to its type and rejects values
// that cannot be made safe.
func SanitizeFields(in []FieldInput) ([]FieldInput, []FieldIssue) {
	var issues []FieldIssue
	out := make([]FieldInput, 0, len(in))
	for i, f := range in {
		name := fmt.Sprintf("fields[%d].value", i)
		switch f.Type {
		case models.FieldRichText:
			f.Value = SanitizeRichText(f.Value)
			if utf8.RuneCountInString(f.Value) > MaxRichTextLength {
				issues = append(issues, FieldIssue{name, fmt.Sprintf("Must be at most %d characters", MaxRichTextLength)})
			}
		case models.FieldImage:
			f.Value = strings.TrimSpace(f.Value)
			if err := utils.ValidateImageURL(f.Value); err != nil {
				issues = append(issues, FieldIssue{name, err.Error()})
			}
		case models.FieldLink:
			f.Value = strings.TrimSpace(f.Value)
			if err := utils.ValidateHref(f.Value); err != nil {
				issues = append(issues, FieldIssue{name, err.Error()})
			}
		default:
			f.Value = strings.TrimSpace(f.Value)
			if utf8.RuneCountInString(f.Value) > MaxTextLength {
				issues = append(issues, FieldIssue{name, fmt.Sprintf("Must be at most %d characters", MaxTextLength)})
			}
		}
		out = append(out, f)
	}
	return out, issues
}

// SanitizeButtons trims labels and checks every href.
func SanitizeButtons(in []ButtonInput) ([]ButtonInput, []FieldIssue) {
	var issues []FieldIssue
	out := make([]ButtonInput, 0, len(in))
	for i, b := range in {
		b.Label = strings.TrimSpace(b.Label)
		b.Href = strings.TrimSpace(b.Href)
		if err := utils.ValidateHref(b.Href); err != nil {
			issues = append(issues, FieldIssue{fmt.Sprintf("buttons[%d].href", i), err.Error()})
		}
		out = append(out, b)
	}
	return out, issues
}

func sanitizeBody(fields []FieldInput, buttons []ButtonInput) ([]FieldInput, []ButtonInput, error) {
	fields, issues := SanitizeFields(fields)
	buttons, buttonIssues := SanitizeButtons(buttons)
	issues = append(issues, buttonIssues...)
	if len(issues) > 0 {
		return nil, nil, apperrors.Validation("Request validation failed", issues)
	}
	return fields, buttons, nil
}
