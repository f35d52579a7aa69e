package services

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"github.com/uplift-technology/uplift-backend/internal/testutil"
	apperrors "github.com/uplift-technology/uplift-backend/pkg/errors"
)

func TestSanitizeRichText(t *testing.T) {
	t.Run("keeps safe markup", func(t *testing.T) {
		out := SanitizeRichText(`<p>Hello <strong>team</strong> <a href="/th/contact">contact</a> <a href="tel:+6621234567">call</a></p>`)
		assert.Equal(t, `<p>Hello <strong>team</strong> <a href="/th/contact">contact</a> <a href="tel:+6621234567">call</a></p>`, out)
	})

	t.Run("drops scripts and handlers", func(t *testing.T) {
		out := SanitizeRichText(`<p onclick="steal()">Hello <script type="text/javascript">
alert(1)
</script><a href="javascript:alert(2)">link</a></p>`)
		assert.Equal(t, "<p>Hello link</p>", out)
	})

	hostile := []string{
		`<scr<script></script>ipt>alert(1)</script>`,
		`<svg/onload=alert(1)>`,
		`<img src=x onerror&#61;alert(1)>`,
		`<a href="jav&#x61;script:alert(1)">x</a>`,
		`<iframe src="https://evil.test"></iframe>`,
		`<div style="background:url(javascript:alert(1))">x</div>`,
	}
	for _, in := range hostile {
		t.Run(in, func(t *testing.T) {
			out := strings.ToLower(SanitizeRichText(in))
			assert.NotContains(t, out, "<script")
			assert.NotContains(t, out, "onload")
			assert.NotContains(t, out, "onerror")
			assert.NotContains(t, out, "javascript")
			assert.NotContains(t, out, "<svg")
			assert.NotContains(t, out, "<iframe")
		})
	}
}

func TestSanitizeFields(t *testing.T) {
	fields, issues := SanitizeFields([]FieldInput{
		{Key: "title", Value: "  Hello  "},
		{Key: "body", Value: "<b>ok</b><script>x()</script>", Type: models.FieldRichText},
		{Key: "image", Value: "javascript:alert(1)", Type: models.FieldImage},
		{Key: "more", Value: "ftp://files.test", Type: models.FieldLink},
	})
	require.Len(t, fields, 4)
	assert.Equal(t, "Hello", fields[0].Value)
	assert.Equal(t, "<b>ok</b>", fields[1].Value)
	require.Len(t, issues, 2)
	assert.Equal(t, "fields[2].value", issues[0].Field)
	assert.Equal(t, "fields[3].value", issues[1].Field)
}

func TestCreateContent_RejectsUnsafeValues(t *testing.T) {
	db := testutil.SetupDB(t)
	in := ContentInput{
		PageSlug:    "home",
		SectionType: "hero",
		Language:    models.LanguageEN,
		Title:       "Hero",
		Buttons:     []ButtonInput{{Label: "Click", Href: "javascript:alert(1)"}},
	}

	_, err := CreateContent(context.Background(), db, in, "admin")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, []FieldIssue{{Field: "buttons[0].href", Message: "unsafe link"}}, appErr.Details)

	var count int64
	db.Model(&models.Content{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateContent_SanitizesRichText(t *testing.T) {
	db := testutil.SetupDB(t)
	ctx := context.Background()
	c := newSection(t, db, models.LanguageEN, "About")

	fields := []FieldInput{{Key: "body", Value: `<p onmouseover="x()">Team</p>`, Type: models.FieldRichText}}
	updated, err := UpdateContent(ctx, db, c.ID, ContentPatch{Fields: &fields}, "admin")
	require.NoError(t, err)
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, "<p>Team</p>", updated.Fields[0].Value)
}
