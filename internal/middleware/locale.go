package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/models"
	"golang.org/x/text/language"
)

const (
	ContextLanguage = "lang"
	LocaleCookie    = "NEXT_LOCALE"
)

var localeMatcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Thai,
})

// NegotiateLanguage picks the site language: ?language= (or ?lang=), the
// NEXT_LOCALE cookie, Accept-Language, then the configured default.
func NegotiateLanguage(c *gin.Context) models.Language {
	for _, q := range []string{c.Query("language"), c.Query("lang")} {
		if lang := models.Language(q); lang.IsValid() {
			return lang
		}
	}

	if cookie, err := c.Cookie(LocaleCookie); err == nil {
		if lang := models.Language(cookie); lang.IsValid() {
			return lang
		}
	}

	if header := c.GetHeader("Accept-Language"); header != "" {
		if tags, _, err := language.ParseAcceptLanguage(header); err == nil && len(tags) > 0 {
			_, idx, conf := localeMatcher.Match(tags...)
			if conf != language.No {
				return models.Languages[idx]
			}
		}
	}

	if lang := models.Language(config.AppConfig.DefaultLanguage); lang.IsValid() {
		return lang
	}
	return models.LanguageEN
}

// LocaleMiddleware stores the negotiated language under "lang" and echoes it
// in Content-Language.
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := NegotiateLanguage(c)
		c.Set(ContextLanguage, string(lang))
		c.Header("Content-Language", string(lang))
		c.Next()
	}
}

// RequestLanguage returns the language set by LocaleMiddleware, negotiating
// on demand when the middleware did not run.
func RequestLanguage(c *gin.Context) models.Language {
	if lang := models.Language(c.GetString(ContextLanguage)); lang.IsValid() {
		return lang
	}
	return NegotiateLanguage(c)
}
