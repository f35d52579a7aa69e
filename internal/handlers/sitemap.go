package handlers

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/internal/database"
	"github.com/uplift-technology/uplift-backend/internal/models"
)

// Sitemap Cache
var (
	sitemapCache     []byte
	sitemapRefreshed time.Time
	sitemapMutex     sync.RWMutex
	cacheDuration    = 6 * time.Hour
)

// SitemapEntry represents a single URL entry in the sitemap
type SitemapEntry struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod,omitempty"`
	ChangeFreq string   `xml:"changefreq,omitempty"`
	Priority   string   `xml:"priority,omitempty"`
}

// URLSet is the root element of the sitemap
type URLSet struct {
	XMLName xml.Name       `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	URLs    []SitemapEntry `xml:"url"`
}

func resetSitemapCache() {
	sitemapMutex.Lock()
	sitemapCache = nil
	sitemapMutex.Unlock()
}

func siteURL() string {
	return strings.TrimRight(config.AppConfig.SiteURL, "/")
}

// pagePath maps a layout slug to its localized path; "home" is the language root.
func pagePath(lang models.Language, slug string) string {
	if slug == "home" {
		return "/" + string(lang)
	}
	return fmt.Sprintf("/%s/%s", lang, slug)
}

func buildSitemap(c *gin.Context) ([]byte, error) {
	base := siteURL()
	urls := []SitemapEntry{}
	seen := map[string]bool{}
	add := func(e SitemapEntry) {
		if !seen[e.Loc] {
			seen[e.Loc] = true
			urls = append(urls, e)
		}
	}

	for _, lang := range models.Languages {
		add(SitemapEntry{Loc: base + "/" + string(lang), ChangeFreq: "weekly", Priority: "1.0"})
	}

	var layouts []models.PageLayout
	if err := database.DB.WithContext(c.Request.Context()).
		Select("slug, language, updated_at").
		Order("slug ASC").
		Find(&layouts).Error; err != nil {
		return nil, err
	}
	for _, l := range layouts {
		add(SitemapEntry{
			Loc:        base + pagePath(l.Language, l.Slug),
			LastMod:    l.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	var products []models.Product
	if err := database.DB.WithContext(c.Request.Context()).
		Select("slug, language, updated_at").
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		add(SitemapEntry{
			Loc:        fmt.Sprintf("%s/%s/products/%s", base, p.Language, p.Slug),
			LastMod:    p.UpdatedAt.Format("2006-01-02"),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}

	output, err := xml.MarshalIndent(URLSet{URLs: urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(xml.Header + string(output)), nil
}

// GenerateSitemap handles the dynamic sitemap generation with caching
func GenerateSitemap(c *gin.Context) {
	sitemapMutex.RLock()
	if sitemapCache != nil && time.Since(sitemapRefreshed) < cacheDuration {
		cached := sitemapCache
		sitemapMutex.RUnlock()
		c.Data(http.StatusOK, "application/xml", cached)
		return
	}
	sitemapMutex.RUnlock()

	finalXML, err := buildSitemap(c)
	if err != nil {
		c.Error(err)
		return
	}

	sitemapMutex.Lock()
	sitemapCache = finalXML
	sitemapRefreshed = time.Now()
	sitemapMutex.Unlock()

	c.Data(http.StatusOK, "application/xml", finalXML)
}

// GenerateRobotsTXT returns the robots.txt file
func GenerateRobotsTXT(c *gin.Context) {
	robots := `User-agent: *
Allow: /
Disallow: /admin
Disallow: /api

Sitemap: ` + siteURL() + `/sitemap.xml`

	c.String(http.StatusOK, robots)
}
