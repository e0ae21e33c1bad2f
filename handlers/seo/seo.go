package seo

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gradglobe/counsel-api/model"
	"github.com/gradglobe/counsel-api/utils/response"
	"gorm.io/gorm"
)

// SEOHandler serves the derived SEO documents
type SEOHandler struct {
	db      *gorm.DB
	baseURL string
}

// NewSEOHandler creates a new SEO handler
func NewSEOHandler(db *gorm.DB, baseURL string) *SEOHandler {
	return &SEOHandler{db: db, baseURL: baseURL}
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap handles GET /api/sitemap.xml: static pages plus one entry per
// university and course.
func (h *SEOHandler) Sitemap(c *fiber.Ctx) error {
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: h.baseURL + "/"},
			{Loc: h.baseURL + "/universities"},
			{Loc: h.baseURL + "/courses"},
			{Loc: h.baseURL + "/counselors"},
			{Loc: h.baseURL + "/tutorials"},
		},
	}

	var universities []model.University
	if err := h.db.Order("id").Find(&universities).Error; err != nil {
		return response.InternalServerError(c, "Failed to build sitemap")
	}
	for _, u := range universities {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/universities/%d", h.baseURL, u.ID),
			LastMod: u.UpdatedAt.Format(time.DateOnly),
		})
	}

	var courses []model.Course
	if err := h.db.Order("id").Find(&courses).Error; err != nil {
		return response.InternalServerError(c, "Failed to build sitemap")
	}
	for _, course := range courses {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     fmt.Sprintf("%s/courses/%d", h.baseURL, course.ID),
			LastMod: course.UpdatedAt.Format(time.DateOnly),
		})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return response.InternalServerError(c, "Failed to build sitemap")
	}

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(xml.Header + string(data))
}

// Robots handles GET /robots.txt
func (h *SEOHandler) Robots(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(fmt.Sprintf(
		"User-agent: *\nDisallow: /api/admin/\nSitemap: %s/api/sitemap.xml\n",
		h.baseURL,
	))
}
