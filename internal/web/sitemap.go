package web

import (
	"encoding/xml"
	"net/http"

	"github.com/scmmishra/inorder/internal/logging"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Static routes listed ahead of the catalog, relative to the base URL.
var sitemapStatic = []string{"", "/search", "/authors"}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

// Sitemap enumerates every author and series. A store failure is a 500,
// never a partial sitemap.
func (h *SiteHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	authors, err := h.listAuthors(r.Context())
	if err != nil {
		logging.Component("web").Error().Err(err).Msg("sitemap authors")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	series, err := h.listSeries(r.Context())
	if err != nil {
		logging.Component("web").Error().Err(err).Msg("sitemap series")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	set := urlset{XMLNS: sitemapNS}
	for _, p := range sitemapStatic {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.canonical(p), ChangeFreq: "daily", Priority: 1})
	}
	for _, a := range authors {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.canonical(a.URL), ChangeFreq: "weekly", Priority: 0.8})
	}
	for _, s := range series {
		set.URLs = append(set.URLs, sitemapURL{Loc: h.canonical(s.URL), ChangeFreq: "weekly", Priority: 0.8})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	w.Write(out)
}
