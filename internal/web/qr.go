package web

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"regexp"

	qrcode "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/scmmishra/inorder/internal/handlers"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// SeriesQRCode renders a PNG QR code pointing at the canonical series page.
// Query params: shape=circle, fg=#rrggbb, dl=1 for a download.
func (h *SiteHandler) SeriesQRCode(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	s, err := h.catalog.SeriesBySlug(ctx, handlers.SlugParam(r))
	if err != nil {
		h.lookupFailed(w, r, "series", err)
		return
	}

	opts := []standard.ImageOption{
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
		standard.WithBorderWidth(16),
		standard.WithBgTransparent(),
	}
	if r.URL.Query().Get("shape") == "circle" {
		opts = append(opts, standard.WithCircleShape())
	}
	if fg := r.URL.Query().Get("fg"); hexColorRe.MatchString(fg) {
		opts = append(opts, standard.WithFgColorRGBHex(fg))
	}

	qrc, err := qrcode.New(h.canonical(s.URL))
	if err != nil {
		http.Error(w, "failed to generate qr code", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := qrc.Save(standard.NewWithWriter(nopCloser{&buf}, opts...)); err != nil {
		http.Error(w, "failed to render qr code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if r.URL.Query().Get("dl") == "1" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.Slug + "-qr.png"}))
	}
	w.Write(buf.Bytes())
}
