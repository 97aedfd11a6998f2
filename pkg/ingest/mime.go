package ingest

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const fallbackMimeType = "application/octet-stream"

// GuessMimeType resolves a mime type for an upload: by extension first,
// then by content sniffing, then the generic fallback.
func GuessMimeType(filename string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		// Strip optional parameters like "; charset=utf-8".
		if i := strings.Index(byExt, ";"); i >= 0 {
			byExt = strings.TrimSpace(byExt[:i])
		}
		return byExt
	}
	if len(data) > 0 {
		if sniffed := http.DetectContentType(data); sniffed != fallbackMimeType {
			if i := strings.Index(sniffed, ";"); i >= 0 {
				sniffed = strings.TrimSpace(sniffed[:i])
			}
			return sniffed
		}
	}
	return fallbackMimeType
}
