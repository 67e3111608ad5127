package termimage

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"
)

const (
	// ScriptPath is where the picker script is served and loaded from.
	ScriptPath = "/assets/taxonomy-term-image.js"
	// DefaultMediaURL is the media listing the picker reads attachments from.
	DefaultMediaURL = "/api/v1/admin/media?type=image"
)

//go:embed assets/taxonomy-term-image.js
var pickerScript []byte

// loadedAt stands in for the modification time of the embedded script.
var loadedAt = time.Now()

// ScriptHandler serves the script that wires the attach and remove buttons
// of the field to the media listing.
func ScriptHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.ServeContent(w, r, "taxonomy-term-image.js", loadedAt, bytes.NewReader(pickerScript))
	})
}
