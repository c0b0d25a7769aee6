// Package attachment inspects optional base64 file payloads sent alongside token arrays.
package attachment

import (
	"encoding/base64"
	"math"
	"net/http"
	"strings"

	"github.com/h2non/filetype"
)

// Info describes a decoded attachment. Valid is false when the payload is not base64.
type Info struct {
	Valid    bool    `json:"file_valid"`
	MIMEType string  `json:"file_mime_type,omitempty"`
	SizeKB   float64 `json:"file_size_kb,omitempty"`
}

// Inspect decodes b64 and sniffs its MIME type. It returns nil when no payload was supplied.
// A "data:<mime>;base64," prefix is accepted and stripped.
func Inspect(b64 string) *Info {
	b64 = strings.TrimSpace(b64)
	if b64 == "" {
		return nil
	}
	if strings.HasPrefix(b64, "data:") {
		if i := strings.Index(b64, ","); i >= 0 {
			b64 = b64[i+1:]
		}
	}
	data, err := decode(b64)
	if err != nil || len(data) == 0 {
		return &Info{Valid: false}
	}
	return &Info{
		Valid:    true,
		MIMEType: sniff(data),
		SizeKB:   math.Round(float64(len(data))/1024*100) / 100,
	}
}

func decode(s string) ([]byte, error) {
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// sniff prefers magic-number matching and falls back to net/http's content sniffing,
// which also recognises plain text.
func sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	ct := http.DetectContentType(data)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct
}
