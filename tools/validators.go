package tools

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var dataURLPattern = regexp.MustCompile(`^data:image/([a-zA-Z0-9.+-]+)(;[^,]*)?,`)

// ParseImageDataURL decodes "data:image/<fmt>;base64,<payload>".
// Anything without the data: prefix is treated as a raw base64 jpeg payload.
func ParseImageDataURL(raw string) (*InlineImage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty image")
	}

	format := "jpeg"
	payload := raw
	if m := dataURLPattern.FindStringSubmatch(raw); m != nil {
		format = strings.ToLower(m[1])
		if format == "jpg" {
			format = "jpeg"
		}
		payload = raw[len(m[0]):]
	} else if i := strings.Index(raw, ","); i >= 0 {
		payload = raw[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid image payload: %w", err)
	}
	return &InlineImage{Format: format, Data: data}, nil
}
