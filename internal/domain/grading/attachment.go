package grading

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrEmptyAttachment = errors.New("attachment has no content")

// Decode returns the raw bytes and a MIME type. The type comes from a data:
// URL prefix, then the declared type, then content sniffing.
func (a Attachment) Decode() ([]byte, string, error) {
	payload := strings.TrimSpace(a.Content)
	if payload == "" {
		return nil, "", ErrEmptyAttachment
	}
	mime := strings.TrimSpace(a.MimeType)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("malformed data url")
		}
		meta := payload[len("data:"):comma]
		if m := strings.TrimSuffix(meta, ";base64"); m != "" {
			mime = m
		}
		payload = payload[comma+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode attachment: %w", err)
		}
	}
	if len(raw) == 0 {
		return nil, "", ErrEmptyAttachment
	}
	if mime == "" {
		mime = http.DetectContentType(raw)
	}
	return raw, mime, nil
}

// DataURL renders the attachment as data:<mime>;base64,<content>.
func (a Attachment) DataURL() (string, error) {
	raw, mime, err := a.Decode()
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
