package grading

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestAttachmentDecode(t *testing.T) {
	body := []byte("\x89PNG\r\n\x1a\nrest")
	enc := base64.StdEncoding.EncodeToString(body)

	raw, mime, err := Attachment{Content: enc}.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw) != string(body) || mime != "image/png" {
		t.Fatalf("got mime=%q raw=%q", mime, raw)
	}

	_, mime, err = Attachment{Content: "data:image/jpeg;base64," + enc, MimeType: "image/png"}.Decode()
	if err != nil || mime != "image/jpeg" {
		t.Fatalf("data url mime should win: %q %v", mime, err)
	}

	if _, _, err := (Attachment{Content: "  "}).Decode(); !errors.Is(err, ErrEmptyAttachment) {
		t.Fatalf("expected ErrEmptyAttachment, got %v", err)
	}
	if _, _, err := (Attachment{Content: "***"}).Decode(); err == nil {
		t.Fatalf("expected decode error")
	}

	url, err := Attachment{Content: enc, MimeType: "image/png"}.DataURL()
	if err != nil || url != "data:image/png;base64,"+enc {
		t.Fatalf("data url: %q %v", url, err)
	}
}
