package uploader

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/kethai/internal/models"
)

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("part write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("writer close failed: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("ReadForm failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestImageUploader_RejectsTextPlain(t *testing.T) {
	u, err := NewImageUploader(t.TempDir())
	if err != nil {
		t.Fatalf("NewImageUploader failed: %v", err)
	}

	file := makeFileHeader(t, "notes.txt", "text/plain", []byte("hello"))
	if _, err := u.Save(file); err != models.ErrInvalidFileType {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestImageUploader_AcceptsPng(t *testing.T) {
	dir := t.TempDir()
	u, err := NewImageUploader(dir)
	if err != nil {
		t.Fatalf("NewImageUploader failed: %v", err)
	}

	content := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	file := makeFileHeader(t, "leaf.png", "image/png", content)

	path, err := u.Save(file)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(dir, "leaf.png") {
		t.Fatalf("unexpected stored path %q", path)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Fatalf("stored bytes differ from upload")
	}
}

func TestUploader_OverwritesOnSameFilename(t *testing.T) {
	dir := t.TempDir()
	u, err := NewImageUploader(dir)
	if err != nil {
		t.Fatalf("NewImageUploader failed: %v", err)
	}

	if _, err := u.Save(makeFileHeader(t, "leaf.png", "image/png", []byte("first"))); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	path, err := u.Save(makeFileHeader(t, "leaf.png", "image/png", []byte("second")))
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(stored) != "second" {
		t.Fatalf("expected silent overwrite, got %q", stored)
	}
}

func TestAudioUploader_Whitelist(t *testing.T) {
	u, err := NewAudioUploader(t.TempDir())
	if err != nil {
		t.Fatalf("NewAudioUploader failed: %v", err)
	}

	for _, ct := range []string{"audio/wav", "audio/mpeg"} {
		if _, err := u.Save(makeFileHeader(t, "voice.wav", ct, []byte("riff"))); err != nil {
			t.Fatalf("expected %s to be accepted: %v", ct, err)
		}
	}

	for _, ct := range []string{"audio/ogg", "image/png", "text/plain"} {
		if _, err := u.Save(makeFileHeader(t, "voice.ogg", ct, []byte("oggs"))); err != models.ErrInvalidFileType {
			t.Fatalf("expected %s to be rejected, got %v", ct, err)
		}
	}
}

func TestUploader_StripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	u, err := NewImageUploader(dir)
	if err != nil {
		t.Fatalf("NewImageUploader failed: %v", err)
	}

	path, err := u.Save(makeFileHeader(t, "../../escape.png", "image/png", []byte("x")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != filepath.Join(dir, "escape.png") {
		t.Fatalf("filename must be stripped to its base, got %q", path)
	}
}
