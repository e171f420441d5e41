package mimemagic

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestParseDefinitions(t *testing.T) {
	doc := `
version: "2.0"
types:
  - type: text/plain
    extensions: [txt]
  - type: audio/x-wav
    extensions: [wav]
    parents: [audio/x-riff]
    magic:
      - offset: 0
        value: RIFF
        children:
          - offset: 8
            value: WAVE
  - type: application/pdf
    magic:
      - offset: "0:1024"
        value: "%PDF-"
  - type: image/png
    magic:
      - offset: 0x0
        hex: "89 50 4e 47"
`
	defs, err := ParseDefinitions(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDefinitions() error = %v", err)
	}
	if defs.Version != "2.0" || len(defs.Types) != 4 {
		t.Fatalf("ParseDefinitions() = %+v", defs)
	}

	wav, err := defs.Types[1].Rules()
	if err != nil {
		t.Fatal(err)
	}
	if len(wav) != 1 || string(wav[0].Value) != "RIFF" || len(wav[0].Children) != 1 {
		t.Fatalf("wav rules = %+v", wav)
	}
	if child := wav[0].Children[0]; child.Offset != Fixed(8) || string(child.Value) != "WAVE" {
		t.Errorf("wav child = %+v", child)
	}

	pdf, _ := defs.Types[2].Rules()
	if pdf[0].Offset != Range(0, 1024) {
		t.Errorf("pdf offset = %v, want 0:1024", pdf[0].Offset)
	}

	png, _ := defs.Types[3].Rules()
	if !bytes.Equal(png[0].Value, []byte{0x89, 'P', 'N', 'G'}) {
		t.Errorf("png value = %x", png[0].Value)
	}
}

func TestParseDefinitionsEmpty(t *testing.T) {
	defs, err := ParseDefinitions(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseDefinitions() error = %v", err)
	}
	if len(defs.Types) != 0 {
		t.Errorf("expected no types, got %d", len(defs.Types))
	}
}

func TestParseDefinitionsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: "types:\n  - type: a/b\n    comment: nope\n"},
		{name: "bad offset", doc: "types:\n  - type: a/b\n    magic:\n      - offset: abc\n        value: x\n"},
		{name: "bad range", doc: "types:\n  - type: a/b\n    magic:\n      - offset: \"1:z\"\n        value: x\n"},
		{name: "offset is a list", doc: "types:\n  - type: a/b\n    magic:\n      - offset: [1, 2]\n        value: x\n"},
		{name: "not yaml", doc: "types: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinitions(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrDefinitions) {
				t.Errorf("ParseDefinitions() error = %v, want ErrDefinitions", err)
			}
		})
	}
}

func TestLoadRuleErrors(t *testing.T) {
	tests := []struct {
		name  string
		magic string
	}{
		{name: "value and hex", magic: "      - offset: 0\n        value: x\n        hex: \"78\"\n"},
		{name: "no value", magic: "      - offset: 0\n"},
		{name: "bad hex", magic: "      - offset: 0\n        hex: \"zz\"\n"},
		{name: "bad child", magic: "      - offset: 0\n        value: x\n        children:\n          - offset: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := "types:\n  - type: a/b\n    magic:\n" + tt.magic
			_, err := LoadDefinitions(strings.NewReader(doc))
			if !errors.Is(err, ErrDefinitions) {
				t.Errorf("LoadDefinitions() error = %v, want ErrDefinitions", err)
			}
			var regErr *RegistrationError
			if !errors.As(err, &regErr) || regErr.Type != "a/b" {
				t.Errorf("error should name the failing type: %v", err)
			}
		})
	}
}

func TestLoadStopsAtFirstFailure(t *testing.T) {
	doc := `
types:
  - type: text/plain
    extensions: [txt]
  - type: not-a-type
  - type: text/css
    extensions: [css]
`
	reg := NewRegistry()
	err := reg.Load(strings.NewReader(doc))
	if !IsInvalidType(err) {
		t.Fatalf("Load() error = %v, want invalid type", err)
	}
	if _, ok := reg.Lookup("text/plain"); !ok {
		t.Error("entries before the failure should stay registered")
	}
	if _, ok := reg.Lookup("text/css"); ok {
		t.Error("entries after the failure should not be registered")
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    Offset
		wantErr bool
	}{
		{in: "0", want: Fixed(0)},
		{in: "257", want: Fixed(257)},
		{in: "0x10", want: Fixed(16)},
		{in: "0:1024", want: Range(0, 1024)},
		{in: " 30 : 4096 ", want: Range(30, 4096)},
		{in: "", wantErr: true},
		{in: "1:", wantErr: true},
		{in: "one", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOffset(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOffset(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseOffset(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestDefaultRegistryVersion(t *testing.T) {
	if got := Default().Version(); got != Version {
		t.Errorf("Default().Version() = %q, want %q", got, Version)
	}
	if Default().Len() == 0 {
		t.Error("default registry is empty")
	}
}

func pad(prefix string, at int, s string) []byte {
	data := make([]byte, at+len(s))
	copy(data, prefix)
	copy(data[at:], s)
	return data
}

func TestBuiltinMagic(t *testing.T) {
	zipHeader := "PK\x03\x04" + strings.Repeat("\x00", 26)

	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{name: "png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), expected: "image/png"},
		{name: "jpeg", data: []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), expected: "image/jpeg"},
		{name: "gif87", data: []byte("GIF87a"), expected: "image/gif"},
		{name: "gif89", data: []byte("GIF89a\x01\x00"), expected: "image/gif"},
		{name: "bmp", data: pad("BM", 14, "\x28\x00\x00\x00"), expected: "image/bmp"},
		{name: "webp", data: []byte("RIFF\x24\x00\x00\x00WEBPVP8 "), expected: "image/webp"},
		{name: "pdf", data: []byte("%PDF-1.7\n%\xe2\xe3"), expected: "application/pdf"},
		{name: "pdf after junk", data: []byte("\r\n\r\n%PDF-1.4"), expected: "application/pdf"},
		{name: "wav", data: []byte("RIFF\x24\x00\x00\x00WAVEfmt "), expected: "audio/x-wav"},
		{name: "avi", data: []byte("RIFF\x24\x00\x00\x00AVI LIST"), expected: "video/x-msvideo"},
		{name: "mp3", data: []byte("ID3\x03\x00\x00"), expected: "audio/mpeg"},
		{name: "flac", data: []byte("fLaC\x00\x00\x00\x22"), expected: "audio/flac"},
		{name: "zip", data: []byte(zipHeader + "notes.txt"), expected: "application/zip"},
		{name: "docx", data: []byte(zipHeader + "[Content_Types].xml....word/document.xml"), expected: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{name: "xlsx", data: []byte(zipHeader + "[Content_Types].xml....xl/workbook.xml"), expected: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{name: "jar", data: []byte(zipHeader + "META-INF/MANIFEST.MF"), expected: "application/java-archive"},
		{name: "epub", data: []byte(zipHeader + "mimetypeapplication/epub+zip"), expected: "application/epub+zip"},
		{name: "gzip", data: []byte("\x1f\x8b\x08\x00"), expected: "application/gzip"},
		{name: "tar", data: pad("file.txt", 257, "ustar\x0000"), expected: "application/x-tar"},
		{name: "sqlite", data: []byte("SQLite format 3\x00"), expected: "application/vnd.sqlite3"},
		{name: "mp4", data: []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00"), expected: "video/mp4"},
		{name: "m4a", data: []byte("\x00\x00\x00\x20ftypM4A \x00\x00\x00\x00"), expected: "audio/mp4"},
		{name: "heic", data: []byte("\x00\x00\x00\x18ftypheic"), expected: "image/heic"},
		{name: "webm", data: []byte("\x1a\x45\xdf\xa3\x9f\x42\x86\x81\x01\x42\xf7\x81\x01\x42\x82\x84webm"), expected: "video/webm"},
		{name: "mkv", data: []byte("\x1a\x45\xdf\xa3\x9f\x42\x86\x81\x01\x42\xf7\x81\x01\x42\x82\x88matroska"), expected: "video/x-matroska"},
		{name: "elf executable", data: pad("\x7fELF\x02\x01\x01", 16, "\x02\x00"), expected: "application/x-executable"},
		{name: "elf shared object", data: pad("\x7fELF\x02\x01\x01", 16, "\x03\x00"), expected: "application/x-sharedlib"},
		{name: "java class", data: []byte("\xca\xfe\xba\xbe\x00\x00\x00\x34"), expected: "application/x-java"},
		{name: "wasm", data: []byte("\x00asm\x01\x00\x00\x00"), expected: "application/wasm"},
		{name: "xml", data: []byte(`<?xml version="1.0"?><root/>`), expected: "application/xml"},
		{name: "svg", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), expected: "image/svg+xml"},
		{name: "svg with prolog", data: []byte("<?xml version=\"1.0\"?>\n<!DOCTYPE svg PUBLIC \"-//W3C//DTD SVG 1.1//EN\">"), expected: "image/svg+xml"},
		{name: "xhtml", data: []byte(`<?xml version="1.0"?><html xmlns="http://www.w3.org/1999/xhtml">`), expected: "application/xhtml+xml"},
		{name: "html", data: []byte("<!DOCTYPE html>\n<html><body><svg/></body></html>"), expected: "text/html"},
		{name: "shell", data: []byte("#!/bin/sh\necho hi\n"), expected: "application/x-shellscript"},
		{name: "bmp without header size", data: pad("BM", 14, "\x00"), expected: ""},
		{name: "plain text", data: []byte("just some words"), expected: ""},
		{name: "empty", data: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ByMagicBytes(tt.data)
			if tt.expected == "" {
				if ok {
					t.Errorf("ByMagicBytes() = %v, want miss", got)
				}
				return
			}
			if !ok || !got.Is(tt.expected) {
				t.Errorf("ByMagicBytes() = %v, %v, want %s", got, ok, tt.expected)
			}
		})
	}
}

func TestBuiltinHierarchy(t *testing.T) {
	tests := []struct {
		id       string
		ancestor string
	}{
		{"image/svg+xml", "text/plain"},
		{"application/json", "text/plain"},
		{"application/vnd.oasis.opendocument.text", "application/zip"},
		{"video/webm", "video/x-matroska"},
		{"audio/x-opus+ogg", "application/ogg"},
		{"application/x-compressed-tar", "application/gzip"},
		{"application/msword", "application/x-ole-storage"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if !NewType(tt.id).IsDescendantOf(tt.ancestor) {
				t.Errorf("%s should descend from %s", tt.id, tt.ancestor)
			}
		})
	}
}
