package fs

import (
	"testing"

	"github.com/spf13/afero"
)

func TestKindByName(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"photo.JPG", KindImage},
		{"song.ogg", KindAudio},
		{"Write Activity.xo", KindArchive},
		{"notes.txt", KindText},
		{"README", KindUnknown},
	}
	for _, tt := range tests {
		if got := KindByName(tt.name); got != tt.want {
			t.Errorf("KindByName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDetectKindSniffsUnknownExtensions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/j/README", []byte("plain words\n"), 0o644)
	_ = afero.WriteFile(fsys, "/j/blob", []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}, 0o644)
	_ = afero.WriteFile(fsys, "/j/utf16", []byte{0xFF, 0xFE, 0x41, 0x00, 0x0D, 0x00}, 0o644)

	if got := DetectKind(fsys, "/j/README"); got != KindText {
		t.Fatalf("README kind = %v", got)
	}
	if got := DetectKind(fsys, "/j/blob"); got != KindBinary {
		t.Fatalf("blob kind = %v", got)
	}
	if got := DetectKind(fsys, "/j/utf16"); got != KindText {
		t.Fatalf("UTF-16 kind = %v", got)
	}
	if got := DetectKind(fsys, "/j/missing"); got != KindUnknown {
		t.Fatalf("missing kind = %v", got)
	}
}

func TestKindString(t *testing.T) {
	if KindDirectory.String() != "folder" || Kind(99).String() != "unknown" {
		t.Fatal("unexpected kind names")
	}
}
