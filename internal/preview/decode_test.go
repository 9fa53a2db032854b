package preview

import (
	"image"
	"testing"
)

func TestFitSize(t *testing.T) {
	box := image.Pt(240, 180)
	tests := []struct {
		src  image.Point
		want image.Point
	}{
		{image.Pt(400, 100), image.Pt(240, 60)},
		{image.Pt(100, 400), image.Pt(45, 180)},
		{image.Pt(480, 360), image.Pt(240, 180)},
		{image.Pt(240, 180), image.Pt(240, 180)},
		{image.Pt(120, 90), image.Pt(240, 180)},
		{image.Pt(1000, 3), image.Pt(240, 1)},
		{image.Pt(0, 10), image.Pt(0, 10)},
	}
	for _, tt := range tests {
		if got := FitSize(tt.src, box); got != tt.want {
			t.Errorf("FitSize(%v) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestDecoderKnowsSizeFromHeader(t *testing.T) {
	data := encodePNG(t, 400, 100)
	d := newDecoder(image.Pt(240, 180))

	if err := d.Write(data[:4]); err != nil {
		t.Fatalf("short prefix should not fail: %v", err)
	}
	if _, known := d.Size(); known {
		t.Fatal("size should not be known from 4 bytes")
	}
	if err := d.Write(data[4:64]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	size, known := d.Size()
	if !known || size != image.Pt(240, 60) {
		t.Fatalf("size = %v known=%v", size, known)
	}

	if err := d.Write(data[64:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	img, err := d.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if img.Bounds().Size() != image.Pt(240, 60) {
		t.Fatalf("decoded size %v", img.Bounds().Size())
	}
}

func TestDecoderRejectsUnknownFormat(t *testing.T) {
	d := newDecoder(image.Pt(240, 180))
	if err := d.Write([]byte("definitely not an image header")); err == nil {
		t.Fatal("expected an error for unknown data")
	}
}

func TestDecodePreviewBytes(t *testing.T) {
	raw := encodePNG(t, 4, 4)

	got, err := DecodePreviewBytes(raw)
	if err != nil || len(got) != len(raw) {
		t.Fatalf("raw PNG should pass through, err=%v", err)
	}

	if _, err := DecodePreviewBytes([]byte("%%%")); err == nil {
		t.Fatal("expected base64 error")
	}
}
