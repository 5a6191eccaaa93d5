package form

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestReadThumbnailScalesWideImages(t *testing.T) {
	th, err := ReadThumbnail(pngOf(t, 1600, 400), "My Cover Photo.png")
	if err != nil {
		t.Fatal(err)
	}
	if th.Width != 800 || th.Height != 200 {
		t.Errorf("size = %dx%d, want 800x200", th.Width, th.Height)
	}
	if th.Filename != "my-cover-photo.jpg" {
		t.Errorf("Filename = %q", th.Filename)
	}
	if len(th.Data) == 0 {
		t.Error("no encoded data")
	}
}

func TestReadThumbnailKeepsSmallImages(t *testing.T) {
	th, err := ReadThumbnail(pngOf(t, 120, 80), "x.png")
	if err != nil {
		t.Fatal(err)
	}
	if th.Width != 120 || th.Height != 80 {
		t.Errorf("size = %dx%d", th.Width, th.Height)
	}
}

func TestReadThumbnailRejectsNonImages(t *testing.T) {
	if _, err := ReadThumbnail(strings.NewReader("not an image"), "a.txt"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestThumbnailNameFallback(t *testing.T) {
	if got := thumbnailName("???.png"); got != "thumbnail.jpg" {
		t.Errorf("thumbnailName = %q", got)
	}
}
