package form

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxThumbnailWidth = 800
	jpegQuality       = 80
	// MaxThumbnailSize bounds accepted uploads.
	MaxThumbnailSize = 10 << 20
)

// Thumbnail is a decoded, normalised thumbnail image.
type Thumbnail struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Data         []byte
}

// ReadThumbnail decodes an image from src, scales it down to at most
// 800px wide and re-encodes it as JPEG.
func ReadThumbnail(src io.Reader, originalName string) (*Thumbnail, error) {
	img, _, err := image.Decode(io.LimitReader(src, MaxThumbnailSize))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxThumbnailWidth {
		newH := h * maxThumbnailWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxThumbnailWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxThumbnailWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &Thumbnail{
		Filename:     thumbnailName(originalName),
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Data:         buf.Bytes(),
	}, nil
}

func thumbnailName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.ToLower(strings.TrimSpace(base))
	var b strings.Builder
	dash := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		slug = "thumbnail"
	}
	return slug + ".jpg"
}
