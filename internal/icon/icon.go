// Package icon renders map marker icons.
package icon

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	// MinSize and MaxSize bound the rendered icon edge in pixels.
	MinSize = 8
	MaxSize = 128

	supersample = 4
)

// ParseHexColor parses "rgb", "rrggbb" or the same with a leading '#'.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}

// Render draws a round marker of the given color with a white rim
// and returns it WebP encoded. The disc is drawn supersampled and scaled down
// for smooth edges.
func Render(hexColor string, size int) ([]byte, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("icon size %d out of range [%d..%d]", size, MinSize, MaxSize)
	}

	fill, err := ParseHexColor(hexColor)
	if err != nil {
		return nil, err
	}

	big := size * supersample
	src := image.NewNRGBA(image.Rect(0, 0, big, big))

	c := float64(big) / 2
	outer := c - 1
	inner := outer * 0.75
	rim := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	for y := 0; y < big; y++ {
		for x := 0; x < big; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			d := dx*dx + dy*dy
			switch {
			case d <= inner*inner:
				src.SetNRGBA(x, y, fill)
			case d <= outer*outer:
				src.SetNRGBA(x, y, rim)
			}
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, dst, &webp.Options{Lossless: true}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return buf.Bytes(), nil
}
