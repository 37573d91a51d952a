// Copyright 2025 Terry Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file is the software rasterizer that turns a frame's visual ops into
// pixels. It applies ops in compositing order to an RGBA buffer: color
// filters as per-pixel grades, transforms as inverse-mapped affine sampling,
// and overlay geometry as alpha-blended fills. Decorative overlay shapes
// without a pixel interpretation here (particles, confetti and friends) and
// text are drawn by the preview shell; the encoder applies everything that
// changes the underlying footage.
package media

import (
	"math"

	"github.com/terryhq/terry/internal/core/effects"
)

// Rasterize applies the ordered visual ops to the frame in place. dst and
// scratch must both be FrameSize(width, height) bytes; scratch is clobbered.
func Rasterize(dst, scratch []byte, width, height int, ops []effects.VisualOp) {
	for _, op := range ops {
		if op.Opacity <= 0 {
			continue
		}
		if op.Color != nil {
			applyColorFilter(dst, op.Color, op.Opacity)
		}
		if op.Transform != nil && !isIdentity(op.Transform) {
			applyTransform(dst, scratch, width, height, op.Transform)
		}
		if op.Overlay != nil {
			applyOverlay(dst, width, height, op.Overlay, op.Opacity)
		}
	}
}

func isIdentity(t *effects.Transform) bool {
	return t.Scale == 1 && t.TranslateX == 0 && t.TranslateY == 0 && t.Rotate == 0
}

// applyColorFilter runs the scalar grade over every pixel. The filter's
// strength is scaled by the op opacity so attack/release envelopes fade
// grades in and out smoothly.
func applyColorFilter(buf []byte, f *effects.ColorFilter, opacity float64) {
	brightness := lerp(1, f.Brightness, opacity)
	contrast := lerp(1, f.Contrast, opacity)
	saturation := lerp(1, f.Saturation, opacity)
	grayscale := f.Grayscale * opacity
	sepia := f.Sepia * opacity
	invert := f.Invert * opacity
	hue := f.HueRotate * opacity
	cosH, sinH := math.Cos(hue*math.Pi/180), math.Sin(hue*math.Pi/180)

	for i := 0; i+3 < len(buf); i += 4 {
		r := float64(buf[i])
		g := float64(buf[i+1])
		b := float64(buf[i+2])

		if hue != 0 {
			// standard RGB hue rotation matrix
			nr := (0.299+0.701*cosH+0.168*sinH)*r + (0.587-0.587*cosH+0.330*sinH)*g + (0.114-0.114*cosH-0.497*sinH)*b
			ng := (0.299-0.299*cosH-0.328*sinH)*r + (0.587+0.413*cosH+0.035*sinH)*g + (0.114-0.114*cosH+0.292*sinH)*b
			nb := (0.299-0.300*cosH+1.250*sinH)*r + (0.587-0.588*cosH-1.050*sinH)*g + (0.114+0.886*cosH-0.203*sinH)*b
			r, g, b = nr, ng, nb
		}

		r *= brightness
		g *= brightness
		b *= brightness

		if contrast != 1 {
			r = (r-128)*contrast + 128
			g = (g-128)*contrast + 128
			b = (b-128)*contrast + 128
		}

		if saturation != 1 || grayscale > 0 {
			luma := 0.299*r + 0.587*g + 0.114*b
			sat := saturation * (1 - grayscale)
			r = luma + (r-luma)*sat
			g = luma + (g-luma)*sat
			b = luma + (b-luma)*sat
		}

		if sepia > 0 {
			sr := 0.393*r + 0.769*g + 0.189*b
			sg := 0.349*r + 0.686*g + 0.168*b
			sb := 0.272*r + 0.534*g + 0.131*b
			r = lerp(r, sr, sepia)
			g = lerp(g, sg, sepia)
			b = lerp(b, sb, sepia)
		}

		if invert > 0 {
			r = lerp(r, 255-r, invert)
			g = lerp(g, 255-g, invert)
			b = lerp(b, 255-b, invert)
		}

		buf[i] = clampByte(r)
		buf[i+1] = clampByte(g)
		buf[i+2] = clampByte(b)
	}
}

// applyTransform resamples the frame through the inverse of the op's affine
// transform with nearest-neighbor sampling. Out-of-source pixels go black.
func applyTransform(dst, scratch []byte, width, height int, t *effects.Transform) {
	copy(scratch, dst)

	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	ox := t.OriginX * float64(width)
	oy := t.OriginY * float64(height)
	rad := -t.Rotate * math.Pi / 180 // inverse mapping rotates backwards
	cosR, sinR := math.Cos(rad), math.Sin(rad)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// inverse map: undo translate, then rotate and scale about origin
			fx := float64(x) - t.TranslateX - ox
			fy := float64(y) - t.TranslateY - oy
			sx := (fx*cosR - fy*sinR) / scale
			sy := (fx*sinR + fy*cosR) / scale
			srcX := int(sx + ox)
			srcY := int(sy + oy)

			di := (y*width + x) * 4
			if srcX < 0 || srcX >= width || srcY < 0 || srcY >= height {
				dst[di], dst[di+1], dst[di+2], dst[di+3] = 0, 0, 0, 255
				continue
			}
			si := (srcY*width + srcX) * 4
			copy(dst[di:di+4], scratch[si:si+4])
		}
	}
}

// applyOverlay blends the overlay geometry onto the frame. Geometry
// coordinates are fractions of the frame.
func applyOverlay(buf []byte, width, height int, g *effects.Geometry, opacity float64) {
	switch g.Shape {
	case "fill", "rect", "media":
		cr, cg, cb := parseHexColor(g.Color)
		blendRect(buf, width, height,
			int(g.X*float64(width)), int(g.Y*float64(height)),
			int(g.Width*float64(width)), int(g.Height*float64(height)),
			cr, cg, cb, opacity)
	case "letterbox":
		// bars sized for the target aspect ratio, top and bottom
		ratio := g.Width
		if ratio <= 0 {
			ratio = 2.35
		}
		content := float64(width) / ratio
		bar := (float64(height) - content) / 2
		if bar > 0 {
			blendRect(buf, width, height, 0, 0, width, int(bar), 0, 0, 0, opacity)
			blendRect(buf, width, height, 0, height-int(bar), width, int(bar), 0, 0, 0, opacity)
		}
	case "vignette":
		applyVignette(buf, width, height, g.Width, opacity)
	case "border":
		cr, cg, cb := parseHexColor(g.Color)
		thickness := int(g.X)
		if thickness <= 0 {
			thickness = 12
		}
		blendRect(buf, width, height, 0, 0, width, thickness, cr, cg, cb, opacity)
		blendRect(buf, width, height, 0, height-thickness, width, thickness, cr, cg, cb, opacity)
		blendRect(buf, width, height, 0, 0, thickness, height, cr, cg, cb, opacity)
		blendRect(buf, width, height, width-thickness, 0, thickness, height, cr, cg, cb, opacity)
	default:
		// decorative shapes are preview-only
	}
}

func applyVignette(buf []byte, width, height int, radius, opacity float64) {
	if radius <= 0 {
		radius = 0.75
	}
	cx, cy := float64(width)/2, float64(height)/2
	maxDist := math.Hypot(cx, cy)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / maxDist
			if d <= radius {
				continue
			}
			dark := 1 - (d-radius)/(1-radius)*opacity
			i := (y*width + x) * 4
			buf[i] = clampByte(float64(buf[i]) * dark)
			buf[i+1] = clampByte(float64(buf[i+1]) * dark)
			buf[i+2] = clampByte(float64(buf[i+2]) * dark)
		}
	}
}

func blendRect(buf []byte, width, height, x, y, w, h int, cr, cg, cb byte, opacity float64) {
	x2 := min(x+w, width)
	y2 := min(y+h, height)
	x = max(x, 0)
	y = max(y, 0)
	for py := y; py < y2; py++ {
		for px := x; px < x2; px++ {
			i := (py*width + px) * 4
			buf[i] = clampByte(lerp(float64(buf[i]), float64(cr), opacity))
			buf[i+1] = clampByte(lerp(float64(buf[i+1]), float64(cg), opacity))
			buf[i+2] = clampByte(lerp(float64(buf[i+2]), float64(cb), opacity))
		}
	}
}

// parseHexColor reads "#rrggbb". Gradients and named colors fall back to
// black, which is what the bar and fill shapes want anyway.
func parseHexColor(s string) (r, g, b byte) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	return hexByte(s[1], s[2]), hexByte(s[3], s[4]), hexByte(s[5], s[6])
}

func hexByte(hi, lo byte) byte {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
