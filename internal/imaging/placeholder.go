package imaging

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	defaultPlaceholderWidth  = 1024
	defaultPlaceholderHeight = 1024
	maxPlaceholderDimension  = 1792

	// captionMaxLines bounds how much of the prompt is drawn.
	captionMaxLines = 3
)

// RenderPlaceholder synthesizes a deterministic substitute image for the
// given prompt: a solid background whose color is derived from the prompt,
// with the prompt text as a caption. It performs no I/O and always returns
// a valid PNG; the same prompt and size always produce identical bytes.
func RenderPlaceholder(prompt, size string) []byte {
	width, height := parseSize(size)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg, fg := placeholderColors(prompt)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	lines := captionLines(prompt, width, face)
	lines = append(lines, "", "image unavailable")

	lineHeight := face.Metrics().Height.Ceil() + 4
	startY := height/2 - (len(lines)*lineHeight)/2

	for i, line := range lines {
		if line == "" {
			continue
		}
		lineWidth := font.MeasureString(face, line).Ceil()
		x := (width - lineWidth) / 2
		if x < 8 {
			x = 8
		}
		drawer := &font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{C: fg},
			Face: face,
			Dot: fixed.Point26_6{
				X: fixed.I(x),
				Y: fixed.I(startY + i*lineHeight),
			},
		}
		drawer.DrawString(line)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// png.Encode cannot fail writing to a bytes.Buffer, but the
		// placeholder must never block the pipeline regardless.
		return minimalPNG()
	}
	return buf.Bytes()
}

// parseSize interprets a "WxH" size string, falling back to the default
// dimensions on any malformed input.
func parseSize(size string) (int, int) {
	parts := strings.SplitN(strings.ToLower(size), "x", 2)
	if len(parts) != 2 {
		return defaultPlaceholderWidth, defaultPlaceholderHeight
	}

	width, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	height, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || width < 1 || height < 1 {
		return defaultPlaceholderWidth, defaultPlaceholderHeight
	}

	if width > maxPlaceholderDimension {
		width = maxPlaceholderDimension
	}
	if height > maxPlaceholderDimension {
		height = maxPlaceholderDimension
	}
	return width, height
}

// placeholderColors derives a muted background color from the prompt so
// different prompts get visually distinct placeholders, with a foreground
// chosen for contrast. Deterministic by construction.
func placeholderColors(prompt string) (color.RGBA, color.RGBA) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	sum := h.Sum32()

	// Keep channels in a mid-dark band so white text stays readable.
	bg := color.RGBA{
		R: uint8(64 + (sum>>16&0xFF)%128),
		G: uint8(64 + (sum>>8&0xFF)%128),
		B: uint8(64 + (sum&0xFF)%128),
		A: 255,
	}
	fg := color.RGBA{R: 245, G: 245, B: 245, A: 255}
	return bg, fg
}

// captionLines wraps the prompt into at most captionMaxLines lines that fit
// the image width, truncating the remainder with an ellipsis.
func captionLines(prompt string, width int, face font.Face) []string {
	margin := 16
	maxWidth := width - 2*margin
	if maxWidth < 40 {
		maxWidth = width
	}

	words := strings.Fields(prompt)
	lines := make([]string, 0, captionMaxLines)
	current := ""

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
		}
		current = word

		if len(lines) == captionMaxLines {
			break
		}
	}

	if len(lines) < captionMaxLines && current != "" {
		lines = append(lines, current)
	} else if len(lines) == captionMaxLines {
		lines[captionMaxLines-1] += "…"
	}

	return lines
}

// minimalPNG is a last-resort 1x1 gray image.
func minimalPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
