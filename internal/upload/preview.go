package upload

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Preview renders img into at most width columns and height rows using upper
// half blocks: each cell shows two vertically stacked pixels.
func Preview(img *Image, width, height int) (string, error) {
	if img == nil {
		return "", fmt.Errorf("preview: no image")
	}
	if width <= 0 || height <= 0 {
		return "", nil
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", img.Name, err)
	}
	return renderHalfBlocks(src, width, height), nil
}

func renderHalfBlocks(src image.Image, width, height int) string {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	// Two pixel rows per terminal row; keep the aspect ratio.
	cols, rows := width, height*2
	if b.Dx()*rows > b.Dy()*cols {
		rows = b.Dy() * cols / b.Dx()
	} else {
		cols = b.Dx() * rows / b.Dy()
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 2 {
		rows = 2
	}

	sample := func(x, y int) lipgloss.Color {
		sx := b.Min.X + x*b.Dx()/cols
		sy := b.Min.Y + y*b.Dy()/rows
		r, g, bl, _ := src.At(sx, sy).RGBA()
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8))
	}

	var sb strings.Builder
	for y := 0; y+1 < rows; y += 2 {
		for x := 0; x < cols; x++ {
			cell := lipgloss.NewStyle().
				Foreground(sample(x, y)).
				Background(sample(x, y+1))
			sb.WriteString(cell.Render("▀"))
		}
		if y+3 < rows {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
