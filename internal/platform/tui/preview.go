package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPreview draws img into a w x h cell block. Each cell is an upper
// half block, so one cell shows two vertically stacked pixels.
func renderPreview(img image.Image, w, h int) string {
	if img == nil || w <= 0 || h <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return ""
	}

	rows := h * 2
	var sb strings.Builder
	for cy := 0; cy < h; cy++ {
		if cy > 0 {
			sb.WriteByte('\n')
		}
		for cx := 0; cx < w; cx++ {
			top := sampleColor(img, b, cx, cy*2, w, rows)
			bottom := sampleColor(img, b, cx, cy*2+1, w, rows)
			sb.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render("▀"))
		}
	}
	return sb.String()
}

// sampleColor picks the nearest source pixel for cell (x, y) of a w x h grid.
func sampleColor(img image.Image, b image.Rectangle, x, y, w, h int) lipgloss.Color {
	px := b.Min.X + x*b.Dx()/w
	py := b.Min.Y + y*b.Dy()/h
	r, g, bl, _ := img.At(px, py).RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8))
}
