package window

import (
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sumwatshade/watchface/cmd/layout"
)

var (
	windowBackground = lipgloss.Color("0")
	weatherColor     = lipgloss.Color("15")

	windowStyle  = lipgloss.NewStyle().Background(windowBackground)
	bitmapStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("254"))
	overlayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
)

// View composites the layers onto the display. overlay fills the obstructed
// rows at the bottom; its last lines are shown when it is taller than the
// obstruction, which gives the slide-in effect while it animates.
func (w *Window) View(overlay string) string {
	b := w.bounds
	if b.W <= 0 || b.H <= 0 {
		return ""
	}
	c := canvas.New(b.W, b.H)
	fill(&c, b, ' ', windowStyle)
	if !w.Loaded() {
		return c.View()
	}

	if !w.background.Hidden {
		drawBitmap(&c, w.background, b)
	}
	drawText(&c, w.time, b)
	drawText(&c, w.weather, b)

	if w.obstruction > 0 {
		drawOverlay(&c, overlay, w.UnobstructedBounds().H, b)
	}
	return c.View()
}

func fill(c *canvas.Model, r layout.Rect, ch rune, style lipgloss.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			c.SetCell(canvas.Point{X: x, Y: y}, canvas.NewCellWithStyle(ch, style))
		}
	}
}

func drawBitmap(c *canvas.Model, l *BitmapLayer, clip layout.Rect) {
	f := intersect(l.Frame, clip)
	for y := f.Y; y < f.Y+f.H; y++ {
		for x := f.X; x < f.X+f.W; x++ {
			ch := l.Bitmap.At(x-l.Frame.X, y-l.Frame.Y)
			c.SetCell(canvas.Point{X: x, Y: y}, canvas.NewCellWithStyle(ch, bitmapStyle))
		}
	}
}

// drawText centres each rendered row in the layer frame. Spaces are
// transparent.
func drawText(c *canvas.Model, l *TextLayer, clip layout.Rect) {
	rows := l.Font.Render(l.Text)
	for i, row := range rows {
		if i >= l.Frame.H {
			break
		}
		y := l.Frame.Y + i
		runes := []rune(row)
		if len(runes) > l.Frame.W {
			runes = runes[:l.Frame.W]
		}
		x0 := l.Frame.X + (l.Frame.W-len(runes))/2
		for j, ch := range runes {
			if ch == ' ' {
				continue
			}
			p := canvas.Point{X: x0 + j, Y: y}
			if !contains(clip, p) {
				continue
			}
			under := c.Cell(p).Style.GetBackground()
			style := lipgloss.NewStyle().Foreground(l.Color).Background(under)
			c.SetCell(p, canvas.NewCellWithStyle(ch, style))
		}
	}
}

func drawOverlay(c *canvas.Model, overlay string, top int, clip layout.Rect) {
	area := layout.Rect{X: clip.X, Y: top, W: clip.W, H: clip.H - top}
	fill(c, area, ' ', overlayStyle)

	lines := strings.Split(ansi.Strip(overlay), "\n")
	if len(lines) > area.H {
		lines = lines[len(lines)-area.H:]
	}
	for i, line := range lines {
		x := area.X
		for _, ch := range line {
			if x >= area.X+area.W {
				break
			}
			c.SetCell(canvas.Point{X: x, Y: area.Y + i}, canvas.NewCellWithStyle(ch, overlayStyle))
			x++
		}
	}
}

func intersect(a, b layout.Rect) layout.Rect {
	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(a.X+a.W, b.X+b.W), min(a.Y+a.H, b.Y+b.H)
	if x1 <= x0 || y1 <= y0 {
		return layout.Rect{}
	}
	return layout.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func contains(r layout.Rect, p canvas.Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}
