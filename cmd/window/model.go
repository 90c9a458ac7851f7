package window

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sumwatshade/watchface/cmd/layout"
	"github.com/sumwatshade/watchface/resources"
)

const initialTime = "00:00"

// TextLayer draws text through a font, centred in its frame. Its background
// is clear: cells keep whatever background is underneath.
type TextLayer struct {
	Frame layout.Rect
	Text  string
	Color lipgloss.Color
	Font  *resources.Font
}

// BitmapLayer fills its frame with a tiled bitmap.
type BitmapLayer struct {
	Frame  layout.Rect
	Bitmap *resources.Bitmap
	Hidden bool
}

// Window is the face's single display. Layers exist only between Load and
// Unload.
type Window struct {
	bounds      layout.Rect
	obstruction int // rows covered at the bottom

	background *BitmapLayer
	time       *TextLayer
	weather    *TextLayer

	timeFont    *resources.Font
	weatherFont *resources.Font
	bitmap      *resources.Bitmap
}

func New(width, height int) *Window {
	return &Window{bounds: layout.Rect{W: width, H: height}}
}

// Bounds is the full drawable area.
func (w *Window) Bounds() layout.Rect { return w.bounds }

// UnobstructedBounds is the part of the display not covered by an overlay.
func (w *Window) UnobstructedBounds() layout.Rect {
	r := w.bounds
	r.H = max(0, r.H-w.obstruction)
	return r
}

func (w *Window) Loaded() bool { return w.time != nil }

// Load acquires the bitmap and fonts and builds the layers, then runs a
// layout pass for the current obstruction.
func (w *Window) Load(store *resources.Store, weatherText string) error {
	bitmap, err := store.LoadBitmap(resources.ImageBackground)
	if err != nil {
		return err
	}
	timeFont, err := store.LoadFont(resources.FontPerfectDOS48)
	if err != nil {
		return err
	}
	weatherFont, err := store.LoadFont(resources.FontPerfectDOS20)
	if err != nil {
		return err
	}
	w.bitmap, w.timeFont, w.weatherFont = bitmap, timeFont, weatherFont

	b := w.bounds
	w.background = &BitmapLayer{Frame: b, Bitmap: bitmap}
	w.time = &TextLayer{
		Frame: layout.Rect{Y: layout.RelativePixel(layout.TimeTopPercent, b.H), W: b.W, H: timeFont.Height},
		Text:  initialTime,
		Color: layout.TimeColor,
		Font:  timeFont,
	}
	w.weather = &TextLayer{
		Frame: layout.Rect{Y: layout.RelativePixel(layout.WeatherTopPercent, b.H), W: b.W, H: weatherFont.Height},
		Text:  weatherText,
		Color: weatherColor,
		Font:  weatherFont,
	}
	w.UpdateUI()
	return nil
}

// Unload releases the layers and assets.
func (w *Window) Unload() {
	w.background, w.time, w.weather = nil, nil, nil
	w.bitmap, w.timeFont, w.weatherFont = nil, nil, nil
}

// UpdateUI re-runs the layout adjustment against the current bounds.
func (w *Window) UpdateUI() layout.State {
	if !w.Loaded() {
		return layout.State{}
	}
	s := layout.Adjust(w.bounds, w.UnobstructedBounds(), w.time.Frame, w.weather.Frame)
	w.background.Hidden = s.BackgroundHidden
	w.time.Color = s.TimeColor
	w.time.Frame = s.TimeFrame
	w.weather.Frame = s.WeatherFrame
	return s
}

// Resize changes the drawable area. Frames are widened to the new width.
func (w *Window) Resize(width, height int) {
	w.bounds = layout.Rect{W: width, H: height}
	if !w.Loaded() {
		return
	}
	w.background.Frame = w.bounds
	w.time.Frame.W = width
	w.weather.Frame.W = width
	w.UpdateUI()
}

// SetObstruction records how many bottom rows are covered and re-runs the
// layout when that changes.
func (w *Window) SetObstruction(rows int) {
	rows = max(0, rows)
	if rows == w.obstruction {
		return
	}
	w.obstruction = rows
	w.UpdateUI()
}

func (w *Window) Obstruction() int { return w.obstruction }

func (w *Window) SetTimeText(s string) {
	if w.time != nil {
		w.time.Text = s
	}
}

func (w *Window) SetWeatherText(s string) {
	if w.weather != nil {
		w.weather.Text = s
	}
}

// Layers exposes the current layers for inspection; all are nil while
// unloaded.
func (w *Window) Layers() (background *BitmapLayer, time, weather *TextLayer) {
	return w.background, w.time, w.weather
}
