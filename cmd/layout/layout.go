package layout

import "github.com/charmbracelet/lipgloss"

// Vertical placement of the text layers, as a percentage of the unobstructed
// height.
const (
	TimeTopPercent    = 31
	WeatherTopPercent = 76
)

// Time text colours: black over the background image, white once the image
// is hidden and the window's black background shows through.
var (
	TimeColor         = lipgloss.Color("0")
	TimeColorContrast = lipgloss.Color("15")
)

// Rect is a region of the display in cells.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Equal(o Rect) bool { return r == o }

// RelativePixel converts a percentage of extent into an absolute offset,
// rounding down.
func RelativePixel(percent, extent int) int {
	return extent * percent / 100
}

// State is the result of a layout pass.
type State struct {
	BackgroundHidden bool
	TimeColor        lipgloss.Color
	TimeFrame        Rect
	WeatherFrame     Rect
}

// Adjust places the time and weather frames for the current unobstructed
// area and decides background visibility. Only the Y origin of each frame
// changes. It holds no state, so calling it again with the same bounds gives
// the same result.
func Adjust(full, unobstructed, timeFrame, weatherFrame Rect) State {
	s := State{TimeFrame: timeFrame, WeatherFrame: weatherFrame}
	if !full.Equal(unobstructed) {
		s.BackgroundHidden = true
		s.TimeColor = TimeColorContrast
	} else {
		s.TimeColor = TimeColor
	}
	s.TimeFrame.Y = RelativePixel(TimeTopPercent, unobstructed.H)
	s.WeatherFrame.Y = RelativePixel(WeatherTopPercent, unobstructed.H)
	return s
}
