package cmd

import (
	"time"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sumwatshade/watchface/cmd/clock"
	"github.com/sumwatshade/watchface/cmd/weather"
	"github.com/sumwatshade/watchface/cmd/window"
	"github.com/sumwatshade/watchface/resources"
	"go.uber.org/zap"
)

type model struct {
	window   *window.Window
	exchange *weather.Exchange
	use24h   bool
	now      func() time.Time
	logger   *zap.Logger

	// obstruction sources
	animator window.Animator
	showPeek bool
	overlay  string // content drawn in the obstructed rows
	lastSeen string // latest weather text, shown in the peek

	// help / key bindings
	keys keyMap
	help bhelp.Model
}

type modelOptions struct {
	resources *resources.Store
	exchange  *weather.Exchange
	use24h    bool
	now       func() time.Time
	logger    *zap.Logger
}

// newModel builds the face and loads its window: layers are created, the
// time is shown immediately and the layout runs once.
func newModel(opts modelOptions) (model, error) {
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.logger == nil {
		opts.logger = zap.NewNop()
	}
	m := model{
		window:   window.New(0, 0),
		exchange: opts.exchange,
		use24h:   opts.use24h,
		now:      opts.now,
		logger:   opts.logger,
		keys:     keys,
		help:     bhelp.New(),
	}
	if err := m.window.Load(opts.resources, m.exchange.Text()); err != nil {
		return model{}, err
	}
	m.updateTime()
	return m, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(clock.TickCmd(), m.exchange.Start())
}

// Update is the single dispatch point for every host event.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.window.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.refreshOverlay()
		m.animator.Jump(m.obstructionTarget())
		m.window.SetObstruction(m.animator.Current())
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, m.obstruct()
		case key.Matches(msg, m.keys.Peek):
			m.showPeek = !m.showPeek
			return m, m.obstruct()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.exchange.Request()
		}
		return m, nil
	case clock.TickMsg:
		m.updateTime()
		return m, tea.Batch(clock.TickCmd(), m.exchange.OnTick(time.Time(msg)))
	case window.ObstructionFrameMsg:
		changed, next := m.animator.Step(msg)
		if changed {
			m.window.SetObstruction(m.animator.Current())
			if next == nil {
				m.logger.Debug("Obstruction settled", zap.Int("rows", m.animator.Current()))
			}
		}
		return m, next
	}

	changed, cmd := m.exchange.HandleUpdate(msg)
	if changed {
		m.window.SetWeatherText(m.exchange.Text())
		m.lastSeen = m.now().Format("15:04") + " " + m.exchange.Text()
		if m.showPeek {
			m.refreshOverlay()
		}
	}
	return m, cmd
}

func (m model) View() string {
	return m.window.View(m.overlay)
}

func (m *model) updateTime() {
	m.window.SetTimeText(clock.Format(m.now(), m.use24h))
}

// obstruct re-targets the overlay animation after a source was toggled.
func (m *model) obstruct() tea.Cmd {
	// keep the old content while sliding out
	if m.help.ShowAll || m.showPeek {
		m.refreshOverlay()
	}
	return m.animator.AnimateTo(m.obstructionTarget())
}

func (m *model) refreshOverlay() {
	w := m.window.Bounds().W
	switch {
	case m.help.ShowAll:
		m.overlay = helpBox(m.help.View(m.keys), w)
	case m.showPeek:
		body := m.lastSeen
		if body == "" {
			body = "No weather received yet"
		}
		m.overlay = peekBox("Weather", body, w)
	default:
		m.overlay = ""
	}
}

// obstructionTarget is the number of rows the active overlay covers; the
// help panel takes precedence over the peek.
func (m *model) obstructionTarget() int {
	if !m.help.ShowAll && !m.showPeek {
		return 0
	}
	return min(lipgloss.Height(m.overlay), m.window.Bounds().H)
}
