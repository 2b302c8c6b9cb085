package tui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/tatianab/ghost-hunter/internal/app"
	"github.com/tatianab/ghost-hunter/internal/iso"
	"github.com/tatianab/ghost-hunter/internal/logger"
	"github.com/tatianab/ghost-hunter/internal/models"
	"github.com/tatianab/ghost-hunter/internal/render"
	"github.com/tatianab/ghost-hunter/internal/session"
	"github.com/tatianab/ghost-hunter/internal/task"
)

const (
	frameInterval = 33 * time.Millisecond

	headerRows = 1
	hudRows    = 4

	ritualLabel = "[ CAST RITUAL ]"
)

type model struct {
	oracle  session.Oracle
	newGame func() *session.Session

	session *session.Session
	scope   *task.Scope
	splash  image.Image

	health  progress.Model
	spirit  progress.Model
	spinner spinner.Model

	width  int
	height int
	last   time.Time
	now    func() time.Time
	log    *logrus.Entry
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22c55e")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444")).
			Bold(true)

	logTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)

	loreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")).
			Italic(true)

	readyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#065f46")).
			Bold(true)

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")).
			Background(lipgloss.Color("#1f2937"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	defeatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#dc2626")).
			Bold(true)
)

var (
	splashTitle   = render.Hex("#22c55e")
	splashText    = render.Hex("#e5e5e5")
	splashPrompt  = render.Hex("#86efac")
	splashDimming = render.RGBA(0, 0, 0, 0.6)
)

// NewModel returns the game on its title screen. newGame is called for the
// first game and for every restart.
func NewModel(oracle session.Oracle, newGame func() *session.Session) model {
	return model{
		oracle:  oracle,
		newGame: newGame,
		session: newGame(),
		scope:   task.NewScope(context.Background()),
		health:  progress.New(progress.WithGradient("#dc2626", "#f87171"), progress.WithoutPercentage(), progress.WithWidth(20)),
		spirit:  progress.New(progress.WithGradient("#0891b2", "#34d399"), progress.WithoutPercentage(), progress.WithWidth(20)),
		spinner: spinner.New(spinner.WithSpinner(spinner.Moon)),
		now:     time.Now,
		log:     logger.For("tui"),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(frame(), m.spinner.Tick, m.fetchSplash())
}

type frameMsg time.Time

type analysisMsg struct {
	scope  *task.Scope
	wave   int
	result task.Result[models.SpectralAnalysis]
}

type splashMsg struct {
	scope  *task.Scope
	result task.Result[image.Image]
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			switch m.session.Phase() {
			case session.PhaseSplash:
				m.session.Start()
			case session.PhaseDefeated:
				m = m.restart()
			}

		case tea.KeySpace:
			m.session.CastRitual()

		case tea.KeyRunes:
			switch string(msg.Runes) {
			case "q":
				return m, tea.Quit
			case "r":
				m.session.CastRitual()
			}
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := max((msg.Width-20)/2, 10)
		m.health.Width = barWidth
		m.spirit.Width = barWidth

	case frameMsg:
		t := time.Time(msg)
		if !m.last.IsZero() && t.After(m.last) {
			m.session.Advance(t.Sub(m.last))
		}
		m.last = t
		cmds = append(cmds, frame())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case analysisMsg:
		if msg.result.Stale || msg.scope != m.scope {
			m.log.WithField("wave", msg.wave).Debug("dropping analysis from a finished session")
			return m, nil
		}
		m.session.ResolveAnalysis(msg.wave, msg.result.Value, msg.result.Err)

	case splashMsg:
		if msg.result.Stale || msg.scope != m.scope {
			return m, nil
		}
		if msg.result.Err != nil {
			m.log.WithError(msg.result.Err).Warn("splash image unavailable, using gradient")
			return m, nil
		}
		m.splash = msg.result.Value
	}

	if wave, ok := m.session.NextAnalysis(); ok {
		cmds = append(cmds, m.fetchAnalysis(wave))
	}
	return m, tea.Batch(cmds...)
}

// click routes a left click at terminal cell x, y to the ritual button or
// the scene.
func (m model) click(x, y int) {
	l := m.layout()
	if y == l.buttonRow && x < lipgloss.Width(ritualLabel) {
		m.session.CastRitual()
		return
	}
	if y < l.sceneTop || y >= l.sceneTop+l.sceneRows {
		return
	}
	m.session.Click(render.CellCenter(x, y-l.sceneTop), m.projection())
}

func (m model) restart() model {
	m.scope.Close()
	m.scope = task.NewScope(context.Background())
	m.session = m.newGame()
	m.session.Start()
	m.log.Info("hunt restarted")
	return m
}

type screenLayout struct {
	sceneTop  int
	sceneRows int
	buttonRow int
}

func (m model) layout() screenLayout {
	rows := max(m.height-headerRows-hudRows, 1)
	return screenLayout{
		sceneTop:  headerRows,
		sceneRows: rows,
		buttonRow: headerRows + rows + 1,
	}
}

func (m model) projection() iso.Projection {
	w, h := float64(max(m.width, 1))*render.CellWidth, float64(m.layout().sceneRows)*render.CellHeight
	return iso.ForScreen(w, h)
}

func (m model) fetchAnalysis(wave int) tea.Cmd {
	scope, oracle := m.scope, m.oracle
	return func() tea.Msg {
		r := task.Do(scope, func(ctx context.Context) (models.SpectralAnalysis, error) {
			return oracle.SpectralAnalysis(ctx, wave)
		})
		return analysisMsg{scope: scope, wave: wave, result: r}
	}
}

func (m model) fetchSplash() tea.Cmd {
	scope, oracle := m.scope, m.oracle
	return func() tea.Msg {
		r := task.Do(scope, func(ctx context.Context) (image.Image, error) {
			img, err := oracle.SplashImage(ctx, session.SplashPrompt)
			if err != nil {
				return nil, err
			}
			return render.DecodeImage(img.Data)
		})
		return splashMsg{scope: scope, result: r}
	}
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "\n  Lighting the lanterns...\n"
	}
	switch m.session.Phase() {
	case session.PhaseSplash:
		return m.renderSplash()
	case session.PhaseDefeated:
		return m.renderDefeat()
	}
	return strings.Join([]string{m.renderHeader(), m.renderScene(), m.renderHUD()}, "\n")
}

func (m model) renderSplash() string {
	c := render.NewTermCanvas(m.width, m.height)
	w, h := c.Size()
	backdrop := m.splash
	if backdrop == nil {
		backdrop = render.Gradient(m.width, m.height)
	}
	render.Blit(c, backdrop, 0, 0, w, h, render.CellWidth, render.CellHeight)
	c.FillRect(0, 0, w, h, splashDimming)

	mid := float64(m.height/2) * render.CellHeight
	centered := func(row float64, s string, col color.Color) {
		x := (w - float64(len([]rune(s)))*render.CellWidth) / 2
		c.Text(x, mid+row*render.CellHeight, s, col)
	}
	centered(-2, "GHOST HUNTER", splashTitle)
	centered(0, "Protect the salt circle. Exorcise the rising spirits of the ancient graveyard.", splashText)
	centered(2, "Press enter to ENTER THE GRAVEYARD", splashPrompt)
	return c.String()
}

func (m model) renderDefeat() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		defeatStyle.Render("YOU WERE POSSESSED"),
		"",
		headerStyle.Render(fmt.Sprintf("Souls reaped: %d", m.session.State().Score)),
		"",
		helpStyle.Render("Press enter to TRY AGAIN, q to leave"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m model) renderHeader() string {
	st := m.session.State()
	header := titleStyle.Render("GHOST HUNTER") + "  " +
		headerStyle.Render(fmt.Sprintf("Graveyard Lv. %d   Souls Reaped: %d", m.session.Wave(), st.Score))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(header)
}

func (m model) renderScene() string {
	c := render.NewTermCanvas(m.width, m.layout().sceneRows)
	st := m.session.State()
	render.Draw(c, m.projection(), render.Scene{
		Entities:       st.Entities,
		ExorcismActive: st.ExorcismActive,
		Now:            m.now(),
	})
	return c.String()
}

func (m model) renderHUD() string {
	st := m.session.State()
	tuning := m.session.Tuning()
	line := lipgloss.NewStyle().MaxWidth(m.width)

	bars := fmt.Sprintf("HP %3d %s  SPIRIT %3d %s",
		st.Health, m.health.ViewAs(float64(st.Health)/float64(tuning.MaxHealth)),
		st.SpiritEnergy, m.spirit.ViewAs(float64(st.SpiritEnergy)/float64(tuning.MaxEnergy)))

	button := disabledStyle.Render(ritualLabel)
	if m.session.CanCastRitual() {
		button = readyStyle.Render(ritualLabel)
	}
	controls := button + "  " + helpStyle.Render("click targets to exorcise, space to cast, q to quit")
	if m.session.AnalysisPending() {
		controls += "  " + m.spinner.View() + helpStyle.Render(" consulting the spirits")
	}

	var warning, lore string
	if a, ok := m.session.Analysis(); ok {
		warning = warningStyle.Render(fmt.Sprintf("Warning: %s Spectral Activity Detected", a.RiskLevel))
		lore = logTitleStyle.Render("Hunter's Log: ") + loreStyle.Render(a.Lore)
	}

	return strings.Join([]string{
		line.Render(bars),
		line.Render(controls),
		line.Render(warning),
		line.Render(lore),
	}, "\n")
}

// Run plays the game in the terminal until the player quits.
func Run(oracle session.Oracle, newGame func() *session.Session) error {
	p := tea.NewProgram(NewModel(oracle, newGame), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if m, ok := final.(model); ok {
		m.scope.Close()
	}
	return err
}

// Start loads the configuration and runs the terminal game.
func Start() error {
	a, err := app.Load(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()
	return Run(a.Oracle, func() *session.Session { return a.NewSession() })
}
