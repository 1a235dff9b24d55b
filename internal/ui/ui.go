package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/decades-app/decades/internal/analysis"
	"github.com/decades-app/decades/internal/formatter"
	"github.com/decades-app/decades/internal/models"
	"github.com/decades-app/decades/internal/shared"
	"github.com/decades-app/decades/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	HistogramView
	TrackListView
)

// barWidth is the maximum histogram bar width in cells.
const barWidth = 40

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	engine    *tasks.PlaylistEngine
	reference string

	width  int
	height int

	data      *models.PlaylistData
	selection analysis.Selection
	cursor    int

	trackList list.Model

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate

	status    string
	exporting bool

	err  error
	help help.Model
	keys keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	pick   key.Binding
	clear  key.Binding
	list   key.Binding
	export key.Binding
	back   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		pick: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "pick year"),
		),
		clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear selection"),
		),
		list: key.NewBinding(
			key.WithKeys("t", "tab"),
			key.WithHelp("t", "tracks"),
		),
		export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export selection"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.pick},
		{k.clear, k.list, k.export},
		{k.back, k.quit},
	}
}

// trackItem wraps [models.Track] to implement list.Item.
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := fmt.Sprintf("%s (%d)", formatter.ArtistNames(i.track), i.track.ReleaseYear)
	if i.track.Album.Name != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album.Name)
	}
	return desc
}

type analysisDoneMsg struct {
	data *models.PlaylistData
	err  error
}

type exportDoneMsg struct {
	result *tasks.CreateResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

// NewModel creates a new TUI model for the given playlist reference.
func NewModel(ctx context.Context, engine *tasks.PlaylistEngine, reference string) *Model {
	return &Model{
		ctx:       ctx,
		view:      LoadingView,
		engine:    engine,
		reference: reference,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the analysis.
func (m *Model) Init() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		data, err := m.engine.Analyze(m.ctx, m.progressChan, m.reference)
		m.data = data
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.trackList.Width() != 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case HistogramView:
			return m.handleHistogramKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		default:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case analysisDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.data = msg.data
		m.view = HistogramView
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("✗ Export failed: %v", msg.err))
		} else {
			m.status = styles.selected.Render(
				fmt.Sprintf("✓ Created playlist with %d tracks", msg.result.TracksAdded))
		}
		return m, nil
	}

	if m.view == TrackListView {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case HistogramView:
		return m.renderHistogram()
	case TrackListView:
		return m.trackList.View() + "\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	default:
		return ""
	}
}

func (m *Model) handleHistogramKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.data.YearStats)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.data.YearStats) > 0 {
			m.selection.Click(m.data.YearStats[m.cursor].Year)
		}
	case "c":
		m.selection.Clear()
		m.status = ""
	case "t", "tab":
		return m, m.openTrackList()
	case "e":
		return m, m.startExport()
	}
	return m, nil
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = HistogramView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

// startExport creates a new playlist from the current selection.
//
// Requires a session-backed engine; with an app token the create call fails
// and the error is shown in the status line.
func (m *Model) startExport() tea.Cmd {
	if m.exporting {
		return nil
	}

	lo, hi, ok := m.selection.Bounds()
	if !ok {
		m.status = styles.help.Render("Pick a year before exporting")
		return nil
	}

	tracks := m.selection.Filter(m.data.Tracks)
	uris := make([]string, len(tracks))
	for i, track := range tracks {
		uris[i] = track.URI
	}

	name := fmt.Sprintf("%s (%d)", m.data.Meta.Name, lo)
	if hi != lo {
		name = fmt.Sprintf("%s (%d-%d)", m.data.Meta.Name, lo, hi)
	}

	m.exporting = true
	m.status = styles.help.Render("Exporting selection...")

	return func() tea.Msg {
		result, err := m.engine.Create(m.ctx, nil, tasks.CreateRequest{
			Name:      name,
			TrackURIs: uris,
		})
		return exportDoneMsg{result: result, err: err}
	}
}

// openTrackList builds the track list for the current selection.
func (m *Model) openTrackList() tea.Cmd {
	tracks := m.selection.Filter(m.data.Tracks)
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}

	m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.trackList.Title = m.trackListTitle(len(tracks))
	m.trackList.SetSize(m.width-4, m.height-8)
	m.view = TrackListView
	return nil
}

func (m *Model) trackListTitle(count int) string {
	lo, hi, ok := m.selection.Bounds()
	if !ok {
		return fmt.Sprintf("All tracks (%d)", count)
	}
	if lo == hi {
		return fmt.Sprintf("Tracks from %d (%d)", lo, count)
	}
	return fmt.Sprintf("Tracks from %d to %d (%d)", lo, hi, count)
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return analysisDoneMsg{data: m.data, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("Analyzing playlist")
	message := m.progress.Message
	if message == "" {
		message = "Fetching..."
	}
	return fmt.Sprintf("%s\n\n%s", title, message)
}

func (m *Model) renderHistogram() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(m.data.Meta.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d tracks • %s\n\n",
		len(m.data.Tracks), shared.FormatDuration(m.data.TotalDurationMS)))

	maxCount := 0
	for _, stat := range m.data.YearStats {
		if stat.Count > maxCount {
			maxCount = stat.Count
		}
	}

	selected := m.selection.SelectedYears()
	for i, stat := range m.data.YearStats {
		width := stat.Count * barWidth / maxCount
		if width < 1 {
			width = 1
		}
		bar := strings.Repeat("█", width)

		line := fmt.Sprintf("%4d │%s %d", stat.Year, bar, stat.Count)
		switch {
		case selected[stat.Year]:
			line = styles.selected.Render(line)
		default:
			line = styles.bar.Render(line)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = styles.cursor.Render("> ")
		}
		b.WriteString(cursor + line + "\n")
	}

	if lo, hi, ok := m.selection.Bounds(); ok {
		count := len(m.selection.Filter(m.data.Tracks))
		if lo == hi {
			b.WriteString(fmt.Sprintf("\nSelected %d (%d tracks)\n", lo, count))
		} else {
			b.WriteString(fmt.Sprintf("\nSelected %d to %d (%d tracks)\n", lo, hi, count))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}

	helpKeys := []key.Binding{m.keys.pick, m.keys.clear, m.keys.list, m.keys.export, m.keys.quit}
	b.WriteString("\n" + m.help.ShortHelpView(helpKeys))

	return b.String()
}
