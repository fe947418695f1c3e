package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmfernandez/tastify/internal/models"
	"github.com/lmfernandez/tastify/internal/services"
	"github.com/lmfernandez/tastify/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	UserListView ViewState = iota
	TopTrackListView
	ConfirmView
	EnrichView
	ResultView
)

// UserDirectory lists the stored user profiles shown in the first view.
type UserDirectory interface {
	List(criteria map[string]any) ([]*models.User, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	users        UserDirectory
	spotify      services.Service
	engine       tasks.TasteEngine
	token        string
	limit        int
	timeRange    string
	width        int
	height       int
	userList     list.Model
	trackList    list.Model
	selectedUser *models.User
	topTracks    []models.TrackSummary
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.EnrichResult
	err          error
	help         help.Model
	keys         keyMap
}

type usersFetchedMsg struct {
	users []*models.User
	err   error
}

type topTracksFetchedMsg struct {
	tracks []models.TrackSummary
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type enrichCompleteMsg struct {
	result *tasks.EnrichResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, users UserDirectory, spotify services.Service, engine tasks.TasteEngine, token string, limit int, timeRange string) *Model {
	return &Model{
		ctx:       ctx,
		view:      UserListView,
		users:     users,
		spotify:   spotify,
		engine:    engine,
		token:     token,
		limit:     services.NormalizeLimit(limit),
		timeRange: services.NormalizeTimeRange(timeRange),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading the stored user profiles.
func (m *Model) Init() tea.Cmd {
	return m.fetchUsers()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.userList.Width() == 0 {
			m.userList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.trackList.Width() == 0 {
			m.trackList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case UserListView:
			return m.handleUserListKeys(msg)
		case TopTrackListView:
			return m.handleTrackListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case usersFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.users))
		for i, user := range msg.users {
			items[i] = userItem{user: user}
		}
		m.userList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.userList.Title = "Stored Profiles"
		m.userList.SetSize(m.width-4, m.height-8)
		return m, nil

	case topTracksFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = UserListView
			return m, nil
		}
		m.topTracks = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, track := range msg.tracks {
			items[i] = trackItem{track: track}
		}
		m.trackList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.trackList.Title = fmt.Sprintf("Top tracks (%s)", m.timeRange)
		m.trackList.SetSize(m.width-4, m.height-8)
		m.view = TopTrackListView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case enrichCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case UserListView:
		return m.renderUserList()
	case TopTrackListView:
		return m.renderTrackList()
	case ConfirmView:
		return m.renderConfirm()
	case EnrichView:
		return m.renderEnrich()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleUserListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.userList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(userItem); ok {
				m.selectedUser = item.user
				return m, m.fetchTopTracks()
			}
		}
	}

	var cmd tea.Cmd
	m.userList, cmd = m.userList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = UserListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = TopTrackListView
		return m, nil
	case "y":
		m.view = EnrichView
		return m, m.startEnrich()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = UserListView
		m.selectedUser = nil
		m.topTracks = nil
		m.result = nil
		m.err = nil
		return m, m.fetchUsers()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case UserListView:
		m.userList, cmd = m.userList.Update(msg)
	case TopTrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.users.List(nil)
		return usersFetchedMsg{users: users, err: err}
	}
}

func (m *Model) fetchTopTracks() tea.Cmd {
	return func() tea.Msg {
		tracks, err := m.spotify.TopTracks(m.ctx, m.token, m.limit, m.timeRange)
		return topTracksFetchedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) startEnrich() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Enrich(m.ctx, m.progressChan, m.token, m.selectedUser.ID, m.limit, m.timeRange)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return enrichCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return enrichCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderUserList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.userList.View(), helpView)
}

func (m *Model) renderTrackList() string {
	enrichKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "enrich"),
	)
	helpKeys := []key.Binding{enrichKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Attach these tracks to '%s'?", m.selectedUser.Name))
	info := fmt.Sprintf("\nProfile: %s <%s>\nTracks: %d (%s)\n", m.selectedUser.Name, m.selectedUser.Email, len(m.topTracks), m.timeRange)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderEnrich() string {
	title := styles.title.Render("Enriching Preferences")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTop:
		phase = "Fetching top tracks..."
	case tasks.SearchTracks:
		phase = fmt.Sprintf("Looking up tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.AttachPrefs:
		phase = "Attaching preferences..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Enrichment failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.ok.Render("✓ Enrichment Complete!")
	info := fmt.Sprintf(
		"\nProfile: %s <%s>\nTop tracks considered: %d\nAttached: %d\nAlready present: %d",
		m.result.User.Name,
		m.result.User.Email,
		m.result.TotalTracks,
		m.result.Enriched,
		m.result.Skipped,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to look up %d tracks:", m.result.Failed)))
		for _, match := range m.result.Matches {
			if match.Error != nil {
				failed += fmt.Sprintf("\n  • %s - %s", match.Summary.Artist, match.Summary.TrackName)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
