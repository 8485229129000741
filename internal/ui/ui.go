package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/studio/internal/models"
	"github.com/desertthunder/studio/internal/reconcile"
	"github.com/desertthunder/studio/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	GroupListView ViewState = iota
	TemplateListView
	ConfirmView
	SwapView
	ResultView
)

// Engine is the subset of [tasks.StudioEngine] the picker needs.
type Engine interface {
	Session(ctx context.Context, sessionID string) (*models.Session, error)
	Candidates(ctx context.Context, sessionID, groupID string) ([]models.TemplateShape, error)
	PreviewSwap(ctx context.Context, slots []models.Slot, groupID, templateID string) (*tasks.SwapResult, error)
	Swap(ctx context.Context, sessionID, groupID, templateID string) (*tasks.SwapResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	engine        Engine
	sessionID     string
	session       *models.Session
	width         int
	height        int
	groupList     list.Model
	templateList  list.Model
	selectedGroup *reconcile.Group
	selectedShape *models.TemplateShape
	preview       *tasks.SwapResult
	result        *tasks.SwapResult
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model for the session identified by sessionID.
func NewModel(ctx context.Context, engine Engine, sessionID string) *Model {
	return &Model{
		ctx:          ctx,
		view:         GroupListView,
		engine:       engine,
		sessionID:    sessionID,
		groupList:    list.New(nil, list.NewDefaultDelegate(), 0, 0),
		templateList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// State returns the active view state.
func (m *Model) State() ViewState { return m.view }

// Err returns the last error surfaced to the user.
func (m *Model) Err() error { return m.err }

// Init initializes the TUI by loading the session.
func (m *Model) Init() tea.Cmd {
	return m.loadSession()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.groupList.SetSize(msg.Width-4, msg.Height-8)
		m.templateList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case GroupListView:
			return m.handleGroupListKeys(msg)
		case TemplateListView:
			return m.handleTemplateListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case SwapView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionLoaded:
		data := msg.data.(sessionLoaded)
		if data.err != nil {
			m.err = data.err
			return m, tea.Quit
		}
		m.session = data.session
		cmd := m.groupList.SetItems(groupItems(data.session.Slots()))
		m.groupList.Title = fmt.Sprintf("Prints for %s", data.session.ClientName())
		m.view = GroupListView
		return m, cmd

	case MsgCandidatesFetched:
		data := msg.data.(candidatesFetched)
		if data.err != nil {
			m.err = data.err
			m.view = GroupListView
			return m, nil
		}
		m.err = nil
		cmd := m.templateList.SetItems(templateItems(data.shapes, m.selectedGroup.TemplateID))
		m.templateList.Title = fmt.Sprintf("Templates for '%s'", m.selectedGroup.Name)
		m.templateList.ResetSelected()
		m.view = TemplateListView
		return m, cmd

	case MsgPreviewReady:
		data := msg.data.(swapDone)
		if data.err != nil {
			m.err = data.err
			m.view = TemplateListView
			return m, nil
		}
		m.err = nil
		m.preview = data.result
		m.view = ConfirmView
		return m, nil

	case MsgSwapComplete:
		data := msg.data.(swapDone)
		m.result = data.result
		m.err = data.err
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case GroupListView:
		return m.renderGroupList()
	case TemplateListView:
		return m.renderTemplateList()
	case ConfirmView:
		return m.renderConfirm()
	case SwapView:
		return m.renderSwap()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleGroupListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.groupList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.pick):
		if item, ok := m.groupList.SelectedItem().(groupItem); ok {
			group := item.group
			m.selectedGroup = &group
			m.err = nil
			return m, m.fetchCandidates(group.ID)
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleTemplateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.templateList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = GroupListView
		m.selectedGroup = nil
		return m, nil
	case key.Matches(msg, m.keys.preview):
		if item, ok := m.templateList.SelectedItem().(templateItem); ok {
			shape := item.shape
			m.selectedShape = &shape
			return m, m.previewSwap(m.selectedGroup.ID, shape.ID)
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
		m.view = TemplateListView
		m.preview = nil
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = SwapView
		return m, m.startSwap(m.selectedGroup.ID, m.selectedShape.ID)
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.selectedGroup = nil
		m.selectedShape = nil
		m.preview = nil
		m.result = nil
		m.err = nil
		return m, m.loadSession()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GroupListView:
		m.groupList, cmd = m.groupList.Update(msg)
	case TemplateListView:
		m.templateList, cmd = m.templateList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadSession() tea.Cmd {
	return func() tea.Msg {
		return sessionLoadedMsg(m.engine.Session(m.ctx, m.sessionID))
	}
}

func (m *Model) fetchCandidates(groupID string) tea.Cmd {
	return func() tea.Msg {
		return candidatesFetchedMsg(m.engine.Candidates(m.ctx, m.sessionID, groupID))
	}
}

func (m *Model) previewSwap(groupID, templateID string) tea.Cmd {
	slots := m.session.Slots()
	return func() tea.Msg {
		return previewReadyMsg(m.engine.PreviewSwap(m.ctx, slots, groupID, templateID))
	}
}

func (m *Model) startSwap(groupID, templateID string) tea.Cmd {
	return func() tea.Msg {
		return swapCompleteMsg(m.engine.Swap(m.ctx, m.sessionID, groupID, templateID))
	}
}

func (m *Model) footer() string {
	return m.help.ShortHelpView(m.keys.helpFor(m.view))
}

func (m *Model) renderGroupList() string {
	return fmt.Sprintf("%s\n\n%s", m.groupList.View(), m.footer())
}

func (m *Model) renderTemplateList() string {
	return fmt.Sprintf("%s\n\n%s", m.templateList.View(), m.footer())
}

func (m *Model) renderConfirm() string {
	p := m.preview
	title := styles.title.Render(fmt.Sprintf("Swap '%s' to %s?", p.FromName, p.To.Name))
	info := fmt.Sprintf(
		"\nPrint: %s → %s\nSlots: %d → %d\nPrint size: %s\n",
		p.FromName, p.Group.Name, len(m.selectedGroup.Slots), len(p.Group.Slots), p.Group.PrintSize,
	)

	var dropped string
	if len(p.Dropped) > 0 {
		dropped = "\n" + styles.warn.Render(fmt.Sprintf("%d photo(s) will be unplaced: %s", len(p.Dropped), strings.Join(p.Dropped, ", "))) + "\n"
	}

	return fmt.Sprintf("%s\n%s%s\n%s", title, info, dropped, m.footer())
}

func (m *Model) renderSwap() string {
	title := styles.title.Render("Swapping Template")
	return fmt.Sprintf("%s\n\nSaving %s...", title, m.selectedGroup.Name)
}

func (m *Model) renderResult() string {
	helpView := m.footer()

	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Swap failed: %v", m.err)) + "\n\n" + helpView
	}
	if m.result == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	title := styles.ok.Render("✓ Swap Complete!")
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s is now %s\n", m.result.FromName, m.result.Group.Name)
	for _, s := range m.result.Group.Slots {
		photo := s.PhotoRef
		if photo == "" {
			photo = styles.help.Render("empty")
		}
		fmt.Fprintf(&b, "  %d. %s\n", s.IndexInGroup+1, photo)
	}
	if len(m.result.Dropped) > 0 {
		b.WriteString("\n" + styles.warn.Render("Unplaced: "+strings.Join(m.result.Dropped, ", ")) + "\n")
	}

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}
