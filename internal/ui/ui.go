package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"duesync/internal/models"
	"duesync/internal/repositories"
	"duesync/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CourseListView ViewState = iota
	AssignmentListView
	ListPickView
	ConfirmView
	GenerateView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx            context.Context
	view           ViewState
	library        *repositories.Library
	engine         *tasks.Engine
	width          int
	height         int
	courseList     list.Model
	assignmentList list.Model
	pickList       list.Model
	selectedCourse *models.Course
	selectedList   *models.TargetList
	eventChan      chan tasks.Event
	lastEvent      tasks.Event
	result         *tasks.GenerationResult
	err            error
	help           help.Model
	keys           keyMap
}

type coursesFetchedMsg struct {
	courses []models.Course
	err     error
}

type assignmentsFetchedMsg struct {
	course *models.Course
	err    error
}

type spacesFetchedMsg struct {
	spaces []models.Space
	err    error
}

type engineEventMsg tasks.Event

type generationDoneMsg struct {
	result *tasks.GenerationResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, library *repositories.Library, engine *tasks.Engine) *Model {
	return &Model{
		ctx:     ctx,
		view:    CourseListView,
		library: library,
		engine:  engine,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching courses from Canvas.
func (m *Model) Init() tea.Cmd {
	return m.fetchCourses()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.courseList, &m.assignmentList, &m.pickList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CourseListView:
			return m.handleCourseListKeys(msg)
		case AssignmentListView:
			return m.handleAssignmentListKeys(msg)
		case ListPickView:
			return m.handleListPickKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case coursesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.courses))
		for i, course := range msg.courses {
			items[i] = courseItem{course: course}
		}
		m.courseList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.courseList.Title = "Canvas Courses"
		m.courseList.SetSize(m.width-4, m.height-8)
		return m, nil

	case assignmentsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = CourseListView
			return m, nil
		}
		m.selectedCourse = msg.course
		items := make([]list.Item, len(msg.course.Assignments))
		for i, assignment := range msg.course.Assignments {
			items[i] = assignmentItem{assignment: assignment}
		}
		m.assignmentList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.assignmentList.Title = fmt.Sprintf("Assignments in '%s'", msg.course.Name)
		m.assignmentList.SetSize(m.width-4, m.height-8)
		m.view = AssignmentListView
		return m, nil

	case spacesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = AssignmentListView
			return m, nil
		}
		var items []list.Item
		for _, space := range msg.spaces {
			for _, l := range space.Lists {
				items = append(items, targetListItem{space: space, list: l})
			}
		}
		m.pickList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.pickList.Title = "ClickUp Lists"
		m.pickList.SetSize(m.width-4, m.height-8)
		m.view = ListPickView
		return m, nil

	case engineEventMsg:
		m.lastEvent = tasks.Event(msg)
		return m, m.waitForEvent()

	case generationDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		m.eventChan = nil
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.error.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CourseListView:
		return m.renderCourseList()
	case AssignmentListView:
		return m.renderAssignmentList()
	case ListPickView:
		return m.renderListPick()
	case ConfirmView:
		return m.renderConfirm()
	case GenerateView:
		return m.renderGenerate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleCourseListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected := m.courseList.SelectedItem(); selected != nil {
			if item, ok := selected.(courseItem); ok {
				return m, m.fetchAssignments(item.course.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.courseList, cmd = m.courseList.Update(msg)
	return m, cmd
}

func (m *Model) handleAssignmentListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CourseListView
		return m, nil
	case "enter":
		return m, m.fetchSpaces()
	}

	var cmd tea.Cmd
	m.assignmentList, cmd = m.assignmentList.Update(msg)
	return m, cmd
}

func (m *Model) handleListPickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = AssignmentListView
		return m, nil
	case "enter":
		if selected := m.pickList.SelectedItem(); selected != nil {
			if item, ok := selected.(targetListItem); ok {
				picked := item.list
				m.selectedList = &picked
				m.view = ConfirmView
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.pickList, cmd = m.pickList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = ListPickView
		return m, nil
	case "y":
		m.view = GenerateView
		return m, m.startGeneration()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = CourseListView
		m.selectedCourse = nil
		m.selectedList = nil
		m.result = nil
		m.lastEvent = tasks.Event{}
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CourseListView:
		m.courseList, cmd = m.courseList.Update(msg)
	case AssignmentListView:
		m.assignmentList, cmd = m.assignmentList.Update(msg)
	case ListPickView:
		m.pickList, cmd = m.pickList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchCourses() tea.Cmd {
	return func() tea.Msg {
		courses, err := m.library.Courses(m.ctx, false)
		return coursesFetchedMsg{courses: courses, err: err}
	}
}

func (m *Model) fetchAssignments(courseID string) tea.Cmd {
	return func() tea.Msg {
		course, err := m.library.Course(m.ctx, courseID)
		return assignmentsFetchedMsg{course: course, err: err}
	}
}

func (m *Model) fetchSpaces() tea.Cmd {
	return func() tea.Msg {
		spaces, err := m.library.Spaces(m.ctx, false)
		return spacesFetchedMsg{spaces: spaces, err: err}
	}
}

func (m *Model) startGeneration() tea.Cmd {
	m.eventChan = make(chan tasks.Event)

	req := models.GenerationRequest{
		CourseID:         m.selectedCourse.ID,
		TargetListID:     m.selectedList.ID,
		CutoffDate:       models.CutoffNone,
		IgnoreDuplicates: true,
	}

	events := m.eventChan
	go func() {
		result, err := m.engine.Generate(m.ctx, req, events)
		m.result = result
		m.err = err
		close(events)
	}()

	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.eventChan == nil {
			return generationDoneMsg{result: m.result, err: m.err}
		}

		event, ok := <-m.eventChan
		if !ok {
			return generationDoneMsg{result: m.result, err: m.err}
		}
		return engineEventMsg(event)
	}
}

func (m *Model) renderCourseList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.courseList.View(), helpView)
}

func (m *Model) renderAssignmentList() string {
	pickKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "pick list"),
	)
	helpKeys := []key.Binding{pickKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.assignmentList.View(), helpView)
}

func (m *Model) renderListPick() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.pickList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Generate tasks in '%s'?", m.selectedList.Name))
	info := fmt.Sprintf("\nCourse: %s\nAssignments: %d\nTarget list: %s\n",
		m.selectedCourse.Name, len(m.selectedCourse.Assignments), m.selectedList.Name)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderGenerate() string {
	title := styles.title.Render("Generating Tasks")

	status := m.lastEvent.Status
	if status == "" {
		status = "Starting..."
	}

	return fmt.Sprintf("%s\n\n[%3d%%] %s", title, m.lastEvent.Progress, status)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.error.Render(fmt.Sprintf("Generation failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.result == nil {
		return styles.error.Render("No result available\n\nPress r to retry, q to quit")
	}

	title := styles.success.Render("✓ Generation Complete!")
	info := fmt.Sprintf(
		"\nCourse: %s\nCreated: %d/%d\nSkipped: %d (duplicates %d, tags %d, cutoff %d, invalid dates %d)",
		m.selectedCourse.Name,
		m.result.Created,
		m.result.Total,
		m.result.Skipped(),
		m.result.Duplicates,
		m.result.IgnoredTags,
		m.result.PastCutoff,
		m.result.InvalidDates,
	)

	var failed string
	if m.result.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warning.Render(fmt.Sprintf("%d tasks failed to create", m.result.Failed)))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
