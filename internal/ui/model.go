// Package ui hosts the evaluation wizard in a full-screen terminal program.
package ui

import (
	"context"
	"errors"
	"image"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"selfeval/internal/capture"
	"selfeval/internal/evaluation"
	"selfeval/internal/geo"
	"selfeval/internal/host"
	"selfeval/internal/verbose"
	"selfeval/internal/wizard"
)

// Signature pad geometry in terminal cells.
const (
	padWidth  = 48
	padHeight = 8
	padScale  = 6
)

// padOrigin is the screen cell of the pad's top-left corner on the signature
// screen: below the header, the title and the box border.
var padOrigin = image.Pt(1, 3)

type inputMode int

const (
	inputNone inputMode = iota
	inputPhotoPath
	inputSignerName
)

// Options configures the terminal model.
type Options struct {
	Wizard *wizard.Wizard
	Bridge *Bridge
	// Context bounds the load, photo and submission commands.
	Context context.Context
	Locator geo.Locator
	Photo   capture.PhotoOptions
	// Camera builds the camera for a path typed by the user. FileCamera is
	// used when nil.
	Camera  func(path string) capture.Camera
	Logger  *verbose.Logger
	NoColor bool
}

// Model is the Bubble Tea model driving a wizard.
type Model struct {
	wizard  *wizard.Wizard
	bridge  *Bridge
	ctx     context.Context
	locator geo.Locator
	photo   capture.PhotoOptions
	camera  func(string) capture.Camera
	logger  *verbose.Logger

	keys      keyMap
	help      help.Model
	pathInput textinput.Model
	nameInput textinput.Model
	mode      inputMode
	pad       *capture.Pad

	cursor  int
	seen    wizard.State
	busy    string
	flash   host.HapticKind
	width   int
	noColor bool
}

// NewModel builds a model for opts.Wizard, which must use opts.Bridge.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	camera := opts.Camera
	if camera == nil {
		camera = func(path string) capture.Camera { return capture.FileCamera{Path: path} }
	}
	logger := opts.Logger
	if logger == nil {
		logger = verbose.Discard()
	}
	photo := opts.Photo
	if photo.OnGeoMiss == nil {
		photo.OnGeoMiss = func(questionID string) {
			logger.Warnf("no position fix for photo of %s", questionID)
		}
	}

	pathInput := textinput.New()
	pathInput.Prompt = "Photo file: "
	pathInput.Placeholder = "path/to/image.jpg"
	pathInput.CharLimit = 512

	nameInput := textinput.New()
	nameInput.Prompt = "Signed by: "
	nameInput.Placeholder = "full name"
	nameInput.CharLimit = 120

	pad := capture.NewPad(capture.PadOptions{
		Bounds:   image.Rectangle{Min: padOrigin, Max: padOrigin.Add(image.Pt(padWidth, padHeight))},
		Scale:    padScale,
		PenWidth: 3,
	})
	w := opts.Wizard
	pad.OnStrokeEnd(func(snapshot []byte) {
		_ = w.SetSignature(snapshot)
	})

	return Model{
		wizard:    w,
		bridge:    opts.Bridge,
		ctx:       ctx,
		locator:   opts.Locator,
		photo:     photo,
		camera:    camera,
		logger:    logger,
		keys:      defaultKeyMap(),
		help:      help.New(),
		pathInput: pathInput,
		nameInput: nameInput,
		pad:       pad,
		seen:      w.State(),
		busy:      "Loading your locations…",
		noColor:   opts.NoColor,
	}
}

// Init starts loading the user context.
func (m Model) Init() tea.Cmd {
	return loadContext(m.ctx, m.wizard)
}

// Update applies command results and input events to the wizard.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.help.Width = typed.Width
	case loadedMsg:
		m.busy = ""
		if typed.outcome.Err != nil {
			m.logger.Warnf("load user context: %v", typed.outcome.Err)
		}
		if err := m.wizard.ApplyLoad(typed.outcome); err != nil {
			m.logger.Debugf("apply load: %v", err)
		}
	case photoMsg:
		m.busy = ""
		m = m.applyPhoto(typed)
	case submittedMsg:
		m.busy = ""
		if typed.outcome.Err != nil {
			m.logger.Errorf("submit evaluation: %v", typed.outcome.Err)
		}
		if err := m.wizard.FinishSubmit(typed.outcome); err != nil {
			m.logger.Debugf("finish submit: %v", err)
		}
	case tea.MouseMsg:
		m = m.handleMouse(typed)
	case tea.KeyMsg:
		m, cmd = m.handleKey(typed)
	default:
		m, cmd = m.updateInput(msg)
	}
	return m.settle(cmd)
}

// settle records host feedback, resets per-screen state after a transition
// and quits once the host was closed.
func (m Model) settle(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if kind := m.bridge.takeHaptic(); kind != "" {
		m.flash = kind
	}
	if state := m.wizard.State(); state != m.seen {
		m.seen = state
		m.cursor = 0
		m = m.leaveInput()
	}
	if m.bridge.Closed() {
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.flash = ""
	if matches(msg, m.keys.Quit) {
		if _, open := m.bridge.Confirming(); open {
			m.bridge.resolveConfirm(true)
			return m, nil
		}
		m.wizard.Close()
		return m, nil
	}
	if _, open := m.bridge.Confirming(); open {
		switch msg.String() {
		case "y", "Y", "enter":
			m.bridge.resolveConfirm(true)
		case "n", "N", "esc":
			m.bridge.resolveConfirm(false)
		}
		return m, nil
	}
	if m.bridge.Alert() != "" {
		m.bridge.dismissAlert()
		return m, nil
	}
	if m.busy != "" {
		return m, nil
	}

	switch m.mode {
	case inputPhotoPath:
		return m.handlePathKey(msg)
	case inputSignerName:
		return m.handleNameKey(msg)
	}

	if matches(msg, m.keys.Back) && m.bridge.pressBack() {
		return m, nil
	}
	switch m.wizard.Step() {
	case wizard.StepLocationSelect:
		return m.handleLocationKey(msg), nil
	case wizard.StepQuestions:
		return m.handleQuestionKey(msg)
	case wizard.StepSignature:
		return m.handleSignatureKey(msg)
	case wizard.StepLoading, wizard.StepError, wizard.StepComplete:
		if matches(msg, m.keys.Close, m.keys.Select, m.keys.Back) {
			m.wizard.Close()
		}
	}
	return m, nil
}

func (m Model) handleLocationKey(msg tea.KeyMsg) Model {
	locations := m.wizard.User().Locations
	switch {
	case matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, len(locations)-1)
	case matches(msg, m.keys.Select):
		if m.cursor < len(locations) {
			_ = m.wizard.SelectLocation(locations[m.cursor].ID)
		}
	case matches(msg, m.keys.Close):
		m.wizard.Close()
	}
	return m
}

func (m Model) handleQuestionKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	area, ok := m.wizard.Area()
	if !ok || len(area.Questions) == 0 {
		return m, nil
	}
	m.cursor = min(m.cursor, len(area.Questions)-1)
	question := area.Questions[m.cursor]
	switch {
	case matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)
	case matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, len(area.Questions)-1)
	case matches(msg, m.keys.Yes):
		m.answer(question.ID, evaluation.Yes)
	case matches(msg, m.keys.No):
		m.answer(question.ID, evaluation.No)
	case matches(msg, m.keys.NA):
		m.answer(question.ID, evaluation.NA)
	case matches(msg, m.keys.Photo):
		m.mode = inputPhotoPath
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()
	case matches(msg, m.keys.RemovePhoto):
		_ = m.wizard.RemovePhoto(question.ID)
	case matches(msg, m.keys.Next):
		var gate *wizard.GateError
		if err := m.wizard.Next(); err != nil && !errors.As(err, &gate) {
			m.logger.Debugf("next: %v", err)
		}
	case matches(msg, m.keys.Close):
		m.wizard.Close()
	}
	return m, nil
}

func (m Model) answer(questionID string, value evaluation.Value) {
	err := m.wizard.Answer(questionID, value)
	if errors.Is(err, wizard.ErrInvalidValue) {
		m.bridge.ShowAlert("This question cannot be marked not applicable.")
		m.bridge.Haptic(host.HapticWarning)
	}
}

func (m Model) handlePathKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.leaveInput(), nil
	case tea.KeyEnter:
		area, ok := m.wizard.Area()
		path := m.pathInput.Value()
		m = m.leaveInput()
		if !ok || m.cursor >= len(area.Questions) {
			return m, nil
		}
		m.busy = "Taking photo…"
		questionID := area.Questions[m.cursor].ID
		return m, takePhoto(m.ctx, questionID, m.camera(path), m.locator, m.photo)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) applyPhoto(msg photoMsg) Model {
	if msg.err != nil {
		m.logger.Warnf("photo for %s: %v", msg.questionID, msg.err)
		m.bridge.ShowAlert("Could not take the photo: " + msg.err.Error())
		m.bridge.Haptic(host.HapticError)
		return m
	}
	if err := m.wizard.AttachPhoto(msg.photo); err != nil {
		m.logger.Debugf("attach photo for %s: %v", msg.questionID, err)
	}
	return m
}

func (m Model) handleSignatureKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case matches(msg, m.keys.Clear):
		m.pad.Clear()
	case matches(msg, m.keys.Name):
		m.mode = inputSignerName
		return m, m.nameInput.Focus()
	case matches(msg, m.keys.Submit, m.keys.Select):
		return m.submit()
	case matches(msg, m.keys.Close):
		m.wizard.Close()
	}
	return m, nil
}

func (m Model) handleNameKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case matches(msg, m.keys.Submit):
		m = m.leaveInput()
		return m.submit()
	case msg.Type == tea.KeyEsc, msg.Type == tea.KeyTab, msg.Type == tea.KeyEnter:
		return m.leaveInput(), nil
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	_ = m.wizard.SetSignerName(m.nameInput.Value())
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	sub, err := m.wizard.BeginSubmit()
	if err != nil {
		m.logger.Debugf("begin submit: %v", err)
		return m, nil
	}
	m.busy = "Sending evaluation…"
	return m, sendSubmission(m.ctx, sub)
}

// handleMouse feeds left-button events to the signature pad.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.wizard.Step() != wizard.StepSignature || m.busy != "" {
		return m
	}
	pt := image.Pt(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pad.Press(pt)
		}
	case tea.MouseActionMotion:
		m.pad.Drag(pt)
	case tea.MouseActionRelease:
		m.pad.Release()
	}
	return m
}

// updateInput forwards non-key messages such as cursor blinks to the focused
// text input.
func (m Model) updateInput(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case inputPhotoPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case inputSignerName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m Model) leaveInput() Model {
	m.mode = inputNone
	m.pathInput.Blur()
	m.nameInput.Blur()
	return m
}

// Wizard returns the hosted wizard.
func (m Model) Wizard() *wizard.Wizard {
	return m.wizard
}
