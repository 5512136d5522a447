// Package tui is the interactive terminal front end for the upload machine.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/render"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
	"github.com/idlab-discover/InfraClassify-cli/internal/upload"
	"github.com/idlab-discover/InfraClassify-cli/internal/validator"
)

// Config configures the interactive program.
type Config struct {
	Client      upload.Classifier
	InitialPath string

	// Notes is the notification slot shared with the client so retry
	// warnings show up in the program. A new one is created when nil.
	Notes          *notify.Service
	NotifyDuration time.Duration

	// Load reads a file from disk. Defaults to imagefile.Load.
	Load func(path string) (*imagefile.CandidateFile, error)
	// Runner overrides how submissions run. Defaults to a goroutine.
	Runner upload.Runner
}

// refreshMsg asks the program to redraw after a change made off the UI goroutine.
type refreshMsg struct{}

// appModel is the Bubble Tea model. It never mutates upload state itself;
// every user action is emitted on the bus.
type appModel struct {
	ctx      context.Context
	machine  *upload.Machine
	bus      *upload.Bus
	teardown func()
	notes    *notify.Service
	load     func(string) (*imagefile.CandidateFile, error)

	input    textinput.Model
	spinner  spinner.Model
	send     func(tea.Msg)
	width    int
	quitting bool
}

func newAppModel(ctx context.Context, cfg Config) (*appModel, error) {
	m := &appModel{ctx: ctx, bus: upload.NewBus(), width: 80}

	m.notes = cfg.Notes
	if m.notes == nil {
		m.notes = notify.NewService(notify.WithDuration(cfg.NotifyDuration))
	}
	m.notes.SetOnChange(func(notify.Notification, bool) { m.poke() })

	machine, err := upload.New(upload.Deps{
		Client:   cfg.Client,
		Notifier: m.notes,
		Runner:   cfg.Runner,
		OnChange: func(upload.Snapshot) { m.poke() },
	})
	if err != nil {
		m.notes.Stop()
		return nil, err
	}
	m.machine = machine
	m.teardown = machine.Attach(m.bus)

	m.load = cfg.Load
	if m.load == nil {
		m.load = imagefile.Load
	}

	ti := textinput.New()
	ti.Placeholder = "Path to a JPEG, PNG or WebP image..."
	ti.CharLimit = 4096
	ti.SetWidth(60)
	ti.Focus()
	m.input = ti

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.ColorSecondary)
	m.spinner = s

	if cfg.InitialPath != "" {
		m.selectPath(cfg.InitialPath)
	}
	return m, nil
}

// poke requests a redraw. Send blocks until the event loop reads the
// message, and changes are also made from inside Update, so it never runs
// on the caller's goroutine.
func (m *appModel) poke() {
	if send := m.send; send != nil {
		go send(refreshMsg{})
	}
}

func (m *appModel) close() {
	if m.teardown != nil {
		m.teardown()
	}
	m.notes.Stop()
}

// selectPath loads path and emits the selection. A load failure is emitted
// as an unreadable selection.
func (m *appModel) selectPath(path string) {
	path = strings.TrimSpace(path)
	file, err := m.load(path)
	if err != nil {
		logf(path, "load failed: %v", err)
		file = nil
	}
	m.bus.Emit(m.ctx, upload.FileSelected, upload.Payload{File: file})
	if m.machine.State() != upload.Idle {
		m.input.Blur()
		m.input.SetValue("")
	}
}

// Init initializes the model
func (m *appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages
func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(max(msg.Width-20, 20))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshMsg:
		if m.machine.State() == upload.Idle && !m.input.Focused() {
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.input.Focused() {
		switch key {
		case "esc":
			if m.machine.State() == upload.Idle {
				m.quitting = true
				return m, tea.Quit
			}
			m.input.Blur()
			m.input.SetValue("")
			return m, nil
		case "enter":
			if strings.TrimSpace(m.input.Value()) != "" {
				m.selectPath(m.input.Value())
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	controls := m.machine.Controls()
	switch key {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "o", "/":
		if controls.Select {
			m.input.Focus()
			return m, textinput.Blink
		}
	case "c", "enter":
		if controls.Classify {
			m.bus.Emit(m.ctx, upload.ClassifyRequested, upload.Payload{})
		}
	case "r", "x", "backspace", "delete":
		// Always emitted; while submitting the machine answers with a notice.
		m.bus.Emit(m.ctx, upload.RemoveRequested, upload.Payload{})
		if m.machine.State() == upload.Idle {
			m.input.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

// View renders the model
func (m *appModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m *appModel) render() string {
	if m.quitting {
		return ""
	}

	snap := m.machine.Snapshot()
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 0)
	b.WriteString(titleStyle.Render("InfraClassify"))
	b.WriteString("\n")
	b.WriteString(ui.Subtitle.Render("Infrastructure image quality classifier"))
	b.WriteString("\n\n")

	if n, ok := m.notes.Current(); ok {
		b.WriteString(ui.FormatStatus(string(n.Severity), n.Message))
		b.WriteString("\n\n")
	}

	switch snap.State {
	case upload.Idle:
	case upload.Previewing:
		b.WriteString(m.previewView(snap.File))
	case upload.Submitting:
		b.WriteString(fmt.Sprintf("%s Classifying %s...", m.spinner.View(), ui.Highlight.Render(snap.File.Name)))
	case upload.Result:
		if snap.Display != nil {
			b.WriteString(render.Panel(*snap.Display))
		}
	case upload.Failed:
		b.WriteString(ui.ErrorBox.Render(ui.GetCrossMark() + " " + client.UserMessage(snap.Err)))
	}
	if snap.State != upload.Idle {
		b.WriteString("\n\n")
	}

	if snap.State == upload.Idle || m.input.Focused() {
		b.WriteString(ui.Dim.Render("Image: "))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.helpView(snap))
	return b.String()
}

func (m *appModel) previewView(f *imagefile.CandidateFile) string {
	if f == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(ui.FormatKeyValue("File", ui.Highlight.Render(f.Name)))
	b.WriteString("\n")
	b.WriteString(ui.FormatKeyValue("Type", validator.FormatSummary(f)))
	b.WriteString("\n")
	b.WriteString(ui.Success.Render("Ready to classify"))
	return ui.HighlightBox.Render(b.String())
}

func (m *appModel) helpView(snap upload.Snapshot) string {
	helpStyle := lipgloss.NewStyle().Foreground(ui.ColorTextDim)
	if m.input.Focused() {
		if snap.State == upload.Idle {
			return helpStyle.Render("enter: select image · esc: quit")
		}
		return helpStyle.Render("enter: select image · esc: back")
	}

	var keys []string
	if snap.Controls.Classify {
		keys = append(keys, "c: classify")
	}
	if snap.Controls.Select {
		keys = append(keys, "o: open image")
	}
	if snap.Controls.Remove {
		keys = append(keys, "r: remove")
	}
	keys = append(keys, "q: quit")
	return helpStyle.Render(strings.Join(keys, " · "))
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	m, err := newAppModel(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	m.send = p.Send
	_, err = p.Run()
	return err
}
