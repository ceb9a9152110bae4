package display

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Shell styles ─────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// UI runs the interactive shell through Bubble Tea: a status bar naming the
// composite under edit and an input prompt at the bottom of the terminal.
// Output is printed above them via Program.Println, so writes from the
// command loop never garble the prompt.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may call
// [UI.Println], [UI.Printf], [UI.SetStatus] and read [UI.InputChan]
// once [UI.Ready] is closed.
type UI struct {
	prompt  string
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	status  *atomic.Pointer[string]
	done    atomic.Bool
}

// NewUI creates the shell display. prompt is shown before the cursor.
func NewUI(prompt string) *UI {
	return &UI{
		prompt:  prompt,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
		status:  new(atomic.Pointer[string]),
	}
}

// Println prints a line above the prompt. Thread-safe.
// Falls back to fmt.Println before the program starts or after it stops.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// SetStatus replaces the status bar text. An empty string hides the bar.
func (u *UI) SetStatus(text string) {
	u.status.Store(&text)
	if u.program != nil && !u.done.Load() {
		u.program.Send(statusMsg{})
	}
}

// InputChan returns completed input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// Ready is closed once the event loop is running.
func (u *UI) Ready() <-chan struct{} { return u.readyCh }

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	u.program = tea.NewProgram(u.newModel())
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

func (u *UI) newModel() model {
	ti := textinput.New()
	// Plain-text prompt: styled prompts add ANSI bytes that break the
	// textinput width math for long input.
	ti.Prompt = u.prompt + "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	prompt := u.prompt
	return model{
		input:   ti,
		status:  u.status,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
		echoFn: func(v string) {
			u.Println(promptStyle.Render(prompt) + hintStyle.Render("> ") + userInputEchoStyle.Render(v))
		},
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	input   textinput.Model
	status  *atomic.Pointer[string]
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string)
	width   int
}

// statusMsg forces a redraw after SetStatus.
type statusMsg struct{}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, signalReady(m.readyCh))
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) == "" {
				return m, nil
			}
			m.inputCh <- v
			// Echo outside Update so Println does not block the loop.
			echoFn := m.echoFn
			return m, func() tea.Msg {
				echoFn(v)
				return nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if promptLen := len(m.input.Prompt); msg.Width > promptLen {
			m.input.Width = msg.Width - promptLen
		}
		return m, nil

	case statusMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) statusText() string {
	if p := m.status.Load(); p != nil {
		return *p
	}
	return ""
}

func (m model) View() string {
	var b strings.Builder

	if s := m.statusText(); s != "" {
		w := m.width
		if w <= 0 {
			w = 80
		}
		b.WriteString(barBg.Width(w).Render(" " + s + " "))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}
