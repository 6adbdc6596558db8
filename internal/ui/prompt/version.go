package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
	"github.com/raphi011/relcut/internal/ui/styles"
	"github.com/raphi011/relcut/internal/version"
)

// ErrCancelled is returned when the operator aborts the prompt
// (ctrl+c, esc, or end of input).
var ErrCancelled = errors.New("cancelled")

type versionModel struct {
	input      textinput.Model
	project    string
	suggestion string
	err        error
	done       bool
	cancelled  bool
}

func newVersionModel(project, suggestion string) versionModel {
	ti := textinput.New()
	ti.Placeholder = suggestion
	ti.Focus()
	ti.CharLimit = 64
	ti.SetWidth(30)

	return versionModel{
		input:      ti,
		project:    project,
		suggestion: suggestion,
	}
}

func (m versionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m versionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if answer := strings.TrimSpace(m.input.Value()); answer != "" {
				if err := version.ValidateOverride(answer); err != nil {
					m.err = err
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	m.err = nil
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m versionModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m versionModel) render() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styles.PrimaryStyle.Render("Release version for"), styles.AccentStyle.Render(m.project))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styles.ErrorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(styles.MutedStyle.Render("enter accepts " + m.suggestion + ", esc cancels"))
	}
	b.WriteString("\n")
	return b.String()
}

// answer returns the submitted version, or "" to accept the suggestion.
func (m versionModel) answer() string {
	return strings.TrimSpace(m.input.Value())
}

// Terminal prompts on a terminal when in is one and reads lines otherwise.
type Terminal struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	lines       *bufio.Reader
}

// NewTerminal creates a prompter reading answers from in and writing
// questions to out (usually os.Stdin and os.Stderr).
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: in, out: out, lines: bufio.NewReader(in)}
	if f, ok := in.(*os.File); ok {
		t.interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return t
}

// Interactive reports whether the bubbletea prompt is used.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

// Version asks for the release version of project.
// An empty answer accepts suggestion and is returned as "".
func (t *Terminal) Version(ctx context.Context, project, suggestion string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.interactive {
		return t.runModel(project, suggestion)
	}
	return t.readLine(project, suggestion)
}

func (t *Terminal) runModel(project, suggestion string) (string, error) {
	var opts []tea.ProgramOption
	opts = append(opts, tea.WithInput(t.in), tea.WithOutput(t.out))
	if f, ok := t.out.(*os.File); ok {
		opts = append(opts, tea.WithColorProfile(colorprofile.Detect(f, os.Environ())))
	}

	finalModel, err := tea.NewProgram(newVersionModel(project, suggestion), opts...).Run()
	if err != nil {
		return "", err
	}
	m := finalModel.(versionModel)
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.answer(), nil
}

func (t *Terminal) readLine(project, suggestion string) (string, error) {
	fmt.Fprintf(t.out, "Release version for %s [%s]: ", project, suggestion)
	line, err := t.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(t.out)
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: no answer for %s", ErrCancelled, project)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
