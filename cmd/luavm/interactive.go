package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luacore/vm/library"
	"github.com/luacore/vm/value"
	vmpkg "github.com/luacore/vm/vm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	m        *vmpkg.Machine
	filename string
	funcs    []string
	inputs   []textinput.Model
	result   string
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel(filename string) *interactiveModel {
	return &interactiveModel{filename: filename, state: stateSelectFunc}
}

type loadedMsg struct {
	err   error
	m     *vmpkg.Machine
	funcs []string
}

type callResultMsg struct {
	err    error
	result string
}

func (model *interactiveModel) Init() tea.Cmd {
	return model.loadChunk
}

func (model *interactiveModel) loadChunk() tea.Msg {
	data, err := os.ReadFile(model.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	m := vmpkg.New()
	if _, err := m.LoadChunk(data); err != nil {
		return loadedMsg{err: err}
	}

	var funcs []string
	k, v, valid := m.Globals.Next(m.Interp.Heap, value.Nil)
	for valid && !k.IsNil() {
		if _, ok := m.Interp.LookupFunction(v); ok {
			if s, ok := m.Interp.LookupString(k); ok {
				funcs = append(funcs, string(s.Data))
			}
		}
		k, v, valid = m.Globals.Next(m.Interp.Heap, k)
	}
	sort.Strings(funcs)

	return loadedMsg{m: m, funcs: funcs}
}

func (model *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return model, tea.Quit

		case "up", "k":
			if model.state == stateSelectFunc && model.selected > 0 {
				model.selected--
			}

		case "down", "j":
			if model.state == stateSelectFunc && model.selected < len(model.funcs)-1 {
				model.selected++
			}

		case "enter":
			switch model.state {
			case stateSelectFunc:
				if len(model.funcs) == 0 {
					break
				}
				model.prepareInputs()
				model.state = stateInputArgs
			case stateInputArgs:
				return model, model.callFunction
			case stateShowResult:
				model.state = stateSelectFunc
				model.result = ""
				model.err = nil
			}

		case "tab":
			if model.state == stateInputArgs && len(model.inputs) > 1 {
				model.inputs[model.focusIdx].Blur()
				model.focusIdx = (model.focusIdx + 1) % len(model.inputs)
				model.inputs[model.focusIdx].Focus()
			}

		case "esc":
			switch model.state {
			case stateInputArgs:
				model.state = stateSelectFunc
				model.inputs = nil
			case stateShowResult:
				model.state = stateSelectFunc
				model.result = ""
				model.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			model.err = msg.err
			return model, nil
		}
		model.m = msg.m
		model.funcs = msg.funcs

	case callResultMsg:
		model.result = msg.result
		model.err = msg.err
		model.state = stateShowResult
	}

	if model.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range model.inputs {
			var cmd tea.Cmd
			model.inputs[i], cmd = model.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return model, tea.Batch(cmds...)
	}

	return model, nil
}

// prepareInputs offers a single freeform arg line (comma-separated),
// since globals carry no parameter names to prompt per-argument with.
func (model *interactiveModel) prepareInputs() {
	ti := textinput.New()
	ti.Placeholder = "comma-separated arguments"
	ti.Prompt = "args: "
	ti.Width = 50
	ti.Focus()
	model.inputs = []textinput.Model{ti}
	model.focusIdx = 0
}

func (model *interactiveModel) callFunction() tea.Msg {
	name := model.funcs[model.selected]
	var rawArgs []string
	if len(model.inputs) > 0 && model.inputs[0].Value() != "" {
		rawArgs = strings.Split(model.inputs[0].Value(), ",")
	}

	args := make([]value.Value, len(rawArgs))
	for i, a := range rawArgs {
		a = strings.TrimSpace(a)
		if n, err := strconv.ParseFloat(a, 64); err == nil {
			args[i] = value.FromDouble(n)
		} else {
			args[i] = model.m.Interp.StringValue(a)
		}
	}

	results, err := model.m.CallGlobal(name, args)
	if err != nil {
		return callResultMsg{err: err}
	}

	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = library.DisplayString(model.m.Interp, r)
	}
	return callResultMsg{result: strings.Join(parts, "\t")}
}

func (model *interactiveModel) View() string {
	if model.err != nil && model.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", model.err))
	}

	if model.m == nil {
		return "Loading chunk..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Lua Debugger"))
	b.WriteString(" ")
	b.WriteString(model.filename)
	b.WriteString("\n\n")

	switch model.state {
	case stateSelectFunc:
		if len(model.funcs) == 0 {
			b.WriteString("No global functions found.\n")
			break
		}
		b.WriteString("Select a global function to call:\n\n")
		for i, name := range model.funcs {
			cursor := "  "
			if i == model.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + funcStyle.Render(name)))
			} else {
				b.WriteString(cursor + funcStyle.Render(name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("up/down select - enter call - q quit"))

	case stateInputArgs:
		name := model.funcs[model.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(name)))
		for _, input := range model.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter call - esc back"))

	case stateShowResult:
		name := model.funcs[model.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(name)))
		if model.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", model.err)))
		} else {
			b.WriteString(resultStyle.Render(model.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue - q quit"))
	}

	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
