package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	scale "github.com/wippyai/scale-codec"
	"github.com/wippyai/scale-codec/dynamic"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

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

type opMode int

const (
	modeEncode opMode = iota
	modeDecode
)

type modelState int

const (
	stateSelectType modelState = iota
	stateInput
	stateShowResult
)

type interactiveModel struct {
	err      error
	reg      *registry.Registry
	result   string
	defs     []schema.TypeDef
	input    textinput.Model
	selected int
	mode     opMode
	state    modelState
}

func newInteractiveModel(reg *registry.Registry) *interactiveModel {
	return &interactiveModel{
		reg:   reg,
		defs:  reg.Defs(),
		state: stateSelectType,
	}
}

type opResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.defs)-1 {
				m.selected++
			}

		case "e":
			if m.state == stateSelectType {
				m.prepareInput(modeEncode)
				return m, nil
			}

		case "d":
			if m.state == stateSelectType {
				m.prepareInput(modeDecode)
				return m, nil
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				m.prepareInput(modeEncode)
				return m, nil

			case stateInput:
				return m, m.perform

			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInput:
				m.state = stateSelectType
			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}
		}

	case opResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput(mode opMode) {
	m.mode = mode
	ti := textinput.New()
	ti.Width = 60
	if mode == modeEncode {
		ti.Placeholder = `{"field": 1}`
		ti.Prompt = "value: "
	} else {
		ti.Placeholder = "0x0100"
		ti.Prompt = "bytes: "
	}
	ti.Focus()
	m.input = ti
	m.state = stateInput
}

func (m *interactiveModel) typeRef() any {
	def := m.defs[m.selected]
	if def.Name != "" {
		return def.Name
	}
	return m.selected
}

func (m *interactiveModel) perform() tea.Msg {
	ref := m.typeRef()
	raw := m.input.Value()

	if m.mode == modeEncode {
		dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return opResultMsg{err: fmt.Errorf("parse value: %w", err)}
		}
		data, err := scale.Encode(v, ref, m.reg)
		if err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{result: "0x" + hex.EncodeToString(data)}
	}

	data, err := dynamic.DecodeHex(strings.TrimSpace(raw))
	if err != nil {
		return opResultMsg{err: err}
	}
	v, err := scale.Decode(data, ref, m.reg)
	if err != nil {
		return opResultMsg{err: err}
	}
	out, err := json.Marshal(v)
	if err != nil {
		return opResultMsg{err: err}
	}
	return opResultMsg{result: string(out)}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SCALE Codec"))
	b.WriteString("\n\n")

	if len(m.defs) == 0 {
		b.WriteString("No types registered.\n\n")
		b.WriteString(helpStyle.Render("q quit"))
		return b.String()
	}

	switch m.state {
	case stateSelectType:
		b.WriteString("Select a type:\n\n")
		for i, def := range m.defs {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatDef(def, i)))
			} else {
				b.WriteString(cursor + m.formatDef(def, i))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • e encode • d decode • q quit"))

	case stateInput:
		def := m.defs[m.selected]
		verb := "Encoding as"
		if m.mode == modeDecode {
			verb = "Decoding as"
		}
		b.WriteString(fmt.Sprintf("%s %s\n\n", verb, nameStyle.Render(defLabel(def, m.selected))))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		def := m.defs[m.selected]
		b.WriteString(fmt.Sprintf("Result for %s:\n\n", nameStyle.Render(defLabel(def, m.selected))))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatDef(def schema.TypeDef, index int) string {
	return nameStyle.Render(defLabel(def, index)) + " = " + typeStyle.Render(def.Type.String())
}

func defLabel(def schema.TypeDef, index int) string {
	if def.Name == "" {
		return fmt.Sprintf("#%d", index)
	}
	if len(def.TypeParams) > 0 {
		return def.Name + "<" + strings.Join(def.TypeParams, ", ") + ">"
	}
	return def.Name
}

func runInteractive(reg *registry.Registry) error {
	p := tea.NewProgram(newInteractiveModel(reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
