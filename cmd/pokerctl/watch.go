package main

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/render"
	"github.com/jesmun04/logbait/internal/server"
)

// stateMsg carries a view pushed by the server.
type stateMsg server.StateData

// serverErrorMsg carries an error reply to one of our actions.
type serverErrorMsg server.ErrorData

// closedMsg reports that the connection has gone away.
type closedMsg struct{ err error }

type watchKeys struct {
	Fold  key.Binding
	Check key.Binding
	Call  key.Binding
	Quit  key.Binding
}

func newWatchKeys() watchKeys {
	return watchKeys{
		Fold: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fold"),
		),
		Check: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "check"),
		),
		Call: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "call"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k watchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Fold, k.Check, k.Call, k.Quit}
}

func (k watchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// watchModel shows the latest view of one table. When act is set the
// viewer can fold, check or call on their turn.
type watchModel struct {
	renderer *render.Renderer
	keys     watchKeys
	help     help.Model
	act      func(game.ActionKind) error

	event  game.EventType
	view   game.View
	status string
	err    error
}

func newWatchModel(renderer *render.Renderer, initial server.StateData, act func(game.ActionKind) error) *watchModel {
	m := &watchModel{
		renderer: renderer,
		keys:     newWatchKeys(),
		help:     help.New(),
		act:      act,
	}
	m.setState(initial)
	return m
}

func (m *watchModel) setState(state server.StateData) {
	m.event = state.Event
	m.view = state.View

	var legal []game.ActionKind
	if m.act != nil && state.View.Hand != nil {
		legal = state.View.Hand.LegalActions
	}
	m.keys.Fold.SetEnabled(slices.Contains(legal, game.Fold))
	m.keys.Check.SetEnabled(slices.Contains(legal, game.Check))
	m.keys.Call.SetEnabled(slices.Contains(legal, game.Call))
}

func (m *watchModel) Init() tea.Cmd {
	return nil
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.setState(server.StateData(msg))
		m.status = ""

	case serverErrorMsg:
		m.status = m.renderer.Error(msg.Code, msg.Message)

	case closedMsg:
		if !websocket.IsCloseError(msg.err, websocket.CloseNormalClosure) {
			m.err = msg.err
		}
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Fold):
			return m, m.send(game.Fold)
		case key.Matches(msg, m.keys.Check):
			return m, m.send(game.Check)
		case key.Matches(msg, m.keys.Call):
			return m, m.send(game.Call)
		}
	}
	return m, nil
}

// send disables further actions until the next state arrives.
func (m *watchModel) send(kind game.ActionKind) tea.Cmd {
	m.keys.Fold.SetEnabled(false)
	m.keys.Check.SetEnabled(false)
	m.keys.Call.SetEnabled(false)
	m.status = "sent " + string(kind)
	act := m.act
	return func() tea.Msg {
		if err := act(kind); err != nil {
			return serverErrorMsg{Code: "send", Message: err.Error()}
		}
		return nil
	}
}

func (m *watchModel) View() string {
	var b strings.Builder
	if m.event != "" {
		b.WriteString("[" + string(m.event) + "]\n")
	}
	b.WriteString(m.renderer.View(m.view))
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// pump forwards server messages to the program until the connection fails.
func pump(c *client, p *tea.Program) {
	for {
		msg, err := c.read()
		if err != nil {
			p.Send(closedMsg{err: err})
			return
		}
		switch msg.Type {
		case server.MessageTypeState:
			var state server.StateData
			if err := msg.Decode(&state); err == nil {
				p.Send(stateMsg(state))
			}
		case server.MessageTypeError:
			var e server.ErrorData
			if err := msg.Decode(&e); err == nil {
				p.Send(serverErrorMsg(e))
			}
		case server.MessageTypeTableLeft:
			p.Send(closedMsg{})
			return
		}
	}
}
