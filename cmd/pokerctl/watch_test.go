package main

import (
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/render"
	"github.com/jesmun04/logbait/internal/server"
)

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func turnState(version int64, legal ...game.ActionKind) server.StateData {
	return server.StateData{
		Event: game.EventPlayerActed,
		View: game.View{
			TableID: "main",
			Version: version,
			Viewer:  "alice",
			Hand: &game.HandView{
				Number:        1,
				Phase:         game.Preflop,
				TurnAccountID: "alice",
				LegalActions:  legal,
			},
		},
	}
}

func TestWatchModelTracksLatestState(t *testing.T) {
	m := newWatchModel(render.New(io.Discard, false), turnState(1), nil)

	_, cmd := m.Update(stateMsg(turnState(4)))
	assert.Nil(t, cmd)
	assert.Equal(t, int64(4), m.view.Version)
	assert.Equal(t, game.EventPlayerActed, m.event)
	assert.Contains(t, m.View(), "main")
}

func TestWatchModelActsOnLegalKeys(t *testing.T) {
	var sent []game.ActionKind
	act := func(kind game.ActionKind) error {
		sent = append(sent, kind)
		return nil
	}
	m := newWatchModel(render.New(io.Discard, false), turnState(1, game.Fold, game.Call), act)

	_, cmd := m.Update(keyPress('k'))
	assert.Nil(t, cmd, "check is not legal")

	_, cmd = m.Update(keyPress('c'))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, []game.ActionKind{game.Call}, sent)

	_, cmd = m.Update(keyPress('f'))
	assert.Nil(t, cmd, "actions stay disabled until the next state")

	m.Update(stateMsg(turnState(2, game.Fold, game.Check)))
	_, cmd = m.Update(keyPress('k'))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []game.ActionKind{game.Call, game.Check}, sent)
}

func TestWatchModelSpectatorCannotAct(t *testing.T) {
	m := newWatchModel(render.New(io.Discard, false), turnState(1, game.Fold, game.Call), nil)

	_, cmd := m.Update(keyPress('c'))
	assert.Nil(t, cmd)
}

func TestWatchModelReportsSendFailure(t *testing.T) {
	act := func(game.ActionKind) error { return errors.New("broken pipe") }
	m := newWatchModel(render.New(io.Discard, false), turnState(1, game.Call), act)

	_, cmd := m.Update(keyPress('c'))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, serverErrorMsg{}, msg)

	m.Update(msg)
	assert.Contains(t, m.View(), "broken pipe")
}

func TestWatchModelQuits(t *testing.T) {
	m := newWatchModel(render.New(io.Discard, false), turnState(1), nil)

	_, cmd := m.Update(keyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWatchModelQuitsWhenConnectionDrops(t *testing.T) {
	m := newWatchModel(render.New(io.Discard, false), turnState(1), nil)

	_, cmd := m.Update(closedMsg{err: io.ErrUnexpectedEOF})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.ErrorIs(t, m.err, io.ErrUnexpectedEOF)
}
