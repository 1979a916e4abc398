package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jesmun04/logbait/internal/fileutil"
	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/server"
)

// run connects, performs one request and prints the resulting state.
func run(cli *CLI, messageType server.MessageType, data any) error {
	ctx := context.Background()
	c, err := connect(ctx, cli)
	if err != nil {
		return err
	}
	defer c.Close()

	msg, err := c.request(messageType, data)
	if err != nil {
		return err
	}
	if msg.Type == server.MessageTypeState {
		return c.printState(msg)
	}
	fmt.Println(msg.Type)
	return nil
}

type TablesCmd struct{}

func (cmd *TablesCmd) Run(cli *CLI) error {
	c, err := connect(context.Background(), cli)
	if err != nil {
		return err
	}
	defer c.Close()

	msg, err := c.request(server.MessageTypeListTables, nil)
	if err != nil {
		return err
	}
	var list server.TableListData
	if err := msg.Decode(&list); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATOR\tSEATS\tBLINDS\tMIN BET")
	for _, t := range list.Tables {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%.2f/%.2f\t%.2f\n",
			t.ID, t.Name, t.CreatorID, len(t.SeatOrder), t.Capacity, t.SmallBlind, t.BigBlind, t.MinimumBet)
	}
	return w.Flush()
}

type JoinCmd struct {
	Table string `arg:"" help:"Table id"`
}

func (cmd *JoinCmd) Run(cli *CLI) error {
	return run(cli, server.MessageTypeJoinTable, server.TableData{TableID: cmd.Table})
}

type LeaveCmd struct {
	Table string `arg:"" help:"Table id"`
}

func (cmd *LeaveCmd) Run(cli *CLI) error {
	return run(cli, server.MessageTypeLeaveTable, server.TableData{TableID: cmd.Table})
}

type StackCmd struct {
	Table  string  `arg:"" help:"Table id"`
	Amount float64 `arg:"" help:"New table stack"`
}

func (cmd *StackCmd) Run(cli *CLI) error {
	return run(cli, server.MessageTypeAdjustStack, server.AdjustStackData{TableID: cmd.Table, Stack: cmd.Amount})
}

type StartCmd struct {
	Table string `arg:"" help:"Table id"`
}

func (cmd *StartCmd) Run(cli *CLI) error {
	return run(cli, server.MessageTypeStartHand, server.TableData{TableID: cmd.Table})
}

type ActCmd struct {
	Table  string  `arg:"" help:"Table id"`
	Action string  `arg:"" enum:"fold,check,call,raise" help:"fold, check, call or raise"`
	Amount float64 `arg:"" optional:"" help:"Raise increment above the call amount"`
}

func (cmd *ActCmd) Run(cli *CLI) error {
	if game.ActionKind(cmd.Action) == game.Raise && cmd.Amount <= 0 {
		return errors.New("raise needs a positive amount")
	}
	return run(cli, server.MessageTypeAct, server.ActData{TableID: cmd.Table, Action: cmd.Action, Amount: cmd.Amount})
}

type StateCmd struct {
	Table string `arg:"" help:"Table id"`
	Save  string `type:"path" help:"Also write the view as JSON to this file"`
}

func (cmd *StateCmd) Run(cli *CLI) error {
	if cmd.Save == "" {
		return run(cli, server.MessageTypeGetState, server.TableData{TableID: cmd.Table})
	}

	c, err := connect(context.Background(), cli)
	if err != nil {
		return err
	}
	defer c.Close()

	msg, err := c.request(server.MessageTypeGetState, server.TableData{TableID: cmd.Table})
	if err != nil {
		return err
	}
	var state server.StateData
	if err := msg.Decode(&state); err != nil {
		return err
	}
	if err := fileutil.WriteJSONAtomic(cmd.Save, state.View); err != nil {
		return err
	}
	return c.printState(msg)
}

// WatchCmd follows a table. Members see their own cards and can act on
// their turn; others spectate.
type WatchCmd struct {
	Table string `arg:"" help:"Table id"`
}

func (cmd *WatchCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	c, err := connect(ctx, cli)
	if err != nil {
		return err
	}
	defer c.Close()

	var act func(game.ActionKind) error
	msg, err := c.request(server.MessageTypeGetState, server.TableData{TableID: cmd.Table})
	var serr *ServerError
	if errors.As(err, &serr) && serr.Code == server.CodeNotInTable {
		msg, err = c.request(server.MessageTypeWatchTable, server.TableData{TableID: cmd.Table})
	} else {
		act = func(kind game.ActionKind) error {
			_, err := c.send(server.MessageTypeAct, server.ActData{TableID: cmd.Table, Action: string(kind)})
			return err
		}
	}
	if err != nil {
		return err
	}
	var state server.StateData
	if err := msg.Decode(&state); err != nil {
		return err
	}

	p := tea.NewProgram(newWatchModel(c.renderer, state, act), tea.WithAltScreen(), tea.WithContext(ctx))
	go pump(c, p)

	final, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if m, ok := final.(*watchModel); ok {
		return m.err
	}
	return nil
}
