package uno

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/fadedpez/uno/internal/types"
	"github.com/fadedpez/uno/pkg/entities"
)

// Command operations
const (
	OpCreate      = "create"
	OpJoin        = "join"
	OpAddComputer = "add_computer"
	OpStart       = "start"
	OpPlay        = "play"
	OpDraw        = "draw"
	OpGet         = "get"
)

// Command is one request to the dispatcher
type Command struct {
	Op         string              `json:"op"`
	SessionID  string              `json:"session_id,omitempty"`
	PlayerID   string              `json:"player_id,omitempty"`
	Name       string              `json:"name,omitempty"`
	Difficulty entities.Difficulty `json:"difficulty,omitempty"`
	CardID     string              `json:"card_id,omitempty"`
	Color      entities.Color      `json:"color,omitempty"`
}

// Response answers a Command
type Response struct {
	OK       bool              `json:"ok"`
	Error    string            `json:"error,omitempty"`
	Code     types.ErrorCode   `json:"code,omitempty"`
	PlayerID string            `json:"player_id,omitempty"`
	Session  *entities.Session `json:"session,omitempty"`
}

// Dispatcher routes commands to a Manager
type Dispatcher struct {
	manager *Manager
}

func NewDispatcher(manager *Manager) *Dispatcher {
	if manager == nil {
		panic("manager cannot be nil")
	}
	return &Dispatcher{manager: manager}
}

// Dispatch runs one command
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) Response {
	var (
		session *entities.Session
		player  *entities.Player
		err     error
	)

	switch cmd.Op {
	case OpCreate:
		session, err = d.manager.Create(ctx)
	case OpJoin:
		session, player, err = d.manager.Join(ctx, cmd.SessionID, cmd.Name)
	case OpAddComputer:
		session, player, err = d.manager.AddComputer(ctx, cmd.SessionID, cmd.Difficulty)
	case OpStart:
		session, err = d.manager.Start(ctx, cmd.SessionID)
	case OpPlay:
		session, err = d.manager.Play(ctx, cmd.SessionID, cmd.PlayerID, cmd.CardID, cmd.Color)
	case OpDraw:
		session, err = d.manager.Draw(ctx, cmd.SessionID, cmd.PlayerID)
	case OpGet:
		session, err = d.manager.Get(ctx, cmd.SessionID)
	default:
		err = types.Errorf(types.ErrInvalidCommand, "unknown op %q", cmd.Op)
	}

	resp := Response{OK: err == nil, Session: session}
	if player != nil {
		resp.PlayerID = player.ID
	}
	if err != nil {
		resp.Error = err.Error()
		resp.Code = types.CodeOf(err)
	}
	return resp
}

// HandleJSON decodes a command, runs it and encodes the response
func (d *Dispatcher) HandleJSON(ctx context.Context, data []byte) []byte {
	var cmd Command
	var resp Response
	if err := json.Unmarshal(data, &cmd); err != nil {
		resp = Response{
			Error: types.WrapError(types.ErrInvalidCommand, "malformed command", err).Error(),
			Code:  types.ErrInvalidCommand,
		}
	} else {
		resp = d.Dispatch(ctx, cmd)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(Response{Error: err.Error(), Code: types.ErrInternalError})
	}
	return out
}

// Serve reads one JSON command per line from r and writes one response per
// line to w until r is exhausted or ctx is cancelled.
func (d *Dispatcher) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		out := append(d.HandleJSON(ctx, line), '\n')
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return scanner.Err()
}
