package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
//
// Each state is written as {"type":"state","state":{...}} and each system
// message as {"type":"system","message":"..."}. Commands are read one per
// line, either as raw text, a JSON string, a JSON number (a choice id) or an
// object {"choose": id} / {"continue": true} / {"reset": true} / {"quit": true}.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

type envelope struct {
	Type    string               `json:"type"`
	State   *domain.SessionState `json:"state,omitempty"`
	Message string               `json:"message,omitempty"`
}

type jsonCommand struct {
	Choose   *int `json:"choose"`
	Continue bool `json:"continue"`
	Reset    bool `json:"reset"`
	Quit     bool `json:"quit"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, state *domain.SessionState) error {
	return h.Encoder.Encode(envelope{Type: "state", State: state})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(envelope{Type: "system", Message: msg})
}

// Input reads one line and normalizes it to the text command grammar.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
		return "", err
	}
	line = strings.TrimSpace(line)

	var s string
	if err := json.Unmarshal([]byte(line), &s); err == nil {
		return SanitizeInput(s)
	}

	var cmd jsonCommand
	if strings.HasPrefix(line, "{") {
		if err := json.Unmarshal([]byte(line), &cmd); err == nil {
			switch {
			case cmd.Choose != nil:
				return strconv.Itoa(*cmd.Choose), nil
			case cmd.Reset:
				return "reset", nil
			case cmd.Quit:
				return "quit", nil
			default:
				return "", nil
			}
		}
	}

	return SanitizeInput(line)
}
