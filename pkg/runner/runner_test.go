package runner_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harbour = `
qualities:
  - name: gold
    singularLabel: coin
    pluralLabel: coins
    style: {currency: true}
locations:
  - name: harbour
    label: Harbour
storylets:
  - name: arrive
    condition: [not, arrive]
    body: You step off the boat.
    navigation: harbour
  - name: fish
    label: Go fishing
    body: You cast a line.
    assignments:
      - assignments:
          - {subject: gold, operation: increment, operand: 2}
`

func begin(t *testing.T) (*arbor.Session, *memory.Store) {
	t.Helper()
	eng, err := arbor.FromLoader(context.Background(), memory.NewLoaderFromSource(harbour))
	require.NoError(t, err)
	store := memory.NewStore()
	return eng.Begin(store), store
}

func TestRunner_PlaysUntilQuit(t *testing.T) {
	session, store := begin(t)
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithIO(strings.NewReader("1\n\nquit\n1\n"), &out))

	require.NoError(t, r.Run(context.Background(), session))

	output := out.String()
	assert.Contains(t, output, "== Harbour ==")
	assert.Contains(t, output, "You step off the boat.")
	assert.Contains(t, output, "[1] Go fishing")
	assert.Contains(t, output, "You cast a line.")
	assert.Contains(t, output, "coins: 2")
	assert.Contains(t, output, "[Pick one of the choices.]")
	assert.Equal(t, 2, store.Snapshot().Qualities["gold"], "input after quit is not read")
}

func TestRunner_StopsAtEndOfInput(t *testing.T) {
	session, _ := begin(t)
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithIO(strings.NewReader("7\nsing\n"), &out))

	require.NoError(t, r.Run(context.Background(), session))
	assert.Contains(t, out.String(), "[There is no choice 7.]")
	assert.Contains(t, out.String(), `[Unknown command "sing".]`)
}

func TestRunner_Reset(t *testing.T) {
	session, store := begin(t)
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithIO(strings.NewReader("choose 1\nreset\n"), &out))

	require.NoError(t, r.Run(context.Background(), session))
	assert.Contains(t, out.String(), "[Progress reset.]")
	assert.Equal(t, 2, strings.Count(out.String(), "You step off the boat."))
	assert.Zero(t, store.Snapshot().Qualities["gold"])
}

func TestRunner_CustomRenderer(t *testing.T) {
	session, _ := begin(t)
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithIO(strings.NewReader(""), &out),
		runner.WithRenderer(func(state *domain.SessionState) (string, error) {
			return "rendered " + state.Body.String(), nil
		}),
	)

	require.NoError(t, r.Run(context.Background(), session))
	assert.Contains(t, out.String(), "rendered You step off the boat.")
}

type failingSession struct {
	runner.Session
	err error
}

func (s failingSession) Continue(context.Context) (*domain.SessionState, error) {
	return nil, s.err
}

func TestRunner_SessionErrors(t *testing.T) {
	boom := errors.New("store unreachable")
	r := runner.NewRunner(runner.WithIO(strings.NewReader(""), &bytes.Buffer{}))

	err := r.Run(context.Background(), failingSession{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRunner_JSONHandler(t *testing.T) {
	session, _ := begin(t)
	var out bytes.Buffer
	handler := runner.NewJSONHandler(strings.NewReader(`{"choose": 1}`+"\n"), &out)
	r := runner.NewRunner(runner.WithInputHandler(handler))

	require.NoError(t, r.Run(context.Background(), session))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"type":"state"`)
	assert.Contains(t, lines[0], `"body":[{"p":["You step off the boat."]}]`)
	assert.Contains(t, lines[1], `"label":[{"p":["coins"]}],"value":2`)
}
