package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"", Command{Kind: CommandContinue}},
		{"c", Command{Kind: CommandContinue}},
		{"Continue", Command{Kind: CommandContinue}},
		{"3", Command{Kind: CommandChoose, ID: 3}},
		{"choose 0", Command{Kind: CommandChoose, ID: 0}},
		{"-1", Command{Kind: CommandChoose, ID: -1}},
		{"reset", Command{Kind: CommandReset}},
		{"QUIT", Command{Kind: CommandQuit}},
		{"exit", Command{Kind: CommandQuit}},
		{"choose", Command{Kind: CommandUnknown}},
		{"choose one", Command{Kind: CommandUnknown}},
		{"go north", Command{Kind: CommandUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.input))
		})
	}
}
