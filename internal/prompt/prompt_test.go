package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTerminalConfirmer_Answers는 테스트 코드 동작을 검증하거나 보조합니다.
func TestTerminalConfirmer_Answers(t *testing.T) {
	// y/yes만 승인으로 처리하고, 그 외 입력과 EOF는 거절로 처리해야 한다.
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  y  \n", true},
		{"n\n", false},
		{"\n", false},
		{"yep\n", false},
		{"", false},
		{"y", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewConfirmer(strings.NewReader(tt.input), &out).Confirm("Undo 3 renames?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Undo 3 renames? [y/N] ", out.String())
		})
	}
}

// TestTerminalConfirmer_RefusesNonInteractiveInput는 테스트 코드 동작을 검증하거나 보조합니다.
func TestTerminalConfirmer_RefusesNonInteractiveInput(t *testing.T) {
	// 터미널이 아닌 입력에서는 질문 없이 ErrNotInteractive를 반환해야 한다.
	var out bytes.Buffer
	c := &TerminalConfirmer{
		in:         strings.NewReader("y\n"),
		out:        &out,
		isTerminal: func() bool { return false },
	}

	ok, err := c.Confirm("Undo?")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrNotInteractive))
	assert.Empty(t, out.String())
}

// TestAlwaysYes는 테스트 코드 동작을 검증하거나 보조합니다.
func TestAlwaysYes(t *testing.T) {
	ok, err := AlwaysYes{}.Confirm("anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
