package compiler

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobf/pkg/machine"
)

func TestCompileSimpleOps(t *testing.T) {
	prog, err := Compile("<>+-.,", 0)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{
		machine.Left(),
		machine.Right(),
		machine.Inc(),
		machine.Dec(),
		machine.Output(),
		machine.Input(),
	}, prog)
}

func TestCompileSingleIncrement(t *testing.T) {
	prog, err := Compile("+", 0)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{machine.Inc()}, prog)
}

func TestCompileLoop(t *testing.T) {
	prog, err := Compile("+[-]", 0)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{
		machine.Inc(),
		machine.JumpIfZero(4),
		machine.Dec(),
		machine.Jump(1),
	}, prog)
}

func TestCompileNestedLoops(t *testing.T) {
	// 0 JZ 8, 1 RIGHT, 2 JZ 5, 3 INC, 4 JMP 2, 5 LEFT, 6 DEC, 7 JMP 0
	prog, err := Compile("[>[+]<-]", 0)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{
		machine.JumpIfZero(8),
		machine.Right(),
		machine.JumpIfZero(5),
		machine.Inc(),
		machine.Jump(2),
		machine.Left(),
		machine.Dec(),
		machine.Jump(0),
	}, prog)
}

func TestCompileAdjacentLoops(t *testing.T) {
	prog, err := Compile("[-][+]", 0)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{
		machine.JumpIfZero(3),
		machine.Dec(),
		machine.Jump(0),
		machine.JumpIfZero(6),
		machine.Inc(),
		machine.Jump(3),
	}, prog)
}

func TestCompileEmptyLoop(t *testing.T) {
	prog, err := Compile("[]", 0)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{machine.JumpIfZero(2), machine.Jump(0)}, prog)
}

func TestCompileBaseOffset(t *testing.T) {
	prog, err := Compile("+[-]", 10)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{
		machine.Inc(),
		machine.JumpIfZero(14),
		machine.Dec(),
		machine.Jump(11),
	}, prog)

	_, err = Compile("+", -1)
	assert.Error(t, err)
}

func TestCompileSkipsUnrecognized(t *testing.T) {
	prog, err := Compile("a+ b[\n-]c é", 0)
	require.NoError(t, err)
	assert.Equal(t, []machine.Instruction{
		machine.Inc(),
		machine.JumpIfZero(4),
		machine.Dec(),
		machine.Jump(1),
	}, prog)

	prog, err = Compile("hello world", 0)
	require.NoError(t, err)
	assert.Empty(t, prog)
}

func TestCompileLogsSkippedCharacters(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Compile("+x", 0, WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "skipping unrecognized character")
	assert.Contains(t, out, "char=x")
	assert.Contains(t, out, "offset=1")
}

func TestCompileUnmatchedOpen(t *testing.T) {
	_, err := Compile("+[[-]", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmatchedOpen))

	var syn *SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, 1, syn.Offset)
	assert.Equal(t, "offset 1: unmatched '['", err.Error())
}

func TestCompileUnmatchedClose(t *testing.T) {
	_, err := Compile("+-]", 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnmatchedClose)

	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 2, syn.Offset)

	_, err = Compile("[-]]", 0)
	assert.ErrorIs(t, err, ErrUnmatchedClose)
}

func TestCompileBracketBalance(t *testing.T) {
	tests := []struct {
		src string
		ok  bool
	}{
		{"", true},
		{"[]", true},
		{"[[]][]", true},
		{"[", false},
		{"]", false},
		{"][", false},
		{"[[]", false},
		{"[]]", false},
		{"+>[<-.,]", true},
	}
	for _, tc := range tests {
		_, err := Compile(tc.src, 0)
		if tc.ok {
			assert.NoError(t, err, "source %q", tc.src)
		} else {
			assert.Error(t, err, "source %q", tc.src)
		}
	}
}

func TestCompileIdempotent(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++."
	first, err := Compile(src, 3)
	require.NoError(t, err)
	second, err := Compile(src, 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompiledJumpsPairUp(t *testing.T) {
	src := strings.Repeat("[>+[-]<", 5) + strings.Repeat("]", 5)
	prog, err := Compile(src, 0)
	require.NoError(t, err)

	for i, in := range prog {
		switch in.Op {
		case machine.OpJumpIfZero:
			// JZ exits to just past its matching JMP, which points back here.
			back := prog[in.Target-1]
			assert.Equal(t, machine.OpJump, back.Op, "JZ at %d", i)
			assert.Equal(t, i, back.Target, "JZ at %d", i)
		case machine.OpJump:
			assert.Equal(t, machine.OpJumpIfZero, prog[in.Target].Op, "JMP at %d", i)
		}
	}
}

func TestCompileAndEvalHelloWorld(t *testing.T) {
	src := "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	prog, err := Compile(src, 0)
	require.NoError(t, err)

	m := machine.NewMachine()
	var out bytes.Buffer
	m.Output = &out
	require.NoError(t, machine.Eval(prog, m))
	assert.Equal(t, "Hello World!\n", out.String())
}
