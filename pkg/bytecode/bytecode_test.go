package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobf/pkg/compiler"
	"gobf/pkg/machine"
)

func TestEncodeLayout(t *testing.T) {
	program := []machine.Instruction{
		machine.Inc(),
		machine.JumpIfZero(0x01020304),
	}
	data, err := Encode(program)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		'B', 'F', 'V', 'M', Version,
		byte(machine.OpInc),
		byte(machine.OpJumpIfZero), 0x04, 0x03, 0x02, 0x01,
	}, data)
	assert.Equal(t, len(data), EncodedLen(program))
}

func TestDecodeCompiledProgram(t *testing.T) {
	program, err := compiler.Compile("++[>++<-]>.", 0)
	require.NoError(t, err)

	data, err := Encode(program)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, program, decoded)
}

func TestDecodeEmpty(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrBadMagic},
		{"wrong magic", []byte("ELF\x7f\x01"), ErrBadMagic},
		{"wrong version", []byte("BFVM\x09"), ErrBadVersion},
		{"bad opcode", []byte("BFVM\x01\x02\x08"), ErrBadOpcode},
		{"truncated target", []byte("BFVM\x01\x07\x01\x00"), ErrTruncated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.data)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEncodeRejectsInvalid(t *testing.T) {
	_, err := Encode([]machine.Instruction{{Op: machine.Op(0x20)}})
	assert.ErrorIs(t, err, ErrBadOpcode)

	_, err = Encode([]machine.Instruction{machine.Jump(-1)})
	assert.Error(t, err)
}

func TestDisassemble(t *testing.T) {
	program, err := compiler.Compile("+[-].", 0)
	require.NoError(t, err)

	want := "0000  INC\n" +
		"0001  JZ    4\n" +
		"0002  DEC\n" +
		"0003  JMP   1\n" +
		"0004  OUT\n"
	assert.Equal(t, want, Disassemble(program))
}
