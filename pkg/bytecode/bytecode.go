// Package bytecode stores compiled programs as binary images and renders them
// as text listings.
//
// Image layout: the four-byte magic "BFVM", a version byte, then one opcode
// byte per instruction. Jump opcodes are followed by their target as a
// little-endian uint32.
package bytecode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"gobf/pkg/machine"
)

const (
	Magic   = "BFVM"
	Version = 1

	headerLen = len(Magic) + 1
	targetLen = 4
)

var (
	ErrBadMagic   = errors.New("not a BFVM image")
	ErrBadVersion = errors.New("unsupported image version")
	ErrTruncated  = errors.New("truncated image")
	ErrBadOpcode  = errors.New("bad opcode")
)

// EncodedLen returns the size in bytes of program's image.
func EncodedLen(program []machine.Instruction) int {
	n := headerLen
	for _, in := range program {
		n++
		if in.Op.IsJump() {
			n += targetLen
		}
	}
	return n
}

// Encode serialises program into an image.
func Encode(program []machine.Instruction) ([]byte, error) {
	out := make([]byte, 0, EncodedLen(program))
	out = append(out, Magic...)
	out = append(out, Version)

	for i, in := range program {
		if !in.Op.Valid() {
			return nil, fmt.Errorf("instruction %d: %w %s", i, ErrBadOpcode, in.Op)
		}
		out = append(out, byte(in.Op))
		if in.Op.IsJump() {
			if in.Target < 0 || int64(in.Target) > math.MaxUint32 {
				return nil, fmt.Errorf("instruction %d: target %d out of range", i, in.Target)
			}
			out = binary.LittleEndian.AppendUint32(out, uint32(in.Target))
		}
	}
	return out, nil
}

// Decode parses an image produced by Encode.
func Decode(data []byte) ([]machine.Instruction, error) {
	if len(data) < headerLen || !bytes.Equal(data[:len(Magic)], []byte(Magic)) {
		return nil, ErrBadMagic
	}
	if v := data[len(Magic)]; v != Version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}

	var program []machine.Instruction
	pc := headerLen
	for pc < len(data) {
		op := machine.Op(data[pc])
		if !op.Valid() {
			return nil, fmt.Errorf("byte %d: %w 0x%02X", pc, ErrBadOpcode, data[pc])
		}
		pc++

		in := machine.Instruction{Op: op}
		if op.IsJump() {
			if pc+targetLen > len(data) {
				return nil, fmt.Errorf("byte %d: %w", pc, ErrTruncated)
			}
			in.Target = int(binary.LittleEndian.Uint32(data[pc:]))
			pc += targetLen
		}
		program = append(program, in)
	}
	return program, nil
}

// Disassemble renders one line per instruction: its index, mnemonic and, for
// jumps, the target index.
func Disassemble(program []machine.Instruction) string {
	var sb strings.Builder
	for i, in := range program {
		if in.Op.IsJump() {
			fmt.Fprintf(&sb, "%04d  %-5s %d\n", i, in.Op, in.Target)
		} else {
			fmt.Fprintf(&sb, "%04d  %s\n", i, in.Op)
		}
	}
	return sb.String()
}
