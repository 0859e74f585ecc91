package machine

import "fmt"

// Op identifies one of the eight machine operations.
type Op uint8

const (
	OpLeft       Op = 0x00
	OpRight      Op = 0x01
	OpInc        Op = 0x02
	OpDec        Op = 0x03
	OpOutput     Op = 0x04
	OpInput      Op = 0x05
	OpJumpIfZero Op = 0x06
	OpJump       Op = 0x07
)

var opNames = map[Op]string{
	OpLeft:       "LEFT",
	OpRight:      "RIGHT",
	OpInc:        "INC",
	OpDec:        "DEC",
	OpOutput:     "OUT",
	OpInput:      "IN",
	OpJumpIfZero: "JZ",
	OpJump:       "JMP",
}

// String returns the mnemonic used in listings.
func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OP(0x%02X)", uint8(o))
}

// Valid reports whether o is one of the eight defined opcodes.
func (o Op) Valid() bool {
	return o <= OpJump
}

// IsJump reports whether instructions with this opcode carry a target.
func (o Op) IsJump() bool {
	return o == OpJumpIfZero || o == OpJump
}

// Instruction is a single decoded operation. Target is an absolute index into
// the program and is only meaningful for OpJumpIfZero and OpJump.
type Instruction struct {
	Op     Op
	Target int
}

// String renders the instruction as it appears in a listing, e.g. "JZ 4".
func (i Instruction) String() string {
	if i.Op.IsJump() {
		return fmt.Sprintf("%s %d", i.Op, i.Target)
	}
	return i.Op.String()
}

// Left returns a LEFT instruction.
func Left() Instruction { return Instruction{Op: OpLeft} }

// Right returns a RIGHT instruction.
func Right() Instruction { return Instruction{Op: OpRight} }

// Inc returns an INC instruction.
func Inc() Instruction { return Instruction{Op: OpInc} }

// Dec returns a DEC instruction.
func Dec() Instruction { return Instruction{Op: OpDec} }

// Output returns an OUT instruction.
func Output() Instruction { return Instruction{Op: OpOutput} }

// Input returns an IN instruction.
func Input() Instruction { return Instruction{Op: OpInput} }

// JumpIfZero returns a JZ that jumps to target when the current cell is 0.
func JumpIfZero(target int) Instruction {
	return Instruction{Op: OpJumpIfZero, Target: target}
}

// Jump returns an unconditional JMP to target.
func Jump(target int) Instruction {
	return Instruction{Op: OpJump, Target: target}
}
