package machine

import "fmt"

// Runner executes one program against a machine, one instruction per Step.
// The machine outlives the runner; the program does not.
type Runner struct {
	program []Instruction
	m       *Machine

	ip    int
	steps uint64
}

func NewRunner(program []Instruction, m *Machine) *Runner {
	return &Runner{program: program, m: m}
}

// IP returns the index of the next instruction to execute.
func (r *Runner) IP() int { return r.ip }

// Steps returns how many instructions have been executed.
func (r *Runner) Steps() uint64 { return r.steps }

// Done reports whether the instruction pointer has left the program.
func (r *Runner) Done() bool {
	return r.ip < 0 || r.ip >= len(r.program)
}

// Next returns the instruction Step would execute.
func (r *Runner) Next() (Instruction, bool) {
	if r.Done() {
		return Instruction{}, false
	}
	return r.program[r.ip], true
}

// Step executes a single instruction. On error the instruction pointer is
// left on the failing instruction.
func (r *Runner) Step() error {
	if r.Done() {
		return nil
	}
	m := r.m
	instr := r.program[r.ip]
	next := r.ip + 1

	switch instr.Op {
	case OpLeft:
		if err := m.moveLeft(); err != nil {
			return fmt.Errorf("ip %d: %w", r.ip, err)
		}

	case OpRight:
		m.moveRight()

	case OpInc:
		m.Tape[m.Cursor]++

	case OpDec:
		m.Tape[m.Cursor]--

	case OpOutput:
		if err := m.writeCell(); err != nil {
			return fmt.Errorf("ip %d: %w", r.ip, err)
		}

	case OpInput:
		if err := m.readCell(); err != nil {
			return fmt.Errorf("ip %d: %w", r.ip, err)
		}

	case OpJumpIfZero:
		if m.Tape[m.Cursor] == 0 {
			next = instr.Target
		}

	case OpJump:
		next = instr.Target

	default:
		return fmt.Errorf("ip %d: unknown opcode %s", r.ip, instr.Op)
	}

	r.ip = next
	r.steps++
	return nil
}

// Run steps until the instruction pointer leaves the program or an
// instruction fails.
func (r *Runner) Run() error {
	for !r.Done() {
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Eval executes program against m until the instruction pointer runs off the
// end of the program. The machine keeps its tape and cursor afterwards so it
// can be reused for the next program.
func Eval(program []Instruction, m *Machine) error {
	return NewRunner(program, m).Run()
}
