package machine

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrTapeUnderflow is returned when a LEFT would move the cursor below
	// cell 0 under UnderflowError.
	ErrTapeUnderflow  = errors.New("tape underflow")
	// ErrInputExhausted is returned when IN finds the input stream at EOF.
	ErrInputExhausted = errors.New("input exhausted")
)

// UnderflowPolicy selects what LEFT does when the cursor is already at cell 0.
type UnderflowPolicy int

const (
	UnderflowError UnderflowPolicy = iota
	UnderflowClamp
)

func (p UnderflowPolicy) String() string {
	switch p {
	case UnderflowError:
		return "error"
	case UnderflowClamp:
		return "clamp"
	}
	return fmt.Sprintf("UnderflowPolicy(%d)", int(p))
}

// ParseUnderflowPolicy maps "error" or "clamp" to a policy. The empty string
// selects UnderflowError.
func ParseUnderflowPolicy(s string) (UnderflowPolicy, error) {
	switch s {
	case "", "error":
		return UnderflowError, nil
	case "clamp":
		return UnderflowClamp, nil
	}
	return UnderflowError, fmt.Errorf("unknown underflow policy %q (want error or clamp)", s)
}

// Machine is the mutable state threaded through every compile+execute cycle.
// It is not safe for concurrent use.
type Machine struct {
	Tape   []byte
	Cursor int

	// Input is read one byte at a time by IN. If nil, os.Stdin is used.
	Input  io.Reader
	// Output receives one byte per OUT. If nil, os.Stdout is used.
	Output io.Writer

	Underflow UnderflowPolicy

	inBuf [1]byte
}

// NewMachine returns a machine with a single zero cell and the cursor on it.
func NewMachine() *Machine {
	return &Machine{
		Tape: []byte{0},
	}
}

func (m *Machine) inputSource() io.Reader {
	if m.Input != nil {
		return m.Input
	}
	return os.Stdin
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

// Cell returns the value under the cursor.
func (m *Machine) Cell() byte {
	return m.Tape[m.Cursor]
}

func (m *Machine) moveLeft() error {
	if m.Cursor == 0 {
		if m.Underflow == UnderflowClamp {
			return nil
		}
		return ErrTapeUnderflow
	}
	m.Cursor--
	return nil
}

// moveRight grows the tape by exactly one zero cell when the cursor walks off
// the end.
func (m *Machine) moveRight() {
	m.Cursor++
	if m.Cursor >= len(m.Tape) {
		m.Tape = append(m.Tape, 0)
	}
}

func (m *Machine) writeCell() error {
	if _, err := m.outputSink().Write(m.Tape[m.Cursor : m.Cursor+1]); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (m *Machine) readCell() error {
	// A buffered writer would otherwise hold back a prompt until exit.
	if f, ok := m.outputSink().(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}
	}

	_, err := io.ReadFull(m.inputSource(), m.inBuf[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrInputExhausted
		}
		return fmt.Errorf("read input: %w", err)
	}
	m.Tape[m.Cursor] = m.inBuf[0]
	return nil
}

// Window returns up to width cells around the cursor and the tape index of
// the first returned cell. The window is shifted so it never starts before
// cell 0 or runs past the end of the tape.
func (m *Machine) Window(width int) (start int, cells []byte) {
	if width <= 0 {
		return 0, nil
	}
	if width >= len(m.Tape) {
		return 0, m.Tape
	}
	start = m.Cursor - width/2
	if start < 0 {
		start = 0
	}
	if start+width > len(m.Tape) {
		start = len(m.Tape) - width
	}
	return start, m.Tape[start : start+width]
}
