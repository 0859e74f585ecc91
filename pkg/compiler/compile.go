package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"gobf/pkg/machine"
)

var (
	ErrUnmatchedOpen  = errors.New("unmatched '['")
	ErrUnmatchedClose = errors.New("unmatched ']'")
)

// SyntaxError reports a bracket that has no partner. Offset is the byte
// offset of the offending bracket in the source.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that receives a Debug record for every skipped
// character.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

var simpleOps = map[byte]machine.Op{
	'<': machine.OpLeft,
	'>': machine.OpRight,
	'+': machine.OpInc,
	'-': machine.OpDec,
	'.': machine.OpOutput,
	',': machine.OpInput,
}

// Compile translates source into a flat instruction sequence whose first
// instruction sits at absolute index base. Loop jumps are resolved to
// absolute indices, so the result of Compile(src, 0) can be passed straight
// to machine.Eval.
func Compile(src string, base int, opts ...Option) ([]machine.Instruction, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	if base < 0 {
		return nil, fmt.Errorf("negative base offset %d", base)
	}

	c := &translator{src: src, logger: o.logger}
	prog, _, err := c.block(0, base, -1)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

type translator struct {
	src    string
	logger *slog.Logger
}

// block translates src starting at byte pos. base is the absolute index the
// first emitted instruction will occupy. open is the offset of the '[' that
// started this block, or -1 at top level. It returns the instructions and the
// position just past the last consumed byte.
func (c *translator) block(pos, base, open int) ([]machine.Instruction, int, error) {
	var res []machine.Instruction

	for pos < len(c.src) {
		ch := c.src[pos]

		if op, ok := simpleOps[ch]; ok {
			res = append(res, machine.Instruction{Op: op})
			pos++
			continue
		}

		switch ch {
		case '[':
			abs := base + len(res)
			sub, end, err := c.block(pos+1, abs+1, pos)
			if err != nil {
				return nil, 0, err
			}
			res = append(res, machine.JumpIfZero(abs+len(sub)+1))
			res = append(res, sub...)
			pos = end

		case ']':
			if open < 0 {
				return nil, 0, &SyntaxError{Offset: pos, Err: ErrUnmatchedClose}
			}
			// base-1 is where the matching JZ was placed.
			res = append(res, machine.Jump(base-1))
			return res, pos + 1, nil

		default:
			r, size := utf8.DecodeRuneInString(c.src[pos:])
			c.logger.Debug("skipping unrecognized character", "char", string(r), "offset", pos)
			pos += size
		}
	}

	if open >= 0 {
		return nil, 0, &SyntaxError{Offset: open, Err: ErrUnmatchedOpen}
	}
	return res, pos, nil
}
