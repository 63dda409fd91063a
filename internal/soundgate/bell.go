package soundgate

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

var errNotTerminal = errors.New("output is not a terminal")

// TerminalBell plays the alert as an ASCII BEL on a terminal
type TerminalBell struct {
	out        io.Writer
	isTerminal func() bool
}

// NewTerminalBell rings on f, which must be attached to a terminal
func NewTerminalBell(f *os.File) *TerminalBell {
	return &TerminalBell{
		out: f,
		isTerminal: func() bool {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		},
	}
}

func (b *TerminalBell) Prime(ctx context.Context) error {
	if !b.isTerminal() {
		return errNotTerminal
	}
	return nil
}

func (b *TerminalBell) Play(ctx context.Context) error {
	if !b.isTerminal() {
		return errNotTerminal
	}
	_, err := io.WriteString(b.out, "\a")
	return err
}
