package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
	"golang.org/x/term"

	"mos6502/hw"
)

var errStepQuit = errors.New("quit")

// stepPacer shows each instruction before it's executed and waits for a key
// press. The terminal is in raw mode until Close.
type stepPacer struct {
	in    io.Reader
	out   io.Writer
	fd    int
	state *term.State
}

func newStepPacer(in *os.File, out io.Writer) (*stepPacer, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "raw mode")
	}
	fmt.Fprint(out, "press a key to step, q to quit\r\n")
	return &stepPacer{in: in, out: out, fd: fd, state: state}, nil
}

func (p *stepPacer) Pace(ctx context.Context, op hw.DisasmOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintf(p.out, "%s\r\n", op)

	var key [1]byte
	if _, err := p.in.Read(key[:]); err != nil {
		return err
	}
	switch key[0] {
	case 'q', 0x03, 0x04: // q, ctrl-c, ctrl-d
		return errStepQuit
	}
	return nil
}

func (p *stepPacer) Close() error {
	return term.Restore(p.fd, p.state)
}
