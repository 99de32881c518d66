package tests

import (
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ProcState is the processor state of a single-step test, before or after the
// instruction runs.
type ProcState struct {
	PC         uint16
	S, A, X, Y uint8
	P          uint8
	RAM        []RAMCell
}

type RAMCell struct {
	Addr uint16
	Val  uint8
}

// ProcTest is a single-step test: one instruction executed from Initial must
// lead to Final in Cycles cycles.
type ProcTest struct {
	Name    string
	Initial ProcState
	Final   ProcState
	Cycles  int
}

// LoadProcTests reads a file of single-step tests.
func LoadProcTests(path string) ([]ProcTest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	tests, err := DecodeProcTests(jx.DecodeBytes(buf))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return tests, nil
}

// DecodeProcTests decodes a JSON array of single-step tests.
func DecodeProcTests(d *jx.Decoder) ([]ProcTest, error) {
	var tests []ProcTest
	err := d.Arr(func(d *jx.Decoder) error {
		var tt ProcTest
		err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "name":
				tt.Name, err = d.Str()
			case "initial":
				err = decodeProcState(d, &tt.Initial)
			case "final":
				err = decodeProcState(d, &tt.Final)
			case "cycles":
				err = d.Arr(func(d *jx.Decoder) error {
					tt.Cycles++
					return d.Skip()
				})
			default:
				err = d.Skip()
			}
			if err != nil {
				return errors.Wrap(err, key)
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "test %q", tt.Name)
		}
		tests = append(tests, tt)
		return nil
	})
	return tests, err
}

func decodeUint(d *jx.Decoder, max int) (int, error) {
	v, err := d.Int()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > max {
		return 0, errors.Errorf("value %d out of range [0,%d]", v, max)
	}
	return v, nil
}

func decodeProcState(d *jx.Decoder, s *ProcState) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "pc":
			v, err := decodeUint(d, 0xFFFF)
			s.PC = uint16(v)
			return err
		case "s", "a", "x", "y", "p":
			v, err := decodeUint(d, 0xFF)
			if err != nil {
				return errors.Wrap(err, key)
			}
			switch key {
			case "s":
				s.S = uint8(v)
			case "a":
				s.A = uint8(v)
			case "x":
				s.X = uint8(v)
			case "y":
				s.Y = uint8(v)
			case "p":
				s.P = uint8(v)
			}
			return nil
		case "ram":
			return d.Arr(func(d *jx.Decoder) error {
				var (
					cell RAMCell
					i    int
				)
				err := d.Arr(func(d *jx.Decoder) error {
					defer func() { i++ }()
					switch i {
					case 0:
						v, err := decodeUint(d, 0xFFFF)
						cell.Addr = uint16(v)
						return err
					case 1:
						v, err := decodeUint(d, 0xFF)
						cell.Val = uint8(v)
						return err
					}
					return d.Skip()
				})
				if err != nil {
					return err
				}
				if i < 2 {
					return errors.New("ram cell: missing address or value")
				}
				s.RAM = append(s.RAM, cell)
				return nil
			})
		}
		return d.Skip()
	})
}
