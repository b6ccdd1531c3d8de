package rtlc

import (
	"os"
	"path/filepath"

	"github.com/hwgen/rtlc/internal/asm"
	"github.com/hwgen/rtlc/internal/microcode"
	"github.com/hwgen/rtlc/vhdl"
	"github.com/pkg/errors"
)

// Generate freezes c and writes control.vhdl and main.vhdl under
// ./<c.Name>/.
func (c *Computer) Generate() error {
	return c.GenerateTo(c.Name)
}

// GenerateTo freezes c and writes control.vhdl and main.vhdl under dir.
// It exists so tests (and callers embedding this generator in a larger
// build) can choose where output lands without relying on the current
// working directory.
func (c *Computer) GenerateTo(dir string) error {
	if c.err != nil {
		return dslError(c.err)
	}
	if len(c.instructions) == 0 {
		return dslError(errors.New("computer has no instructions: opcode width is undefined"))
	}

	inputs, err := c.lower()
	if err != nil {
		return err
	}

	result, err := asm.Assemble(inputs, c.Name, c.addressWidth)
	if err != nil {
		return err
	}

	controlFile, err := result.Control.BuildFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	if err := writeFile(filepath.Join(dir, "control.vhdl"), controlFile); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, "main.vhdl"), result.Top); err != nil {
		return err
	}
	return nil
}

func writeFile(path string, f *vhdl.File) error {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer out.Close()
	if err := vhdl.Print(out, f); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// lower validates and translates c's instructions into the plain,
// canonicalized inputs package asm expects, crossing the boundary between
// typed DSL identifiers and string-based IR described in the "mixed-type
// control-signal collection" design note.
func (c *Computer) lower() ([]asm.InstructionInput, error) {
	out := make([]asm.InstructionInput, 0, len(c.instructions))
	for _, instr := range c.instructions {
		if instr.err != nil {
			return nil, dslError(errors.Wrapf(instr.err, "instruction %q", instr.Name))
		}
		moves := make([]asm.MoveInput, 0, len(instr.Moves))
		for _, mv := range instr.Moves {
			src, err := lowerSource(mv.Source)
			if err != nil {
				return nil, dslError(errors.Wrapf(err, "instruction %q", instr.Name))
			}
			moves = append(moves, asm.MoveInput{Target: string(mv.Target), Source: src})
		}
		out = append(out, asm.InstructionInput{Name: instr.Name, Moves: moves})
	}
	return out, nil
}

func lowerSource(src Source) (microcode.Source, error) {
	switch s := src.(type) {
	case constSource:
		if err := checkConst(s.value); err != nil {
			return nil, err
		}
		return microcode.Const(s.value), nil
	case regSource:
		return microcode.Reg(string(s.reg)), nil
	case aluSource:
		a, err := lowerSource(s.a)
		if err != nil {
			return nil, err
		}
		var b microcode.Source
		if s.b != nil {
			b, err = lowerSource(s.b)
			if err != nil {
				return nil, err
			}
		}
		return microcode.ALU{Op: lowerALUOp(s.op), A: a, B: b}, nil
	default:
		return nil, errors.Errorf("rtlc: unsupported source type %T", s)
	}
}

func lowerALUOp(op ALUOperation) microcode.ALUOp {
	switch op {
	case OpAdd:
		return microcode.OpAdd
	case OpSubtract:
		return microcode.OpSubtract
	default:
		return microcode.OpComplement
	}
}
