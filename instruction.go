package rtlc

import "github.com/pkg/errors"

// Move is one register-transfer step: target <- source.
type Move struct {
	Target Register
	Source Source
}

// Instruction is an ordered list of register-transfer moves, lowered into
// a chain of microcode states by Computer.Generate.
type Instruction struct {
	Name  string
	Moves []Move

	computer *Computer
	err      error
}

// newInstruction begins a new Instruction on the owning Computer and appends
// it to the computer's instruction list in declaration order.
func newInstruction(c *Computer, name string) *Instruction {
	if !validIdent(name) {
		c.err = firstErr(c.err, errors.Errorf("invalid instruction name %q: not a valid identifier", name))
	}
	i := &Instruction{Name: name, computer: c}
	c.instructions = append(c.instructions, i)
	return i
}

// Move appends a register-transfer step to the instruction and returns the
// instruction so calls can be chained.
func (i *Instruction) Move(target Register, src Source) *Instruction {
	if err := checkRegister(i.computer, target); err != nil {
		i.err = firstErr(i.err, err)
	}
	if err := checkSource(i.computer, src); err != nil {
		i.err = firstErr(i.err, err)
	}
	i.Moves = append(i.Moves, Move{Target: target, Source: src})
	return i
}

// checkSource validates the embedded constants and register references of
// src against c: a bare constant or register source, or one nested inside
// an ALU source's operands.
func checkSource(c *Computer, src Source) error {
	switch s := src.(type) {
	case constSource:
		return checkConst(s.value)
	case regSource:
		return checkRegister(c, s.reg)
	case aluSource:
		if err := checkSource(c, s.a); err != nil {
			return err
		}
		if s.b != nil {
			return checkSource(c, s.b)
		}
	}
	return nil
}

func firstErr(cur, next error) error {
	if cur != nil {
		return cur
	}
	return next
}
