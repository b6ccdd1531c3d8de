package rtlc

import (
	"github.com/pkg/errors"
)

const defaultAddressWidth = 5

// Computer is an accumulator-style computer description: a name (which
// becomes the output directory), a RAM address width, and an ordered list
// of instructions. It is immutable once Generate or GenerateTo begins.
type Computer struct {
	Name         string
	addressWidth int
	instructions []*Instruction

	extraRegisters map[Register]bool
	err            error
}

// NewComputer starts building a Computer named name.
func NewComputer(name string) *Computer {
	c := &Computer{Name: name, addressWidth: defaultAddressWidth, extraRegisters: make(map[Register]bool)}
	if !validIdent(name) {
		c.err = errors.Errorf("invalid computer name %q: not a valid identifier", name)
	}
	return c
}

// AddressWidth sets the RAM address width in bits. The default is 5.
func (c *Computer) AddressWidth(bits int) *Computer {
	if bits <= 0 {
		c.err = firstErr(c.err, errors.Errorf("invalid address width %d", bits))
		return c
	}
	c.addressWidth = bits
	return c
}

// Instruction declares a new instruction on c and returns it so moves can
// be chained onto it.
func (c *Computer) Instruction(name string) *Instruction {
	return newInstruction(c, name)
}
