package rtlc

import (
	"regexp"

	"github.com/pkg/errors"
)

// Register is a register-transfer-level target or source identifier.
// The built-in registers are the ones the fixed datapath exposes;
// additional registers may be declared on a Computer with NewRegister.
type Register string

// Built-in registers.
const (
	PC   Register = "pc"
	IR   Register = "IR"
	A    Register = "A"
	MD   Register = "MD"
	MA   Register = "MA"
	ALUA Register = "alu_a"
	ALUB Register = "alu_b"
)

var builtinRegisters = map[Register]bool{
	PC: true, IR: true, A: true, MD: true, MA: true, ALUA: true, ALUB: true,
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewRegister declares a register identifier beyond the built-in set,
// scoped to c: it is recognized by Move/Reg only for c's own instructions,
// never for a different Computer. name must be a valid VHDL identifier.
func (c *Computer) NewRegister(name string) Register {
	r := Register(name)
	if !identRe.MatchString(name) {
		c.err = firstErr(c.err, errors.Errorf("invalid register name %q: not a valid identifier", name))
		return r
	}
	c.extraRegisters[r] = true
	return r
}

func validIdent(name string) bool {
	return identRe.MatchString(name)
}

// knownRegister reports whether r is a built-in register or one declared
// on c through NewRegister.
func knownRegister(c *Computer, r Register) bool {
	return builtinRegisters[r] || c.extraRegisters[r]
}

// checkRegister validates that r is a register known to c, to surface an
// "unknown register name" DSL error instead of letting an unrecognized
// identifier flow through to the emitted VHDL.
func checkRegister(c *Computer, r Register) error {
	if !knownRegister(c, r) {
		return errors.Errorf("unknown register %q: not a built-in register or one declared on this computer with NewRegister", r)
	}
	return nil
}
