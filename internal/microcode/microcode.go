// Package microcode lowers a single register-transfer move into the
// ordered sequence of MicrocodeStates it expands to. It knows nothing
// about instructions, opcodes, or VHDL: it is a pure function from one
// move to a handful of states, expanded as a small sequence of discrete
// steps over a typed Source value.
package microcode

import "github.com/pkg/errors"

// ALUOp identifies one of the three fixed ALU operations.
type ALUOp int

// The three ALU operations and their fixed opcodes.
const (
	OpComplement ALUOp = iota
	OpAdd
	OpSubtract
)

// Code returns the 3-bit opcode of op, MSB first.
func (op ALUOp) Code() string {
	switch op {
	case OpComplement:
		return "101"
	case OpAdd:
		return "010"
	case OpSubtract:
		return "110"
	default:
		panic("microcode: invalid ALUOp")
	}
}

// Source is the source side of a move, already canonicalized to plain
// strings and ints (no DSL-facing identifiers) per the "canonicalize
// early" design note.
type Source interface{ isSource() }

// Const is an integer constant driven directly onto the bus.
type Const int

func (Const) isSource() {}

// Reg is a plain register name.
type Reg string

func (Reg) isSource() {}

// ALU routes the move through the ALU. B is nil for OpComplement.
type ALU struct {
	Op ALUOp
	A  Source
	B  Source
}

func (ALU) isSource() {}

// Move is target <- source, with target and any register operands already
// reduced to plain signal-bearing names.
type Move struct {
	Target string
	Source Source
}

// State is one microcode cycle: the control signals it asserts (in the
// order they were asserted, so that a global first-mention ordering can be
// derived deterministically), the ALU opcode it drives (if any), the
// constant it drives onto the bus (if any), and the name of its successor
// state. Next is left empty here; the assembler fills it in once state
// names are known.
type State struct {
	Signals  []string
	ALUOp    *ALUOp
	Constant *int
	Next     string
}

// Asserts reports whether s asserts the named control signal.
func (s *State) Asserts(signal string) bool {
	for _, sig := range s.Signals {
		if sig == signal {
			return true
		}
	}
	return false
}

func newState(signals ...string) *State {
	return &State{Signals: append([]string(nil), signals...)}
}

// WriteSignal returns the canonical "write enable" control-signal name for
// register r. Lower uses it for every wr_<reg> signal it emits.
func WriteSignal(r string) string { return "wr_" + r }

// ReadSignal returns the canonical "read enable" control-signal name for
// register r. Lower uses it for every rd_<reg> signal it emits.
func ReadSignal(r string) string { return "rd_" + r }

// Lower expands one register-transfer move into its microcode states, per
// the rules:
//
//   - constant source: one state {wr_<target>}, constant_value = k.
//   - register source: one state {wr_<target>, rd_<s>}.
//   - ALU source: a load-A state, an optional load-B state, and a
//     result-latch state {rd_alu, wr_<target>}.
//
// A constant ALU operand drives the bus directly (constant_value) and
// never emits a meaningless rd_<const> signal.
func Lower(mv Move) ([]*State, error) {
	switch src := mv.Source.(type) {
	case Const:
		n := int(src)
		if n < 0 || n > 255 {
			return nil, errors.Errorf("constant %d out of range 0-255", n)
		}
		s := newState(WriteSignal(mv.Target))
		s.Constant = &n
		return []*State{s}, nil

	case Reg:
		s := newState(WriteSignal(mv.Target), ReadSignal(string(src)))
		return []*State{s}, nil

	case ALU:
		var states []*State

		loadA, err := loadOperand("alu_a", src.A, src.Op)
		if err != nil {
			return nil, err
		}
		states = append(states, loadA)

		if src.B != nil {
			loadB, err := loadOperand("alu_b", src.B, -1)
			if err != nil {
				return nil, err
			}
			states = append(states, loadB)
		}

		op := src.Op
		latch := newState(ReadSignal("alu"), WriteSignal(mv.Target))
		latch.ALUOp = &op
		states = append(states, latch)

		return states, nil

	default:
		return nil, errors.Errorf("microcode: unsupported source type %T", src)
	}
}

// loadOperand builds the state that drives operand into alu pin. When op
// is >= 0, the resulting state also carries the ALU opcode (used for the
// first operand); pass -1 for the second operand, which never carries an
// opcode.
func loadOperand(pin string, operand Source, op ALUOp) (*State, error) {
	var s *State
	switch o := operand.(type) {
	case Const:
		n := int(o)
		if n < 0 || n > 255 {
			return nil, errors.Errorf("constant %d out of range 0-255", n)
		}
		s = newState(WriteSignal(pin))
		s.Constant = &n
	case Reg:
		s = newState(ReadSignal(string(o)), WriteSignal(pin))
	default:
		return nil, errors.Errorf("microcode: ALU operand must be a constant or register, got %T", o)
	}
	if op >= 0 {
		s.ALUOp = &op
	}
	return s, nil
}
