// Package asm collects the microcode sequences for every user
// instruction, prepends the three fixed fetch/decode states, assigns
// opcodes, derives the control-signal alphabet, and builds both the
// control-FSM IR and the structural top-entity IR that the vhdl package
// will print. It walks a flat instruction list once, assigning
// deterministic names in encounter order, and folds everything into one
// ordered IR.
package asm

import (
	"math/bits"
	"strconv"

	"github.com/hwgen/rtlc/internal/fsm"
	"github.com/hwgen/rtlc/internal/microcode"
	"github.com/hwgen/rtlc/vhdl"
	"github.com/pkg/errors"
)

// MoveInput is one register-transfer move, already reduced to the plain
// strings and ints that microcode.Lower expects.
type MoveInput struct {
	Target string
	Source microcode.Source
}

// InstructionInput is one user instruction: a name and its ordered moves.
type InstructionInput struct {
	Name  string
	Moves []MoveInput
}

// Result is the pair of IRs that together describe a computer: the
// control-FSM IR and the structural top-level VHDL file.
type Result struct {
	Control *fsm.Machine
	Top     *vhdl.File
}

// Fixed register names used by the datapath, referenced directly by the
// three fixed states.
const (
	regPC = "pc"
	regMD = "MD"
	regIR = "IR"
	regMA = "MA"
)

const busWidth = 8

// Assemble runs the computer-assembly algorithm: it flattens every
// instruction's moves into a named microcode chain, merges in the fixed
// fetch/store_instruction/decode states, assigns opcodes in declaration
// order, derives the control-signal alphabet, and builds the control-FSM
// IR plus the structural top-entity IR (named topName, with a RAM address
// bus addressWidth bits wide).
//
// The states of the returned machine are ordered fetch, store_instruction,
// decode, then each instruction's chain in declaration order, each chain's
// states in move order.
func Assemble(instructions []InstructionInput, topName string, addressWidth int) (*Result, error) {
	n := len(instructions)
	if n == 0 {
		return nil, invariant(errors.New("asm: no instructions to assemble"))
	}
	if err := checkUniqueNames(instructions); err != nil {
		return nil, err
	}

	chains := make([][]*microcode.State, n)
	for i, instr := range instructions {
		chain, err := flatten(instr)
		if err != nil {
			return nil, err
		}
		chains[i] = chain
	}

	width := opcodeWidth(n)

	states, err := mergeStates(instructions, chains)
	if err != nil {
		return nil, err
	}

	alphabet := deriveAlphabet(states)
	if len(alphabet) == 0 {
		return nil, invariant(errors.New("asm: empty control-signal alphabet with pending states"))
	}

	constants := deriveConstants(states)

	machine, err := buildMachine(states, alphabet, constants, width)
	if err != nil {
		return nil, err
	}

	for i, instr := range instructions {
		literal := vhdl.Bits(i, width)
		machine.Transitions = append(machine.Transitions, fsm.Transition{
			From:  "decode",
			To:    chainStateName(instr.Name, 0),
			Guard: "opcode = " + literal,
		})
	}

	top := buildTop(topName, alphabet, addressWidth)

	return &Result{Control: machine, Top: top}, nil
}

func checkUniqueNames(instructions []InstructionInput) error {
	seen := make(map[string]bool, len(instructions))
	for _, instr := range instructions {
		if seen[instr.Name] {
			return invariant(errors.Errorf("asm: duplicate instruction name %q", instr.Name))
		}
		seen[instr.Name] = true
	}
	return nil
}

func chainStateName(instr string, i int) string {
	return instr + "_" + strconv.Itoa(i)
}

// flatten lowers every move of instr into a single ordered microcode
// chain. An instruction with no moves synthesizes one no-op state so that
// its decode guard always has somewhere to go.
func flatten(instr InstructionInput) ([]*microcode.State, error) {
	var chain []*microcode.State
	for _, mv := range instr.Moves {
		states, err := microcode.Lower(microcode.Move{Target: mv.Target, Source: mv.Source})
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %q", instr.Name)
		}
		chain = append(chain, states...)
	}
	if len(chain) == 0 {
		chain = []*microcode.State{{}}
	}
	return chain, nil
}

// opcodeWidth returns ceil(log2(n)), with a floor of 1 bit so that a
// single-instruction computer still has a usable opcode field.
func opcodeWidth(n int) int {
	w := bits.Len(uint(n - 1))
	if w == 0 {
		w = 1
	}
	return w
}

// namedState pairs a microcode/fixed state with its final name, so that
// ordering can be derived once and reused for the alphabet, the
// transition list, and the VHDL case branches.
type namedState struct {
	name  string
	state *microcode.State
}

func mergeStates(instructions []InstructionInput, chains [][]*microcode.State) ([]*namedState, error) {
	var out []*namedState

	fetch := &microcode.State{Signals: []string{microcode.ReadSignal(regPC), microcode.WriteSignal(regMA)}, Next: "store_instruction"}
	storeInstruction := &microcode.State{Signals: []string{microcode.ReadSignal(regMD), microcode.WriteSignal(regIR), "inc_pc"}, Next: "decode"}
	decode := &microcode.State{}

	out = append(out,
		&namedState{"fetch", fetch},
		&namedState{"store_instruction", storeInstruction},
		&namedState{"decode", decode},
	)

	for i, instr := range instructions {
		chain := chains[i]
		for j, st := range chain {
			name := chainStateName(instr.Name, j)
			if j == len(chain)-1 {
				st.Next = "fetch"
			} else {
				st.Next = chainStateName(instr.Name, j+1)
			}
			out = append(out, &namedState{name, st})
		}
	}

	for _, ns := range out {
		if ns.name != "decode" && ns.state.Next == "" {
			return nil, invariant(errors.Errorf("asm: state %q has no successor", ns.name))
		}
	}

	return out, nil
}

// deriveAlphabet returns the control-signal alphabet in first-mention
// order, scanning states in their final declaration order.
func deriveAlphabet(states []*namedState) []string {
	var alphabet []string
	seen := make(map[string]bool)
	for _, ns := range states {
		for _, sig := range ns.state.Signals {
			if !seen[sig] {
				seen[sig] = true
				alphabet = append(alphabet, sig)
			}
		}
	}
	return alphabet
}

// deriveConstants returns the set of distinct constant values referenced
// by any state, in first-mention order.
func deriveConstants(states []*namedState) []int {
	var consts []int
	seen := make(map[int]bool)
	for _, ns := range states {
		if ns.state.Constant == nil {
			continue
		}
		n := *ns.state.Constant
		if !seen[n] {
			seen[n] = true
			consts = append(consts, n)
		}
	}
	return consts
}

func constantName(n int) string {
	return "CONSTANT_" + strconv.Itoa(n)
}

func buildMachine(states []*namedState, alphabet []string, constants []int, width int) (*fsm.Machine, error) {
	m := &fsm.Machine{EntityName: "control_unit"}

	m.Ports = append(m.Ports,
		vhdl.Port{Name: "clock", Dir: vhdl.In, Type: "std_logic"},
		vhdl.Port{Name: "reset", Dir: vhdl.In, Type: "std_logic"},
		vhdl.Port{Name: "system_bus", Dir: vhdl.InOut, Type: vhdl.Vector(busWidth)},
		vhdl.Port{Name: "alu_operation", Dir: vhdl.Out, Type: vhdl.Vector(3)},
	)
	for _, sig := range alphabet {
		m.Ports = append(m.Ports, vhdl.Port{Name: sig, Dir: vhdl.Out, Type: "std_logic"})
	}

	m.Signals = append(m.Signals, vhdl.Signal{Name: "opcode", Type: vhdl.Vector(width)})

	for _, n := range constants {
		m.Constants = append(m.Constants, vhdl.Constant{
			Name:  constantName(n),
			Type:  vhdl.Vector(busWidth),
			Value: vhdl.Bits(n, busWidth),
		})
	}

	for _, ns := range states {
		def := &fsm.StateDef{Name: ns.name, Assigns: stateAssigns(ns.state, alphabet)}
		if ns.name == "store_instruction" {
			def.FallingEdge = []vhdl.Assign{{
				Target: vhdl.Slice("opcode", width-1, 0),
				Value:  vhdl.Slice("system_bus", busWidth-1, busWidth-width),
			}}
		}
		m.States = append(m.States, def)
		if ns.state.Next != "" {
			m.Transitions = append(m.Transitions, fsm.Transition{From: ns.name, To: ns.state.Next})
		}
	}

	m.ResetTarget = "fetch"
	m.ResetAssigns = resetAssigns(alphabet)

	return m, nil
}

func stateAssigns(st *microcode.State, alphabet []string) []vhdl.Assign {
	assigns := make([]vhdl.Assign, 0, len(alphabet)+2)
	for _, sig := range alphabet {
		assigns = append(assigns, vhdl.Assign{Target: sig, Value: vhdl.Bit(st.Asserts(sig))})
	}
	if st.ALUOp != nil {
		assigns = append(assigns, vhdl.Assign{Target: "alu_operation", Value: `"` + st.ALUOp.Code() + `"`})
	} else {
		assigns = append(assigns, vhdl.Assign{Target: "alu_operation", Value: `"000"`})
	}
	if st.Constant != nil {
		assigns = append(assigns, vhdl.Assign{Target: "system_bus", Value: constantName(*st.Constant)})
	} else {
		assigns = append(assigns, vhdl.Assign{Target: "system_bus", Value: vhdl.HighZ(busWidth)})
	}
	return assigns
}

func resetAssigns(alphabet []string) []vhdl.Assign {
	assigns := make([]vhdl.Assign, 0, len(alphabet)+2)
	for _, sig := range alphabet {
		assigns = append(assigns, vhdl.Assign{Target: sig, Value: vhdl.Bit(false)})
	}
	assigns = append(assigns,
		vhdl.Assign{Target: "alu_operation", Value: `"000"`},
		vhdl.Assign{Target: "system_bus", Value: vhdl.HighZ(busWidth)},
	)
	return assigns
}
