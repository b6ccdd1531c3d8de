package asm_test

import (
	"fmt"
	"strings"
	"testing"
	"testing/quick"

	"github.com/hwgen/rtlc/internal/asm"
	"github.com/hwgen/rtlc/internal/fsm"
	mc "github.com/hwgen/rtlc/internal/microcode"
)

func stateNames(m *fsm.Machine) []string {
	names := make([]string, len(m.States))
	for i, s := range m.States {
		names[i] = s.Name
	}
	return names
}

// An instruction with no moves synthesizes a one-cycle no-op chain,
// opcode width 1, opcode "0".
func TestAssemble_ZeroMoveInstructionSynthesizesNoOp(t *testing.T) {
	res, err := asm.Assemble([]asm.InstructionInput{{Name: "nop"}}, "acc", 5)
	if err != nil {
		t.Fatal(err)
	}
	names := stateNames(res.Control)
	want := []string{"fetch", "store_instruction", "decode", "nop_0"}
	if len(names) != len(want) {
		t.Fatalf("states = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("states = %v, want %v", names, want)
		}
	}
	nop0 := res.Control.StateByName("nop_0")
	if nop0 == nil {
		t.Fatal("missing nop_0")
	}
	var foundGuard bool
	for _, tr := range res.Control.Transitions {
		if tr.From == "decode" && tr.To == "nop_0" {
			foundGuard = true
			if tr.Guard != `opcode = "0"` {
				t.Fatalf("guard = %q, want opcode = \"0\"", tr.Guard)
			}
		}
	}
	if !foundGuard {
		t.Fatal("no decode -> nop_0 transition")
	}
}

// With two instructions, decode has exactly two guarded outgoing
// transitions, opcode = "0" -> inst_a_0 and opcode = "1" -> inst_b_0.
func TestAssemble_DecodeGuardedByOpcode(t *testing.T) {
	res, err := asm.Assemble([]asm.InstructionInput{
		{Name: "inst_a", Moves: []asm.MoveInput{{Target: "A", Source: mc.Const(1)}}},
		{Name: "inst_b", Moves: []asm.MoveInput{{Target: "A", Source: mc.Const(2)}}},
	}, "acc", 5)
	if err != nil {
		t.Fatal(err)
	}
	var decodeEdges []fsm.Transition
	for _, tr := range res.Control.Transitions {
		if tr.From == "decode" {
			decodeEdges = append(decodeEdges, tr)
		}
	}
	if len(decodeEdges) != 2 {
		t.Fatalf("decode edges = %v, want 2", decodeEdges)
	}
	if decodeEdges[0].Guard != `opcode = "0"` || decodeEdges[0].To != "inst_a_0" {
		t.Errorf("edge 0 = %+v", decodeEdges[0])
	}
	if decodeEdges[1].Guard != `opcode = "1"` || decodeEdges[1].To != "inst_b_0" {
		t.Errorf("edge 1 = %+v", decodeEdges[1])
	}
}

// store_instruction latches opcode from system_bus on the falling
// clock edge.
func TestAssemble_OpcodeCaptureOnFallingEdge(t *testing.T) {
	res, err := asm.Assemble([]asm.InstructionInput{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	}, "acc", 5)
	if err != nil {
		t.Fatal(err)
	}
	si := res.Control.StateByName("store_instruction")
	if si == nil {
		t.Fatal("missing store_instruction")
	}
	if len(si.FallingEdge) != 1 {
		t.Fatalf("FallingEdge = %v, want 1 assignment", si.FallingEdge)
	}
	a := si.FallingEdge[0]
	if a.Target != "opcode(1 downto 0)" {
		t.Errorf("target = %q, want opcode(1 downto 0)", a.Target)
	}
	if a.Value != "system_bus(7 downto 6)" {
		t.Errorf("value = %q, want system_bus(7 downto 6)", a.Value)
	}
}

// Opcode width is ceil(log2(N)) and opcodes are distinct, zero-padded,
// and assigned in declaration order, for any instruction count the
// assembler accepts.
func TestAssemble_OpcodesAreDistinctAndDensePerDeclarationOrder(t *testing.T) {
	prop := func(spread uint8) bool {
		n := int(spread%32) + 1 // keep the count in a cheap, always-valid range

		var instrs []asm.InstructionInput
		for i := 0; i < n; i++ {
			instrs = append(instrs, asm.InstructionInput{Name: "i" + itoa(i)})
		}
		res, err := asm.Assemble(instrs, "acc", 5)
		if err != nil {
			t.Logf("n=%d: %v", n, err)
			return false
		}

		guards := make(map[string]string)
		for _, tr := range res.Control.Transitions {
			if tr.From == "decode" {
				guards[tr.To] = tr.Guard
			}
		}
		width := 1
		for 1<<width < n {
			width++
		}
		seen := make(map[string]bool)
		for i := 0; i < n; i++ {
			name := "i" + itoa(i) + "_0"
			g, ok := guards[name]
			if !ok {
				t.Logf("n=%d: no guard for %s", n, name)
				return false
			}
			lit := strings.TrimPrefix(g, `opcode = "`)
			lit = strings.TrimSuffix(lit, `"`)
			if want := fmt.Sprintf("%0*b", width, i); lit != want {
				t.Logf("n=%d: opcode of %s = %q, want %q", n, name, lit, want)
				return false
			}
			if seen[lit] {
				t.Logf("n=%d: duplicate opcode literal %q", n, lit)
				return false
			}
			seen[lit] = true
		}
		return true
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Error(err)
	}
}

// Every non-decode state has a populated unconditional successor; the
// last state of each instruction chain returns to fetch.
func TestAssemble_InstructionChainsReturnToFetch(t *testing.T) {
	res, err := asm.Assemble([]asm.InstructionInput{
		{Name: "two_step", Moves: []asm.MoveInput{
			{Target: "A", Source: mc.ALU{Op: mc.OpAdd, A: mc.Reg("A"), B: mc.Reg("B")}},
		}},
	}, "acc", 5)
	if err != nil {
		t.Fatal(err)
	}
	nextOf := make(map[string]string)
	for _, tr := range res.Control.Transitions {
		if tr.Guard == "" {
			nextOf[tr.From] = tr.To
		}
	}
	for _, s := range res.Control.States {
		if s.Name == "decode" {
			continue
		}
		if _, ok := nextOf[s.Name]; !ok {
			t.Errorf("state %s has no unconditional successor", s.Name)
		}
	}
	if nextOf["two_step_2"] != "fetch" {
		t.Errorf("two_step_2 -> %s, want fetch", nextOf["two_step_2"])
	}
}

// The structural top instantiates exactly one control_unit and passes
// control signals in the same order they are declared on the FSM.
func TestAssemble_TopWiresControlUnitSignalsInFSMOrder(t *testing.T) {
	res, err := asm.Assemble([]asm.InstructionInput{
		{Name: "load", Moves: []asm.MoveInput{{Target: "A", Source: mc.Reg("MD")}}},
	}, "acc", 5)
	if err != nil {
		t.Fatal(err)
	}
	var controlUnits []string
	for _, inst := range res.Top.Architecture.Instances {
		if inst.Component == "control_unit" {
			controlUnits = append(controlUnits, inst.Label)
		}
	}
	if len(controlUnits) != 1 {
		t.Fatalf("control_unit instances = %v, want exactly 1", controlUnits)
	}

	var fsmSignalOrder []string
	for _, p := range res.Control.Ports {
		if p.Dir == "out" && p.Type == "std_logic" {
			fsmSignalOrder = append(fsmSignalOrder, p.Name)
		}
	}

	var inst = res.Top.Architecture.Instances[len(res.Top.Architecture.Instances)-1]
	if inst.Component != "control_unit" {
		t.Fatalf("expected last instance to be control_unit, got %s", inst.Component)
	}
	got := inst.Actuals[4:] // skip clock, reset, system_bus, alu_operation
	if len(got) != len(fsmSignalOrder) {
		t.Fatalf("actuals = %v, want %v", got, fsmSignalOrder)
	}
	for i := range got {
		if got[i] != fsmSignalOrder[i] {
			t.Fatalf("actuals = %v, want %v", got, fsmSignalOrder)
		}
	}
}

func TestAssemble_DuplicateInstructionName(t *testing.T) {
	_, err := asm.Assemble([]asm.InstructionInput{
		{Name: "dup"}, {Name: "dup"},
	}, "acc", 5)
	if err == nil {
		t.Fatal("expected error for duplicate instruction name")
	}
}

func TestAssemble_NoInstructions(t *testing.T) {
	_, err := asm.Assemble(nil, "acc", 5)
	if err == nil {
		t.Fatal("expected error for zero instructions")
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
