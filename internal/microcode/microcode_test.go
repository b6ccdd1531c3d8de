package microcode_test

import (
	"testing"

	mc "github.com/hwgen/rtlc/internal/microcode"
)

func assertSignals(t *testing.T, s *mc.State, want ...string) {
	t.Helper()
	if len(s.Signals) != len(want) {
		t.Fatalf("signals = %v, want %v", s.Signals, want)
	}
	for _, w := range want {
		if !s.Asserts(w) {
			t.Fatalf("signals = %v, missing %q", s.Signals, w)
		}
	}
}

func Test_Lower_constant(t *testing.T) {
	states, err := mc.Lower(mc.Move{Target: "A", Source: mc.Const(7)})
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 {
		t.Fatalf("len(states) = %d, want 1", len(states))
	}
	s := states[0]
	assertSignals(t, s, "wr_A")
	if s.Constant == nil || *s.Constant != 7 {
		t.Fatalf("constant = %v, want 7", s.Constant)
	}
	if s.ALUOp != nil {
		t.Fatalf("ALUOp = %v, want nil", s.ALUOp)
	}
}

func Test_Lower_constant_out_of_range(t *testing.T) {
	if _, err := mc.Lower(mc.Move{Target: "A", Source: mc.Const(256)}); err == nil {
		t.Fatal("expected error for out-of-range constant")
	}
	if _, err := mc.Lower(mc.Move{Target: "A", Source: mc.Const(-1)}); err == nil {
		t.Fatal("expected error for out-of-range constant")
	}
}

func Test_Lower_register(t *testing.T) {
	states, err := mc.Lower(mc.Move{Target: "A", Source: mc.Reg("pc")})
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 {
		t.Fatalf("len(states) = %d, want 1", len(states))
	}
	s := states[0]
	assertSignals(t, s, "wr_A", "rd_pc")
	if s.Constant != nil {
		t.Fatalf("constant = %v, want nil", s.Constant)
	}
}

func Test_Lower_alu_binary(t *testing.T) {
	states, err := mc.Lower(mc.Move{
		Target: "A",
		Source: mc.ALU{Op: mc.OpAdd, A: mc.Reg("A"), B: mc.Reg("B")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 3 {
		t.Fatalf("len(states) = %d, want 3", len(states))
	}
	assertSignals(t, states[0], "rd_A", "wr_alu_a")
	if states[0].ALUOp == nil || *states[0].ALUOp != mc.OpAdd {
		t.Fatalf("states[0].ALUOp = %v, want OpAdd", states[0].ALUOp)
	}
	assertSignals(t, states[1], "wr_alu_b", "rd_B")
	if states[1].ALUOp != nil {
		t.Fatalf("states[1].ALUOp = %v, want nil", states[1].ALUOp)
	}
	assertSignals(t, states[2], "rd_alu", "wr_A")
	if states[2].ALUOp == nil || *states[2].ALUOp != mc.OpAdd {
		t.Fatalf("states[2].ALUOp = %v, want OpAdd", states[2].ALUOp)
	}
}

func Test_Lower_alu_complement(t *testing.T) {
	states, err := mc.Lower(mc.Move{
		Target: "A",
		Source: mc.ALU{Op: mc.OpComplement, A: mc.Reg("A")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 2 {
		t.Fatalf("len(states) = %d, want 2 (no B operand)", len(states))
	}
	assertSignals(t, states[0], "rd_A", "wr_alu_a")
	assertSignals(t, states[1], "rd_alu", "wr_A")
}

func Test_Lower_alu_constant_first_operand(t *testing.T) {
	// A constant first ALU operand drives the bus directly and never emits
	// a meaningless rd_<const> signal.
	states, err := mc.Lower(mc.Move{
		Target: "A",
		Source: mc.ALU{Op: mc.OpAdd, A: mc.Const(3), B: mc.Reg("B")},
	})
	if err != nil {
		t.Fatal(err)
	}
	assertSignals(t, states[0], "wr_alu_a")
	if states[0].Constant == nil || *states[0].Constant != 3 {
		t.Fatalf("constant = %v, want 3", states[0].Constant)
	}
}

func Test_ALUOp_Code(t *testing.T) {
	cases := []struct {
		op   mc.ALUOp
		code string
	}{
		{mc.OpComplement, "101"},
		{mc.OpAdd, "010"},
		{mc.OpSubtract, "110"},
	}
	for _, c := range cases {
		if got := c.op.Code(); got != c.code {
			t.Errorf("%v.Code() = %q, want %q", c.op, got, c.code)
		}
	}
}

func Test_WriteReadSignal(t *testing.T) {
	if got := mc.WriteSignal("A"); got != "wr_A" {
		t.Errorf("WriteSignal(A) = %q, want wr_A", got)
	}
	if got := mc.ReadSignal("pc"); got != "rd_pc" {
		t.Errorf("ReadSignal(pc) = %q, want rd_pc", got)
	}
}
