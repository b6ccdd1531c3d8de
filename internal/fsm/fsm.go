// Package fsm represents a Moore/hybrid finite state machine (the control
// unit) and lowers it to a vhdl.File: one architecture with a clocked
// state-register process and a combinational output process.
//
// Package fsm knows nothing about instructions, registers or microcode; it
// is handed an already-assembled set of states, transitions, constants and
// ports by package asm.
package fsm

import (
	"github.com/hwgen/rtlc/vhdl"
	"github.com/pkg/errors"
)

// StateDef is one state of the machine: the assignments that hold while
// current_state equals this state (the Moore outputs), plus any
// assignments that should additionally be latched on the falling clock
// edge (used for the opcode capture in store_instruction).
type StateDef struct {
	Name        string
	Assigns     []vhdl.Assign
	FallingEdge []vhdl.Assign
}

// Transition is one edge of the machine, evaluated in declaration order on
// the rising clock edge. Guard == "" marks an unconditional edge.
type Transition struct {
	From, To, Guard string
}

// Machine is the control-FSM IR.
type Machine struct {
	EntityName string
	Ports      []vhdl.Port
	Signals    []vhdl.Signal
	Constants  []vhdl.Constant

	States      []*StateDef
	Transitions []Transition

	ResetTarget  string
	ResetAssigns []vhdl.Assign
}

// StateByName returns the state named n, or nil.
func (m *Machine) StateByName(n string) *StateDef {
	for _, s := range m.States {
		if s.Name == n {
			return s
		}
	}
	return nil
}

// BuildFile lowers m into a complete VHDL file: the entity declares m's
// ports, the architecture declares the state enumeration, m's internal
// signals and constants, and the two processes.
func (m *Machine) BuildFile() (*vhdl.File, error) {
	if len(m.States) == 0 {
		return nil, errors.New("fsm: machine has no states")
	}
	if m.StateByName(m.ResetTarget) == nil {
		return nil, errors.Errorf("fsm: reset target %q is not a declared state", m.ResetTarget)
	}

	names := make([]string, len(m.States))
	for i, s := range m.States {
		names[i] = s.Name
	}

	arch := &vhdl.Architecture{
		Name:   "behavior",
		Entity: m.EntityName,
		EnumTypes: []vhdl.EnumType{
			{Name: "state_type", Values: names},
		},
		Signals:   append([]vhdl.Signal{{Name: "current_state", Type: "state_type"}}, m.Signals...),
		Constants: m.Constants,
	}

	clocked, err := m.clockedProcess()
	if err != nil {
		return nil, err
	}
	arch.Processes = append(arch.Processes, clocked, m.outputProcess())

	return &vhdl.File{
		Entity: &vhdl.Entity{Name: m.EntityName, Ports: m.Ports},
		Architecture: arch,
	}, nil
}

func (m *Machine) clockedProcess() (vhdl.Process, error) {
	resetBody := append([]vhdl.Stmt{
		vhdl.Assign{Target: "current_state", Value: m.ResetTarget},
	}, toStmts(m.ResetAssigns)...)

	transitionCase := vhdl.CaseStatement{Expr: "current_state"}
	for _, s := range m.States {
		body, err := m.transitionBody(s.Name)
		if err != nil {
			return vhdl.Process{}, err
		}
		transitionCase.Branches = append(transitionCase.Branches, vhdl.CaseBranch{Choice: s.Name, Body: body})
	}
	transitionCase.Branches = append(transitionCase.Branches, vhdl.CaseBranch{Choice: "others", Body: nil})

	body := []vhdl.Stmt{
		vhdl.IfStatement{Branches: []vhdl.IfBranch{
			{Cond: "reset = '1'", Body: resetBody},
			{Cond: "rising_edge(clock)", Body: []vhdl.Stmt{transitionCase}},
		}},
	}

	if fe := m.fallingEdgeCase(); fe != nil {
		body = append(body, vhdl.IfStatement{Branches: []vhdl.IfBranch{
			{Cond: "falling_edge(clock)", Body: []vhdl.Stmt{*fe}},
		}})
	}

	return vhdl.Process{
		Sensitivity: []string{"clock", "reset"},
		Body:        body,
	}, nil
}

func (m *Machine) fallingEdgeCase() *vhdl.CaseStatement {
	var branches []vhdl.CaseBranch
	for _, s := range m.States {
		if len(s.FallingEdge) == 0 {
			continue
		}
		branches = append(branches, vhdl.CaseBranch{Choice: s.Name, Body: toStmts(s.FallingEdge)})
	}
	if len(branches) == 0 {
		return nil
	}
	branches = append(branches, vhdl.CaseBranch{Choice: "others", Body: nil})
	return &vhdl.CaseStatement{Expr: "current_state", Branches: branches}
}

// transitionBody builds the sequential statements that fire on the rising
// clock edge while in state `from`: transitions are tried in declaration
// order, the first whose guard holds (or the unconditional edge) fires.
func (m *Machine) transitionBody(from string) ([]vhdl.Stmt, error) {
	var edges []Transition
	for _, t := range m.Transitions {
		if t.From == from {
			edges = append(edges, t)
		}
	}
	if len(edges) == 0 {
		return nil, nil
	}
	if len(edges) == 1 && edges[0].Guard == "" {
		return []vhdl.Stmt{vhdl.Assign{Target: "current_state", Value: edges[0].To}}, nil
	}
	var branches []vhdl.IfBranch
	for _, e := range edges {
		if e.Guard == "" {
			branches = append(branches, vhdl.IfBranch{Cond: "", Body: []vhdl.Stmt{
				vhdl.Assign{Target: "current_state", Value: e.To},
			}})
			continue
		}
		branches = append(branches, vhdl.IfBranch{Cond: e.Guard, Body: []vhdl.Stmt{
			vhdl.Assign{Target: "current_state", Value: e.To},
		}})
	}
	return []vhdl.Stmt{vhdl.IfStatement{Branches: branches}}, nil
}

func (m *Machine) outputProcess() vhdl.Process {
	c := vhdl.CaseStatement{Expr: "current_state"}
	for _, s := range m.States {
		c.Branches = append(c.Branches, vhdl.CaseBranch{Choice: s.Name, Body: toStmts(s.Assigns)})
	}
	c.Branches = append(c.Branches, vhdl.CaseBranch{Choice: "others", Body: toStmts(m.ResetAssigns)})
	return vhdl.Process{
		Sensitivity: []string{"current_state"},
		Body:        []vhdl.Stmt{c},
	}
}

func toStmts(as []vhdl.Assign) []vhdl.Stmt {
	out := make([]vhdl.Stmt, len(as))
	for i, a := range as {
		out[i] = a
	}
	return out
}
