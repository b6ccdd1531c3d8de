package asm

import "github.com/hwgen/rtlc/vhdl"

// Fixed component port shapes. These are the pre-existing datapath
// primitives (register, program counter, RAM, ALU); only their port
// shapes are needed here to write correct port maps, since their VHDL
// bodies are assumed to already exist.
var (
	regPorts = []vhdl.Port{
		{Name: "clock", Dir: vhdl.In, Type: "std_logic"},
		{Name: "data_in", Dir: vhdl.In, Type: vhdl.Vector(busWidth)},
		{Name: "data_out", Dir: vhdl.Out, Type: vhdl.Vector(busWidth)},
		{Name: "write", Dir: vhdl.In, Type: "std_logic"},
		{Name: "read", Dir: vhdl.In, Type: "std_logic"},
	}
	pcPorts = []vhdl.Port{
		{Name: "clock", Dir: vhdl.In, Type: "std_logic"},
		{Name: "data_in", Dir: vhdl.In, Type: vhdl.Vector(busWidth)},
		{Name: "data_out", Dir: vhdl.Out, Type: vhdl.Vector(busWidth)},
		{Name: "write", Dir: vhdl.In, Type: "std_logic"},
		{Name: "read", Dir: vhdl.In, Type: "std_logic"},
		{Name: "increment", Dir: vhdl.In, Type: "std_logic"},
	}
	aluPorts = []vhdl.Port{
		{Name: "clock", Dir: vhdl.In, Type: "std_logic"},
		{Name: "data_in", Dir: vhdl.In, Type: vhdl.Vector(busWidth)},
		{Name: "data_out", Dir: vhdl.Out, Type: vhdl.Vector(busWidth)},
		{Name: "operation", Dir: vhdl.In, Type: vhdl.Vector(3)},
		{Name: "write_a", Dir: vhdl.In, Type: "std_logic"},
		{Name: "write_b", Dir: vhdl.In, Type: "std_logic"},
		{Name: "read", Dir: vhdl.In, Type: "std_logic"},
	}
)

func ramPorts(addressWidth int) []vhdl.Port {
	return []vhdl.Port{
		{Name: "clock", Dir: vhdl.In, Type: "std_logic"},
		{Name: "data_in", Dir: vhdl.In, Type: vhdl.Vector(busWidth)},
		{Name: "data_out", Dir: vhdl.Out, Type: vhdl.Vector(busWidth)},
		{Name: "address", Dir: vhdl.In, Type: vhdl.Vector(addressWidth)},
		{Name: "write_data", Dir: vhdl.In, Type: "std_logic"},
		{Name: "write_address", Dir: vhdl.In, Type: "std_logic"},
		{Name: "read", Dir: vhdl.In, Type: "std_logic"},
	}
}

func controlUnitPorts(alphabet []string) []vhdl.Port {
	ports := []vhdl.Port{
		{Name: "clock", Dir: vhdl.In, Type: "std_logic"},
		{Name: "reset", Dir: vhdl.In, Type: "std_logic"},
		{Name: "system_bus", Dir: vhdl.InOut, Type: vhdl.Vector(busWidth)},
		{Name: "alu_operation", Dir: vhdl.Out, Type: vhdl.Vector(3)},
	}
	for _, sig := range alphabet {
		ports = append(ports, vhdl.Port{Name: sig, Dir: vhdl.Out, Type: "std_logic"})
	}
	return ports
}

// sigOrGround returns name if it is one of the control signals actually
// asserted somewhere in the program, or the literal '0' otherwise. A
// fixed datapath component always has all its enable pins wired, but a
// given computer description need not exercise every register; unused
// enable pins are grounded instead of left dangling or wired to an
// undeclared signal.
func sigOrGround(name string, alphabet []string) string {
	for _, sig := range alphabet {
		if sig == name {
			return name
		}
	}
	return "'0'"
}

// buildTop constructs the structural top-level entity IR: the fixed
// component declarations, the six fixed instances with their positional
// port maps, and the bus_inspection concurrent assignment.
func buildTop(name string, alphabet []string, addressWidth int) *vhdl.File {
	entity := &vhdl.Entity{
		Name: name,
		Ports: []vhdl.Port{
			{Name: "clock", Dir: vhdl.In, Type: "std_logic"},
			{Name: "reset", Dir: vhdl.In, Type: "std_logic"},
			{Name: "bus_inspection", Dir: vhdl.Out, Type: vhdl.Vector(busWidth)},
		},
	}

	arch := &vhdl.Architecture{
		Name:   "behavior",
		Entity: name,
		Signals: append([]vhdl.Signal{
			{Name: "system_bus", Type: vhdl.Vector(busWidth)},
			{Name: "alu_operation", Type: vhdl.Vector(3)},
		}, signalsFor(alphabet)...),
		Components: []vhdl.Component{
			{Name: "reg", Ports: regPorts},
			{Name: "program_counter", Ports: pcPorts},
			{Name: "ram", Ports: ramPorts(addressWidth)},
			{Name: "alu", Ports: aluPorts},
			{Name: "control_unit", Ports: controlUnitPorts(alphabet)},
		},
	}

	g := func(name string) string { return sigOrGround(name, alphabet) }

	arch.Instances = []vhdl.Instance{
		{Label: "pc", Component: "program_counter", Actuals: []string{
			"clock", "system_bus", "system_bus", g("wr_pc"), g("rd_pc"), g("inc_pc"),
		}},
		{Label: "ir", Component: "reg", Actuals: []string{
			"clock", "system_bus", "system_bus", g("wr_IR"), g("rd_IR"),
		}},
		{Label: "A", Component: "reg", Actuals: []string{
			"clock", "system_bus", "system_bus", g("wr_A"), g("rd_A"),
		}},
		{Label: "main_memory", Component: "ram", Actuals: []string{
			"clock", "system_bus", "system_bus", vhdl.Slice("system_bus", addressWidth-1, 0),
			g("wr_MD"), g("wr_MA"), g("rd_MD"),
		}},
		{Label: "alu0", Component: "alu", Actuals: []string{
			"clock", "system_bus", "system_bus", "alu_operation", g("wr_alu_a"), g("wr_alu_b"), g("rd_alu"),
		}},
		{Label: "control0", Component: "control_unit", Actuals: append([]string{
			"clock", "reset", "system_bus", "alu_operation",
		}, alphabet...)},
	}

	arch.Concurrent = []vhdl.Assign{{Target: "bus_inspection", Value: "system_bus"}}

	return &vhdl.File{Entity: entity, Architecture: arch}
}

func signalsFor(alphabet []string) []vhdl.Signal {
	out := make([]vhdl.Signal, len(alphabet))
	for i, sig := range alphabet {
		out[i] = vhdl.Signal{Name: sig, Type: "std_logic"}
	}
	return out
}
