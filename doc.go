/*
Package rtlc provides the necessary tools to describe a simple
accumulator-style computer as a set of register-transfer-level
instructions, and to compile that description into synthesizable VHDL-93
for a microcoded control unit and the structural top-level entity that
wires it to a fixed datapath (program counter, instruction register,
accumulator, RAM and ALU) over a tri-stated system bus.

The API is designed to mimic a small hardware description language built
out of Go values rather than blocks: a Computer accumulates Instructions,
each built from a sequence of register-transfer Moves, and Generate (or
GenerateTo) drives the lowering/assembly/emission pipeline that turns the
whole thing into two VHDL files.
*/
package rtlc
