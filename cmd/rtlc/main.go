// Command rtlc builds a small demo accumulator computer through the rtlc
// DSL facade and writes its generated VHDL to ./acc/.
package main

import (
	"log"

	"github.com/hwgen/rtlc"
)

func main() {
	c := rtlc.NewComputer("acc").AddressWidth(6)

	c.Instruction("load").
		Move(rtlc.A, rtlc.Reg(rtlc.MD))

	c.Instruction("load_imm").
		Move(rtlc.A, rtlc.Const(0))

	c.Instruction("add").
		Move(rtlc.A, rtlc.Add(rtlc.Reg(rtlc.A), rtlc.Reg(rtlc.MD)))

	c.Instruction("not").
		Move(rtlc.A, rtlc.Complement(rtlc.Reg(rtlc.A)))

	c.Instruction("store").
		Move(rtlc.MD, rtlc.Reg(rtlc.A))

	c.Instruction("jump").
		Move(rtlc.PC, rtlc.Reg(rtlc.MD))

	if err := c.Generate(); err != nil {
		log.Fatal(err)
	}
}
