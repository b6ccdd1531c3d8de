package vhdl

import (
	"fmt"
	"io"
	"strings"
)

// String renders f as VHDL-93 source text.
func (f *File) String() string {
	var b strings.Builder
	// Print only fails on the underlying writer; strings.Builder never
	// returns an error, so this can't happen in practice.
	_ = Print(&b, f)
	return b.String()
}

// Print renders f to w as VHDL-93 source text: the ieee prelude, the
// entity block, and the architecture block with its declarations and body.
func Print(w io.Writer, f *File) error {
	p := &printer{w: w}
	p.printf("library ieee;\n")
	p.printf("use ieee.std_logic_1164.all;\n\n")
	p.printEntity(f.Entity)
	p.printf("\n")
	p.printArchitecture(f.Architecture)
	return emissionError(p.err)
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, err := fmt.Fprintf(p.w, format, args...)
	if err != nil {
		p.err = err
	}
}

func (p *printer) printEntity(e *Entity) {
	p.printf("entity %s is\n", e.Name)
	if len(e.Ports) > 0 {
		p.printf("    port (\n")
		for i, port := range e.Ports {
			sep := ";"
			if i == len(e.Ports)-1 {
				sep = ""
			}
			p.printf("        %s : %s %s%s\n", port.Name, port.Dir, port.Type, sep)
		}
		p.printf("    );\n")
	}
	p.printf("end %s;\n", e.Name)
}

func (p *printer) printArchitecture(a *Architecture) {
	name := a.Name
	if name == "" {
		name = "behavior"
	}
	p.printf("architecture %s of %s is\n", name, a.Entity)

	for _, t := range a.EnumTypes {
		p.printf("    type %s is (%s);\n", t.Name, strings.Join(t.Values, ", "))
	}
	for _, s := range a.Signals {
		p.printf("    signal %s : %s;\n", s.Name, s.Type)
	}
	for _, c := range a.Constants {
		p.printf("    constant %s : %s := %s;\n", c.Name, c.Type, c.Value)
	}
	for _, c := range a.Components {
		p.printf("    component %s\n", c.Name)
		p.printf("        port (\n")
		for i, port := range c.Ports {
			sep := ";"
			if i == len(c.Ports)-1 {
				sep = ""
			}
			p.printf("            %s : %s %s%s\n", port.Name, port.Dir, port.Type, sep)
		}
		p.printf("        );\n")
		p.printf("    end component;\n")
	}

	p.printf("begin\n")
	for _, inst := range a.Instances {
		p.printf("    %s : %s port map (%s);\n", inst.Label, inst.Component, strings.Join(inst.Actuals, ", "))
	}
	for _, asn := range a.Concurrent {
		p.printf("    %s <= %s;\n", asn.Target, asn.Value)
	}
	for _, proc := range a.Processes {
		p.printProcess(proc)
	}
	p.printf("end %s;\n", name)
}

func (p *printer) printProcess(proc Process) {
	if proc.Label != "" {
		p.printf("    %s: process(%s)\n", proc.Label, strings.Join(proc.Sensitivity, ", "))
	} else {
		p.printf("    process(%s)\n", strings.Join(proc.Sensitivity, ", "))
	}
	p.printf("    begin\n")
	p.printStmts(proc.Body, 2)
	p.printf("    end process;\n")
}

func (p *printer) printStmts(stmts []Stmt, depth int) {
	ind := strings.Repeat("    ", depth)
	for _, s := range stmts {
		switch st := s.(type) {
		case Assign:
			p.printf("%s%s <= %s;\n", ind, st.Target, st.Value)
		case IfStatement:
			p.printIf(st, depth)
		case CaseStatement:
			p.printCase(st, depth)
		default:
			p.err = fmt.Errorf("vhdl: unknown statement type %T", st)
		}
	}
}

func (p *printer) printIf(st IfStatement, depth int) {
	ind := strings.Repeat("    ", depth)
	for i, br := range st.Branches {
		switch {
		case i == 0:
			p.printf("%sif %s then\n", ind, br.Cond)
		case br.Cond == "":
			p.printf("%selse\n", ind)
		default:
			p.printf("%selsif %s then\n", ind, br.Cond)
		}
		p.printStmts(br.Body, depth+1)
	}
	p.printf("%send if;\n", ind)
}

func (p *printer) printCase(st CaseStatement, depth int) {
	ind := strings.Repeat("    ", depth)
	p.printf("%scase %s is\n", ind, st.Expr)
	for _, br := range st.Branches {
		p.printf("%s    when %s =>\n", ind, br.Choice)
		if len(br.Body) == 0 {
			p.printf("%s        null;\n", ind)
			continue
		}
		p.printStmts(br.Body, depth+2)
	}
	p.printf("%send case;\n", ind)
}
