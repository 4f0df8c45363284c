package ir

import (
	"fmt"
	"strings"
)

// Printer renders a normalized Program back to a readable instruction
// listing, used by tests asserting on normalization output.
type Printer struct {
	output strings.Builder
}

// NewPrinter creates an empty Printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Print renders program in full.
func Print(program *Program) string {
	p := NewPrinter()
	p.printProgram(program)
	return p.output.String()
}

func (p *Printer) write(format string, args ...interface{}) {
	p.output.WriteString(fmt.Sprintf(format, args...))
}

func (p *Printer) printProgram(program *Program) {
	p.write("program\n")
	for i, fn := range program.Functions {
		p.write("begin function %d (%s)\n", i, fn.Name)
		p.printFunction(fn)
		p.write("end function %d\n\n", i)
	}
}

func (p *Printer) printFunction(fn *Function) {
	for i, block := range fn.Blocks {
		p.write("  begin block %d\n", i)
		p.printBlock(block)
		p.write("  end block %d\n", i)
	}
}

func (p *Printer) printBlock(block *Block) {
	if block.ParentBlock != nil {
		p.write("    parent block %d\n", *block.ParentBlock)
	} else {
		p.write("    no parent block\n")
	}
	for _, inst := range block.Instructions {
		p.write("    %s\n", formatInstruction(inst))
	}
}

func formatInstruction(inst Instruction) string {
	switch i := inst.(type) {
	case EnterBlock:
		return "enterblock"
	case ExitBlock:
		return fmt.Sprintf("exitblock(%s)", i.Result.Name)
	case Assignment:
		return fmt.Sprintf("%s = %s", i.Name, formatDefinition(i.Definition))
	default:
		return fmt.Sprintf("<unknown instruction %T>", inst)
	}
}

func formatDefinition(def Definition) string {
	switch d := def.(type) {
	case VarDefinition:
		return d.Ref.Name
	case StepDefinition:
		return formatStep(d.Step)
	default:
		return fmt.Sprintf("<unknown definition %T>", def)
	}
}

func formatStep(step Step) string {
	switch s := step.(type) {
	case LiteralStep:
		return s.Value.String()
	case ClosureStep:
		return fmt.Sprintf("closure(function %d, [%s])", s.FunctionIndex, strings.Join(s.FreeNames, " "))
	case BinOpStep:
		return fmt.Sprintf("%s %s %s", s.Lhs.Name, s.Op, s.Rhs.Name)
	case TupleStep:
		names := make([]string, len(s.Args))
		for i, a := range s.Args {
			names[i] = a.Name
		}
		return fmt.Sprintf("(%s)", strings.Join(names, ", "))
	case SetStep:
		return fmt.Sprintf("%s.%d = %s", s.Tuple.Name, s.Index, s.NewValue.Name)
	case CallStep:
		names := make([]string, len(s.Args))
		for i, a := range s.Args {
			names[i] = a.Name
		}
		return fmt.Sprintf("%s(%s)", s.Func.Name, strings.Join(names, ", "))
	case IfStep:
		return fmt.Sprintf("if %s then %s else %s", s.Condition.Name, s.BranchSuccess, s.BranchFailure)
	default:
		return fmt.Sprintf("<unknown step %T>", step)
	}
}

func (t TargetAddress) String() string {
	return fmt.Sprintf("(%d,%d,%d)", t.Function, t.Block, t.Instruction)
}
