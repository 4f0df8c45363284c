package ir

// ComputeFreeVars computes the free names of a function body, following
// the reverse-instruction-order algorithm: within each block, instructions
// are visited last-to-first so that a let-bound name is removed from the
// live set only after its definition's own uses have been added — the
// binding does not scope over its own right-hand side. Nested closure
// allocations contribute their own already-computed FreeNames rather than
// reopening their bodies (captures-of-captures propagate transitively).
// Finally the function's own name (self-reference) and its parameters are
// subtracted.
func ComputeFreeVars(program *Program, funcName string, params []string, entry TargetAddress) []string {
	c := &freeVarCollector{program: program, free: make(map[string]struct{})}
	c.collectBlock(entry.Function, entry.Block)

	delete(c.free, funcName)
	for _, p := range params {
		delete(c.free, p)
	}

	names := make([]string, 0, len(c.free))
	for name := range c.free {
		names = append(names, name)
	}
	return names
}

type freeVarCollector struct {
	program *Program
	free    map[string]struct{}
}

func (c *freeVarCollector) collectBlock(functionIndex, blockIndex int) {
	block := c.program.Functions[functionIndex].Blocks[blockIndex]

	for i := len(block.Instructions) - 1; i >= 0; i-- {
		switch inst := block.Instructions[i].(type) {
		case EnterBlock:
			// nothing to do
		case ExitBlock:
			c.collectVar(inst.Result)
		case Assignment:
			// Order matters: the left-hand side does not scope over its own
			// right-hand side, so it is removed only after the definition's
			// uses have been added.
			delete(c.free, inst.Name)
			c.collectDefinition(inst.Definition)
		}
	}
}

func (c *freeVarCollector) collectDefinition(def Definition) {
	switch d := def.(type) {
	case VarDefinition:
		c.collectVar(d.Ref)
	case StepDefinition:
		c.collectStep(d.Step)
	}
}

func (c *freeVarCollector) collectStep(step Step) {
	switch s := step.(type) {
	case LiteralStep:
		// no variables
	case ClosureStep:
		for _, name := range s.FreeNames {
			c.free[name] = struct{}{}
		}
	case BinOpStep:
		c.collectVar(s.Lhs)
		c.collectVar(s.Rhs)
	case TupleStep:
		for _, ref := range s.Args {
			c.collectVar(ref)
		}
	case SetStep:
		c.collectVar(s.Tuple)
		c.collectVar(s.NewValue)
	case CallStep:
		c.collectVar(s.Func)
		for _, ref := range s.Args {
			c.collectVar(ref)
		}
	case IfStep:
		c.collectVar(s.Condition)
		c.collectBlock(s.BranchSuccess.Function, s.BranchSuccess.Block)
		c.collectBlock(s.BranchFailure.Function, s.BranchFailure.Block)
	}
}

func (c *freeVarCollector) collectVar(ref VariableReference) {
	c.free[ref.Name] = struct{}{}
}
