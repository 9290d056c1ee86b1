package katex

// Namespace is a scoped macro table. Built-in macros live in the shared
// context and are never written to, definitions made during a render go
// to the current map, and every group remembers what to restore on exit.
type Namespace struct {
	builtins map[string]Macro
	current  map[string]Macro
	undefs   []map[string]Macro
}

func NewNamespace(builtins map[string]Macro, globals map[string]Macro) *Namespace {
	current := make(map[string]Macro, len(globals))
	for name, m := range globals {
		current[name] = m
	}

	return &Namespace{builtins: builtins, current: current}
}

func (n *Namespace) BeginGroup() {
	n.undefs = append(n.undefs, map[string]Macro{})
}

func (n *Namespace) EndGroup() error {
	if len(n.undefs) == 0 {
		return &ParseError{Kind: ErrUnbalancedGroup, Msg: "Unbalanced namespace destruction: attempt to pop global namespace"}
	}

	undefs := n.undefs[len(n.undefs)-1]
	n.undefs = n.undefs[:len(n.undefs)-1]

	for name, m := range undefs {
		if m == nil {
			delete(n.current, name)
		} else {
			n.current[name] = m
		}
	}

	return nil
}

// EndGroups closes all open groups, used when the parser bails out.
func (n *Namespace) EndGroups() {
	for len(n.undefs) > 0 {
		_ = n.EndGroup()
	}
}

func (n *Namespace) Has(name string) bool {
	if _, ok := n.current[name]; ok {
		return true
	}

	_, ok := n.builtins[name]
	return ok
}

func (n *Namespace) Get(name string) Macro {
	if m, ok := n.current[name]; ok {
		return m
	}

	return n.builtins[name]
}

// Set defines the macro in the current group, or in all groups when global is set.
// A nil macro undefines the name.
func (n *Namespace) Set(name string, m Macro, global bool) {
	if global {
		// drop the restore points, the definition survives every group
		for _, undefs := range n.undefs {
			delete(undefs, name)
		}

		if len(n.undefs) > 0 {
			n.undefs[len(n.undefs)-1][name] = m
		}
	} else if len(n.undefs) > 0 {
		top := n.undefs[len(n.undefs)-1]
		if _, ok := top[name]; !ok {
			top[name] = n.current[name]
		}
	}

	if m == nil {
		delete(n.current, name)
	} else {
		n.current[name] = m
	}
}
