package camunda

import "sort"

// Variable names written by this service.
const (
	VariableTaskState = "taskState"
)

// Variable is a typed process or task variable as the engine serialises it.
type Variable struct {
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

func StringVariable(v string) Variable {
	return Variable{Value: v, Type: "String"}
}

func BooleanVariable(v bool) Variable {
	return Variable{Value: v, Type: "Boolean"}
}

// Variables is an immutable set of variable modifications. With returns a new
// set; the receiver is never changed, so a value can be shared freely.
type Variables struct {
	entries map[string]Variable
}

func NewVariables() Variables {
	return Variables{}
}

func (v Variables) With(name string, value Variable) Variables {
	next := make(map[string]Variable, len(v.entries)+1)
	for k, e := range v.entries {
		next[k] = e
	}
	next[name] = value
	return Variables{entries: next}
}

func (v Variables) Len() int {
	return len(v.entries)
}

func (v Variables) Get(name string) (Variable, bool) {
	e, ok := v.entries[name]
	return e, ok
}

// Names returns the variable names in sorted order.
func (v Variables) Names() []string {
	names := make([]string, 0, len(v.entries))
	for k := range v.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy suitable for encoding.
func (v Variables) Map() map[string]Variable {
	out := make(map[string]Variable, len(v.entries))
	for k, e := range v.entries {
		out[k] = e
	}
	return out
}

// TaskStateUpdate is the local variable modification moving a task to state.
func TaskStateUpdate(state string) Variables {
	return NewVariables().With(VariableTaskState, StringVariable(state))
}

// StringValue reads a string variable, reporting false when absent or not a string.
func StringValue(vars map[string]Variable, name string) (string, bool) {
	v, ok := vars[name]
	if !ok {
		return "", false
	}
	s, ok := v.Value.(string)
	return s, ok
}
