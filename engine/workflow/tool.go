package workflow

// Kind identifies the transformation a tool performs.
type Kind string

const (
	KindSelect Kind = "Select"
	KindFilter Kind = "Filter"
)

// FieldSpec describes one field entry of a Select tool.
type FieldSpec struct {
	Name     string
	Selected bool
	Rename   string
}

// OutputName returns the effective column name the field produces.
func (f FieldSpec) OutputName() string {
	if f.Rename != "" {
		return f.Rename
	}
	return f.Name
}

// Tool is one step of a workflow. Execution order is ascending ID, not the
// order the node appears in the source markup.
type Tool struct {
	ID   int
	Kind Kind
	// RawMarkup holds the tool's serialized XML node. It is embedded verbatim
	// into translation prompts so the capability sees the literal definition.
	RawMarkup string

	// Fields is populated for Select tools.
	Fields []FieldSpec
	// Expression is populated for Filter tools.
	Expression string
}
