package elements

// Level selects how much of the requiredness rule set the validator enforces.
type Level int

const (
	LevelRequired  Level = iota // All requiredness rules (default).
	LevelEssential              // Only rules the schema marks critical.
	LevelNothing                // Skip every check; mutation flags still apply.
)

// MutateOpt bundles the flags that permit the validator to change the tree or
// reshape its output. The zero value disables everything; DefaultMutateOpt
// returns the standard behavior.
type MutateOpt struct {
	KeepTrees       bool // Leave embedded trees in place instead of their rendered form.
	WrapElements    bool // Wrap the validated result in an "Element" container.
	FlattenSingle   bool // Unwrap a one-element result from its list.
	MutateEmbedded  bool // Let the mutation flags reach embedded trees.
	DefaultOnInsert bool // Apply schema defaults when the action is insert.
	DefaultOnUpdate bool // Apply schema defaults when the action is update.
	Reformat        bool // Trim surrounding whitespace from string fields.
	GenericMutation bool // Reserved extension point; no built-in effect.
}

// DefaultMutateOpt returns the default mutation behavior: flatten single
// elements, mutate embedded trees, default on insert, and trim strings.
func DefaultMutateOpt() MutateOpt {
	return MutateOpt{
		FlattenSingle:   true,
		MutateEmbedded:  true,
		DefaultOnInsert: true,
		Reformat:        true,
	}
}

// ValidateOpt configures validation strictness. The zero value is the
// default: full requiredness and unknown keys rejected.
type ValidateOpt struct {
	Level        Level
	AllowUnknown bool // Accept fields/references absent from the schema.
}

// BuildOpt configures normalization. The zero value is the default: raw keys
// the schema does not declare fail with unmapped_fields.
type BuildOpt struct {
	// AllowUnknown keeps undeclared raw keys as-is in Fields instead of
	// failing; the validator can still reject them later.
	AllowUnknown bool
}

// Format selects the serialization target.
type Format int

const (
	FormatJSON Format = iota
	FormatXML
)

// RenderOpt bundles rendering options. Mutate nil means DefaultMutateOpt.
type RenderOpt struct {
	Pretty   bool
	Indent   string // Indentation unit when Pretty; defaults to two spaces.
	Mutate   *MutateOpt
	Validate ValidateOpt
}

func (o RenderOpt) mutate() MutateOpt {
	if o.Mutate != nil {
		return *o.Mutate
	}
	return DefaultMutateOpt()
}

func (o RenderOpt) indent() string {
	if o.Indent == "" {
		return "  "
	}
	return o.Indent
}
