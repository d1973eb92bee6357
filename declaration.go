package featenc

// Declaration describes one feature to register. Name is required; every other
// field is optional. At most one of Values, ValueSet, ValuesFile and Range may
// be given.
type Declaration struct {
	// Name uniquely identifies the feature within the engine.
	Name string

	// Kind is the declared value type, parsed case-insensitively on its first
	// three characters ("boo", "int", "num", "cat"). Empty means categorical.
	Kind string

	// Values is an explicit ordered value domain. Order is significant: it
	// fixes numeric category numbers and one-hot vector positions.
	Values []any

	// ValueSet is an explicit unordered value domain, used for membership
	// only. Features with a ValueSet cannot be binary-encoded and get
	// arbitrary (but per-engine stable) numeric category numbers.
	ValueSet map[any]struct{}

	// ValuesFile names a text file holding one acceptable value per line.
	// Lines are stripped of their trailing newline and nothing else; a blank
	// line declares the empty string as a value. A path that does not open
	// directly is retried relative to the directory given with WithBaseDir.
	ValuesFile string

	// Range is a closed numeric interval "lo..hi" (two or more dots), legal
	// for integer and numeric kinds only. The lower bound must be strictly
	// below the upper. Integer kind enumerates the range into an ordered
	// value domain; numeric kind keeps the bounds for validation only.
	Range string

	// Default is substituted when an evaluated value falls outside the
	// declared domain or range. Declaring a default without a domain or range
	// is an error.
	Default any

	// Format overrides the call-level output format for this feature.
	Format string

	// Fn is the evaluator. When nil, the evaluator is resolved by name: FnName
	// if set, else Name, searched in the engine's function table and then the
	// package-level table.
	Fn     FeatureFunc
	FnName string

	// Postprocess transforms the validated value under normal format. When
	// nil and PostprocessName is set, the function is resolved by name.
	Postprocess     PostprocessFunc
	PostprocessName string

	// Mapping is an explicit category→number mapping, trusted as-is. A value
	// missing from an explicit mapping at evaluation time is a hard failure.
	Mapping map[any]int
}
