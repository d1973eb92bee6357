// Package featenc evaluates named features over raw data samples and re-encodes
// their outputs for consumption by statistical and ML models.
//
// A feature is a named function deriving one value from a sample. Each feature is
// declared with a kind (categorical, integer, numeric, boolean), an optional value
// domain (an explicit value list, a value file, or a numeric range), an optional
// default, and an optional per-feature output format. Declarations are validated
// once at construction; evaluation then produces output in one of three formats:
//
//   - normal: the feature's native value, optionally postprocessed
//   - numeric: a number — native for numeric/integer/boolean kinds, a category
//     number for categorical kinds
//   - binary: a one-hot vector over the feature's value domain (boolean and
//     range-only numeric kinds emit a single value instead)
//
// # Basic Usage
//
//	eng, err := featenc.New("demo", []featenc.Declaration{
//	    {Name: "length", Kind: "int", Range: "0..5", Fn: length},
//	    {Name: "firstChar", Values: []any{"a", "b", "c"}, Fn: firstChar},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	out, err := eng.Evaluate(ctx, nil, featenc.FormatNumeric, "bar")
//	// out == []any{3, 2}
//
// # Category Mappings
//
// Numeric encoding of a categorical feature needs a category↔number mapping.
// When the feature declares a value domain, the mapping is static and 1-based in
// domain order. Without a domain the mapping is dynamic: each value is assigned
// the next unused number the first time it is seen, and every assignment is
// appended to a mapping file so numbers stay stable across runs. Mapping files
// live in the configured mapping directory, or are searched for in the user
// cache directory, the home directory, and the system temp directory.
//
// Dynamic mapping files are shared external state with no locking. Two processes
// growing the same mapping file concurrently is undefined; run one writer per
// engine identity.
//
// # Soft Failures
//
// A value outside its declared domain or range with no default configured aborts
// the whole Evaluate call: the call returns an empty result and a nil error, and
// the condition is reported on the SignalSampleSkipped side channel. Batch
// pipelines skip the malformed record and keep going. Configuration problems —
// unknown features or formats, incomplete static mappings, mapping-file I/O —
// are hard failures and return errors.
//
// # Function Resolution
//
// A declaration supplies its evaluator directly via Fn, or by name via FnName
// (defaulting to the feature name). Names are resolved first against the
// per-engine table given with WithFuncs, then against the package-level table
// populated by Register. Postprocess functions resolve the same way.
package featenc

// FeatureFunc derives one value from a data sample. The sample is whatever
// arguments the caller passed to Evaluate.
//
// The second return reports whether a value was produced at all. Returning
// (nil, true) or ("", true) is a present value and is validated normally;
// returning ok=false means the feature has no value for this sample and
// triggers the engine's N/A substitution.
type FeatureFunc func(args ...any) (any, bool)

// PostprocessFunc transforms a validated value before emission. Applied only
// under normal format.
type PostprocessFunc func(v any) any
