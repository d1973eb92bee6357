package featenc

import (
	"context"
	"errors"
	"time"
)

// Engine evaluates registered features and encodes their outputs. Built once
// from a static declaration list; read-only afterwards except for the
// descriptor mapping caches, which grow lazily and are reused across calls.
//
// An Engine is not safe for concurrent Evaluate calls: evaluation is
// single-threaded and synchronous, and dynamic mapping files are appended
// without locking.
type Engine struct {
	name string
	cfg  config
	reg  *registry
}

// New builds an engine from an ordered declaration list. The name identifies
// the engine's persisted state: dynamic mapping filenames are derived from it.
// Any malformed or contradictory declaration fails construction outright.
func New(name string, decls []Declaration, opts ...Option) (*Engine, error) {
	if name == "" {
		return nil, errors.New("featenc: engine name required")
	}
	if len(decls) == 0 {
		return nil, errors.New("featenc: at least one declaration required")
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	reg, err := buildRegistry(decls, &cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{name: name, cfg: cfg, reg: reg}
	emitEngineCreated(context.Background(), name, len(reg.order))
	return e, nil
}

// Features returns the declared feature names in declaration order.
func (e *Engine) Features() []string {
	out := make([]string, len(e.reg.order))
	copy(out, e.reg.order)
	return out
}

// Close releases the dynamic mapping file handles held by the engine.
func (e *Engine) Close() error {
	var errs []error
	for _, name := range e.reg.order {
		d := e.reg.byName[name]
		if d.mapFile != nil {
			if err := d.mapFile.Close(); err != nil {
				errs = append(errs, err)
			}
			d.mapFile = nil
		}
	}
	return errors.Join(errs...)
}

// Evaluate invokes the selected features against the sample arguments and
// returns their encoded outputs in selection order. A nil or empty feature
// list selects all features in declaration order.
//
// Binary format can return more values than features selected: one value per
// domain position for one-hot encoded features. A validation failure (value
// outside its domain or range, no default) is soft: the call reports it on
// SignalSampleSkipped and returns (nil, nil) so batch callers can skip the
// record. Configuration problems return errors.
func (e *Engine) Evaluate(ctx context.Context, features []string, format Format, args ...any) ([]any, error) {
	if !IsValidFormat(format) {
		return nil, newEvalError(ErrUnknownFormat, "", string(format))
	}

	selected := features
	if len(selected) == 0 {
		selected = e.reg.order
	}
	descs := make([]*descriptor, len(selected))
	for i, name := range selected {
		d, ok := e.reg.byName[name]
		if !ok {
			return nil, newEvalError(ErrUnknownFeature, name, nil)
		}
		descs[i] = d
	}

	start := time.Now()
	emitEvaluateStart(ctx, e.name, format, len(descs))

	var retErr error
	var out []any
	defer func() {
		emitEvaluateComplete(ctx, e.name, format, len(out), time.Since(start), retErr)
	}()

	// Materialize every required mapping before any evaluator runs.
	for _, d := range descs {
		if err := e.ensureMapping(ctx, d, format); err != nil {
			retErr = err
			return nil, err
		}
	}

	for _, d := range descs {
		effective := d.effectiveFormat(format)

		raw, ok := d.fn(args...)
		if !ok {
			// Absence is distinct from a falsy value: only a false comma-ok
			// reaches this path.
			if !e.cfg.hasNA {
				emitSampleSkipped(ctx, e.name, &skipError{feature: d.name, reason: "no value produced"})
				return nil, nil
			}
			vals, err := e.naValues(d, effective)
			if err != nil {
				retErr = err
				return nil, err
			}
			out = append(out, vals...)
			continue
		}

		vals, err := e.encode(ctx, d, effective, raw)
		if err != nil {
			var skip *skipError
			if errors.As(err, &skip) {
				emitSampleSkipped(ctx, e.name, skip)
				return nil, nil
			}
			retErr = err
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

// naValues emits the configured N/A substitute for a feature that produced no
// value: repeated per one-hot position under binary, single otherwise.
func (e *Engine) naValues(d *descriptor, effective Format) ([]any, error) {
	if effective == FormatBinary && !d.passthrough() {
		if d.vecLen == 0 {
			return nil, newEvalError(ErrDomainRequired, d.name, nil)
		}
		vals := make([]any, d.vecLen)
		for i := range vals {
			vals[i] = e.cfg.na
		}
		return vals, nil
	}
	return []any{e.cfg.na}, nil
}

// encode validates one raw value and renders it in the effective format.
// Returns a *skipError for soft failures.
func (e *Engine) encode(ctx context.Context, d *descriptor, effective Format, raw any) ([]any, error) {
	v, ok := coerceKind(d.kind, raw)
	if !ok {
		return nil, &skipError{feature: d.name, value: raw, reason: "uncoercible value"}
	}

	// Domain membership, or bound checks when only a range was declared.
	if d.member != nil {
		if _, in := d.member[v]; !in {
			if !d.hasDef {
				return nil, &skipError{feature: d.name, value: v, reason: "outside value domain"}
			}
			v = d.def
		}
	} else if d.hasRange {
		f := v.(float64)
		if f < d.lo {
			if !d.hasDef {
				return nil, &skipError{feature: d.name, value: v, reason: "below range"}
			}
			v = d.def
		} else if f > d.hi {
			if !d.hasDef {
				return nil, &skipError{feature: d.name, value: v, reason: "above range"}
			}
			v = d.def
		}
	}

	switch effective {
	case FormatNormal:
		if d.post != nil {
			v = d.post(v)
		}
		return []any{v}, nil

	case FormatNumeric:
		if d.kind != KindCategorical {
			return []any{v}, nil
		}
		if d.staticNum {
			num, found := d.catToNum[v]
			if !found {
				return nil, newEvalError(ErrMissingMapping, d.name, v)
			}
			return []any{num}, nil
		}
		cat := stringify(v)
		if num, found := d.catToNum[cat]; found {
			return []any{num}, nil
		}
		num, err := e.assignCategory(ctx, d, cat)
		if err != nil {
			return nil, err
		}
		return []any{num}, nil

	default: // FormatBinary
		if d.passthrough() {
			return []any{v}, nil
		}
		vec, found := d.catToVec[v]
		if !found {
			return nil, newEvalError(ErrMissingMapping, d.name, v)
		}
		vals := make([]any, len(vec))
		for i, bit := range vec {
			vals[i] = bit
		}
		return vals, nil
	}
}

// DecodeBinary recovers the domain value encoded by a one-hot vector. The
// feature's binary mapping is materialized on demand.
func (e *Engine) DecodeBinary(feature string, vec []int) (any, error) {
	d, ok := e.reg.byName[feature]
	if !ok {
		return nil, newEvalError(ErrUnknownFeature, feature, nil)
	}
	if d.passthrough() {
		return nil, newEvalError(ErrDomainRequired, feature, nil)
	}
	if err := e.ensureMapping(context.Background(), d, FormatBinary); err != nil {
		return nil, err
	}
	v, found := d.vecToCat[vectorKey(vec)]
	if !found {
		return nil, newEvalError(ErrMissingMapping, feature, vec)
	}
	return v, nil
}
