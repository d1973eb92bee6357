package featenc

import (
	"context"
	"strconv"
	"strings"
)

// effectiveFormat resolves the per-feature override against the call format.
func (d *descriptor) effectiveFormat(call Format) Format {
	if d.format != "" {
		return d.format
	}
	return call
}

// passthrough reports whether the descriptor emits a single unencoded value
// under binary format: booleans emit their 0/1, and numeric features without
// an enumerable domain emit the validated number (a range is bounds, not a
// vector space).
func (d *descriptor) passthrough() bool {
	if d.kind == KindBoolean {
		return true
	}
	return d.kind == KindNumeric && d.member == nil
}

// ensureMapping materializes the mapping a descriptor needs under the given
// call format. Idempotent: returns immediately once the relevant mapping
// exists. Kinds that encode without a table short-circuit.
func (e *Engine) ensureMapping(ctx context.Context, d *descriptor, call Format) error {
	switch d.effectiveFormat(call) {
	case FormatNumeric:
		if d.kind != KindCategorical || d.catToNum != nil {
			return nil
		}
		if d.member != nil {
			d.buildStaticNumeric()
			return nil
		}
		return e.openDynamicMapping(ctx, d)

	case FormatBinary:
		if d.passthrough() || d.catToVec != nil {
			return nil
		}
		if d.member == nil {
			return newEvalError(ErrDomainRequired, d.name, nil)
		}
		d.buildVectors()
	}
	return nil
}

// domainOrder returns the domain in encoding order: declaration order when it
// was given, arbitrary iteration order otherwise, with the default value
// appended when it is not already a member.
func (d *descriptor) domainOrder() []any {
	order := d.values
	if order == nil {
		order = make([]any, 0, len(d.member))
		for v := range d.member {
			order = append(order, v)
		}
	}
	if d.hasDef {
		if _, in := d.member[d.def]; !in {
			order = append(append([]any{}, order...), d.def)
		}
	}
	return order
}

// buildStaticNumeric installs the 1-based category numbering from the value
// domain. A miss against this mapping at evaluation time is a hard failure.
func (d *descriptor) buildStaticNumeric() {
	order := d.domainOrder()
	d.catToNum = make(map[any]int, len(order))
	d.numToCat = make(map[int]any, len(order))
	for i, v := range order {
		d.catToNum[v] = i + 1
		d.numToCat[i+1] = v
	}
	d.staticNum = true
}

// buildVectors installs one-hot vectors indexed by domain order, plus a
// reverse lookup keyed by exact vector content.
func (d *descriptor) buildVectors() {
	order := d.domainOrder()
	d.vecLen = len(order)
	d.catToVec = make(map[any][]int, len(order))
	d.vecToCat = make(map[string]any, len(order))
	for i, v := range order {
		vec := make([]int, len(order))
		vec[i] = 1
		d.catToVec[v] = vec
		d.vecToCat[vectorKey(vec)] = v
	}
}

// vectorKey renders a vector's exact content for reverse lookup.
func vectorKey(vec []int) string {
	parts := make([]string, len(vec))
	for i, bit := range vec {
		parts[i] = strconv.Itoa(bit)
	}
	return strings.Join(parts, ",")
}
