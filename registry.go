package featenc

import (
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// descriptor is the validated, normalized form of one Declaration. Immutable
// after registration except for the mapping caches, which are materialized
// lazily and reused across calls.
type descriptor struct {
	name     string
	kind     Kind
	values   []any            // ordered domain; nil when none declared or order not given
	member   map[any]struct{} // membership set; non-nil iff a domain is declared
	lo, hi   float64          // numeric bounds, valid when hasRange
	hasRange bool             // bounds retained without enumeration (numeric kind)
	def      any
	hasDef   bool
	format   Format // per-feature override; "" means follow the call
	fn       FeatureFunc
	post     PostprocessFunc

	// category ↔ number, built on first numeric-format use
	catToNum  map[any]int
	numToCat  map[int]any
	staticNum bool // mapping is complete; a miss is a hard failure
	nextNum   int  // running maximum for dynamic growth
	mapFile   *os.File
	mapPath   string

	// category ↔ one-hot vector, built on first binary-format use
	catToVec map[any][]int
	vecToCat map[string]any
	vecLen   int
}

// registry maps feature names to descriptors and remembers declaration order.
type registry struct {
	byName map[string]*descriptor
	order  []string
}

// buildRegistry compiles declarations into a registry, failing on the first
// malformed declaration.
func buildRegistry(decls []Declaration, cfg *config) (*registry, error) {
	reg := &registry{
		byName: make(map[string]*descriptor, len(decls)),
		order:  make([]string, 0, len(decls)),
	}
	for _, decl := range decls {
		d, err := buildDescriptor(decl, cfg)
		if err != nil {
			return nil, err
		}
		if _, exists := reg.byName[d.name]; exists {
			return nil, newDeclarationError(ErrDuplicateFeature, d.name, "")
		}
		reg.byName[d.name] = d
		reg.order = append(reg.order, d.name)
	}
	return reg, nil
}

// buildDescriptor validates and normalizes a single declaration.
func buildDescriptor(decl Declaration, cfg *config) (*descriptor, error) {
	if decl.Name == "" {
		return nil, newDeclarationError(ErrUnknownFeature, "", "declaration without a name")
	}

	kind, err := ParseKind(decl.Kind)
	if err != nil {
		return nil, newDeclarationError(ErrUnknownKind, decl.Name, decl.Kind)
	}

	d := &descriptor{name: decl.Name, kind: kind}

	// Exactly one way to declare a domain.
	domains := 0
	if len(decl.Values) > 0 {
		domains++
	}
	if len(decl.ValueSet) > 0 {
		domains++
	}
	if decl.ValuesFile != "" {
		domains++
	}
	if decl.Range != "" {
		domains++
	}
	if domains > 1 {
		return nil, newDeclarationError(ErrConflictingDomain, decl.Name, "")
	}

	switch {
	case len(decl.Values) > 0:
		if err := d.setDomain(decl.Values, true); err != nil {
			return nil, err
		}
	case len(decl.ValueSet) > 0:
		vals := make([]any, 0, len(decl.ValueSet))
		for v := range decl.ValueSet {
			vals = append(vals, v)
		}
		if err := d.setDomain(vals, false); err != nil {
			return nil, err
		}
	case decl.ValuesFile != "":
		lines, err := readValueFile(decl.ValuesFile, cfg.baseDir)
		if err != nil {
			return nil, newDeclarationError(ErrInvalidDomain, decl.Name, err.Error())
		}
		vals := make([]any, len(lines))
		for i, line := range lines {
			vals[i] = line
		}
		if err := d.setDomain(vals, true); err != nil {
			return nil, err
		}
	case decl.Range != "":
		if kind != KindInteger && kind != KindNumeric {
			return nil, newDeclarationError(ErrInvalidRange, decl.Name, "range requires integer or numeric kind")
		}
		lo, hi, err := parseRange(decl.Range)
		if err != nil {
			return nil, newDeclarationError(ErrInvalidRange, decl.Name, decl.Range)
		}
		if kind == KindInteger {
			// A discrete range enumerates into an ordered domain.
			first, last := int(math.Trunc(lo)), int(math.Trunc(hi))
			vals := make([]any, 0, last-first+1)
			for v := first; v <= last; v++ {
				vals = append(vals, v)
			}
			if err := d.setDomain(vals, true); err != nil {
				return nil, err
			}
		} else {
			d.lo, d.hi = lo, hi
			d.hasRange = true
		}
	}

	if decl.Default != nil {
		if d.member == nil && !d.hasRange {
			return nil, newDeclarationError(ErrDefaultWithoutDomain, decl.Name, "")
		}
		def, ok := coerceKind(kind, decl.Default)
		if !ok {
			return nil, newDeclarationError(ErrInvalidDomain, decl.Name, "uncoercible default")
		}
		if kind == KindBoolean && d.member != nil {
			// A folded default either restates a domain literal or negates the
			// only allowed one; both contradict the declaration.
			if _, in := d.member[def]; in {
				return nil, newDeclarationError(ErrInvalidDomain, decl.Name, "default restates an allowed value")
			}
			return nil, newDeclarationError(ErrInvalidDomain, decl.Name, "default negates the only allowed value")
		}
		d.def = def
		d.hasDef = true
	}

	if decl.Format != "" {
		format, err := ParseFormat(decl.Format)
		if err != nil {
			return nil, newDeclarationError(ErrUnknownFormat, decl.Name, decl.Format)
		}
		if format == FormatBinary && d.member == nil && (kind == KindCategorical || kind == KindInteger) {
			return nil, newDeclarationError(ErrDomainRequired, decl.Name, "")
		}
		d.format = format
	}

	d.fn = decl.Fn
	if d.fn == nil {
		name := decl.FnName
		if name == "" {
			name = decl.Name
		}
		fn, ok := cfg.lookupFunc(name)
		if !ok {
			return nil, newDeclarationError(ErrFunctionNotFound, decl.Name, name)
		}
		d.fn = fn
	}

	d.post = decl.Postprocess
	if d.post == nil && decl.PostprocessName != "" {
		post, ok := cfg.lookupPostprocess(decl.PostprocessName)
		if !ok {
			return nil, newDeclarationError(ErrFunctionNotFound, decl.Name, decl.PostprocessName)
		}
		d.post = post
	}

	if len(decl.Mapping) > 0 {
		// Explicit mapping, trusted as-is.
		d.catToNum = make(map[any]int, len(decl.Mapping))
		d.numToCat = make(map[int]any, len(decl.Mapping))
		for cat, num := range decl.Mapping {
			d.catToNum[cat] = num
			d.numToCat[num] = cat
		}
		d.staticNum = true
	}

	return d, nil
}

// setDomain coerces domain values to the descriptor's kind and installs the
// membership set, keeping the ordered projection only when order was given.
func (d *descriptor) setDomain(raw []any, ordered bool) error {
	coerced := make([]any, 0, len(raw))
	member := make(map[any]struct{}, len(raw))
	for _, v := range raw {
		cv, ok := coerceKind(d.kind, v)
		if !ok {
			return newDeclarationError(ErrInvalidDomain, d.name, "uncoercible value "+stringify(v))
		}
		if d.kind == KindBoolean {
			if _, dup := member[cv]; dup {
				return newDeclarationError(ErrInvalidDomain, d.name, "duplicate truth literal")
			}
			if len(member) == 2 {
				return newDeclarationError(ErrInvalidDomain, d.name, "more than two truth values")
			}
		}
		coerced = append(coerced, cv)
		member[cv] = struct{}{}
	}
	if ordered {
		d.values = coerced
	}
	d.member = member
	return nil
}

// rangePattern splits "lo..hi"; two or more dots separate the bounds.
var rangePattern = regexp.MustCompile(`^(.+?)\.{2,}(.+)$`)

// parseRange parses a closed interval "lo..hi". The lower bound must be
// strictly below the upper.
func parseRange(s string) (lo, hi float64, err error) {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, 0, newDeclarationError(ErrInvalidRange, "", s)
	}
	lo, err = strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
	if err != nil {
		return 0, 0, newDeclarationError(ErrInvalidRange, "", s)
	}
	hi, err = strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
	if err != nil {
		return 0, 0, newDeclarationError(ErrInvalidRange, "", s)
	}
	if lo >= hi {
		return 0, 0, newDeclarationError(ErrInvalidRange, "", s)
	}
	return lo, hi, nil
}
