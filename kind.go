package featenc

import "strings"

// Kind is the declared value type of a feature.
type Kind string

const (
	// KindCategorical features produce values from an arbitrary label set.
	KindCategorical Kind = "categorical"

	// KindInteger features produce whole numbers.
	KindInteger Kind = "integer"

	// KindNumeric features produce floating-point numbers.
	KindNumeric Kind = "numeric"

	// KindBoolean features produce a truth value, folded to 0 or 1.
	KindBoolean Kind = "boolean"
)

// validKinds contains all valid kinds for declaration validation.
var validKinds = map[Kind]bool{
	KindCategorical: true,
	KindInteger:     true,
	KindNumeric:     true,
	KindBoolean:     true,
}

// IsValidKind returns true if k is a known feature kind.
func IsValidKind(k Kind) bool {
	return validKinds[k]
}

// ParseKind normalizes a declared kind string. Matching is case-insensitive on
// the first three characters, so "int", "Integer" and "INTS" all parse to
// KindInteger. The empty string parses to KindCategorical.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindCategorical, nil
	}
	if len(s) < 3 {
		return "", newDeclarationError(ErrUnknownKind, "", s)
	}
	switch strings.ToLower(s[:3]) {
	case "boo":
		return KindBoolean, nil
	case "int":
		return KindInteger, nil
	case "num":
		return KindNumeric, nil
	case "cat":
		return KindCategorical, nil
	}
	return "", newDeclarationError(ErrUnknownKind, "", s)
}
