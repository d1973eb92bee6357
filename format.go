package featenc

// Format selects the output representation of evaluated features.
type Format string

const (
	// FormatNormal emits the feature's native value, postprocessed if a
	// postprocess function is declared.
	FormatNormal Format = "normal"

	// FormatNumeric emits a number: the value itself for numeric, integer and
	// boolean kinds, the category number for categorical kinds.
	FormatNumeric Format = "numeric"

	// FormatBinary emits a one-hot vector over the feature's value domain.
	// Boolean kinds emit their 0/1 value directly; numeric kinds without an
	// explicit value list emit the validated value directly.
	FormatBinary Format = "binary"
)

// validFormats contains all valid formats for call-time validation.
var validFormats = map[Format]bool{
	FormatNormal:  true,
	FormatNumeric: true,
	FormatBinary:  true,
}

// IsValidFormat returns true if f is a known output format.
func IsValidFormat(f Format) bool {
	return validFormats[f]
}

// ParseFormat validates a format string from a declaration or call site.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !validFormats[f] {
		return "", newDeclarationError(ErrUnknownFormat, "", s)
	}
	return f, nil
}
