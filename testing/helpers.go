// Package testing provides test utilities for featenc.
package testing

import (
	"unicode/utf8"

	"github.com/zoobzio/featenc"
)

// Length derives the rune count of the first string argument.
func Length(args ...any) (any, bool) {
	s, ok := firstString(args)
	if !ok {
		return nil, false
	}
	return utf8.RuneCountInString(s), true
}

// FirstChar derives the first character of the first string argument.
// An empty string produces no value.
func FirstChar(args ...any) (any, bool) {
	s, ok := firstString(args)
	if !ok || s == "" {
		return nil, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r), true
}

func firstString(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok
}

// WordDeclarations returns a small declaration list exercising an integer
// range and an ordered categorical domain over string samples.
func WordDeclarations() []featenc.Declaration {
	return []featenc.Declaration{
		{Name: "length", Kind: "int", Range: "0..5", Fn: Length},
		{Name: "firstChar", Values: []any{"a", "b", "c"}, Fn: FirstChar},
	}
}
