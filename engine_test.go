package featenc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/featenc"
	fenctest "github.com/zoobzio/featenc/testing"
)

func newWordEngine(t *testing.T, opts ...featenc.Option) *featenc.Engine {
	t.Helper()
	eng, err := featenc.New(t.Name(), fenctest.WordDeclarations(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestEvaluate_NumericEndToEnd(t *testing.T) {
	eng := newWordEngine(t)

	// length=3 passes through; "b" is the 1-based second domain value.
	out, err := eng.Evaluate(context.Background(), []string{"length", "firstChar"}, featenc.FormatNumeric, "bar")
	require.NoError(t, err)
	assert.Equal(t, []any{3, 2}, out)
}

func TestEvaluate_BinaryEndToEnd(t *testing.T) {
	// A numeric-kind range keeps bounds only, so length passes through while
	// firstChar expands to its one-hot positions.
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "length", Kind: "num", Range: "0..5", Fn: fenctest.Length},
		{Name: "firstChar", Values: []any{"a", "b", "c"}, Fn: fenctest.FirstChar},
	})
	require.NoError(t, err)
	defer eng.Close()

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatBinary, "bar")
	require.NoError(t, err)
	assert.Equal(t, []any{3.0, 0, 1, 0}, out)
}

func TestEvaluate_AllInDeclarationOrder(t *testing.T) {
	eng := newWordEngine(t)
	assert.Equal(t, []string{"length", "firstChar"}, eng.Features())

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNormal, "bar")
	require.NoError(t, err)
	assert.Equal(t, []any{3, "b"}, out)
}

func TestEvaluate_SingleFeature(t *testing.T) {
	eng := newWordEngine(t)

	out, err := eng.Evaluate(context.Background(), []string{"firstChar"}, featenc.FormatNormal, "cab")
	require.NoError(t, err)
	assert.Equal(t, []any{"c"}, out)
}

func TestEvaluate_UnknownFeature(t *testing.T) {
	eng := newWordEngine(t)

	_, err := eng.Evaluate(context.Background(), []string{"nope"}, featenc.FormatNormal, "x")
	require.ErrorIs(t, err, featenc.ErrUnknownFeature)
}

func TestEvaluate_UnknownFormat(t *testing.T) {
	eng := newWordEngine(t)

	_, err := eng.Evaluate(context.Background(), nil, featenc.Format("onehot"), "x")
	require.ErrorIs(t, err, featenc.ErrUnknownFormat)
}

func TestEvaluate_OneHotRoundTrip(t *testing.T) {
	domain := []any{"a", "b", "c", "d"}
	var current any
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Values: domain, Fn: func(...any) (any, bool) { return current, true }},
	})
	require.NoError(t, err)
	defer eng.Close()

	for i, v := range domain {
		current = v
		out, err := eng.Evaluate(context.Background(), nil, featenc.FormatBinary)
		require.NoError(t, err)
		require.Len(t, out, len(domain))

		ones := 0
		vec := make([]int, len(out))
		for j, bit := range out {
			vec[j] = bit.(int)
			ones += bit.(int)
		}
		assert.Equal(t, 1, ones, "exactly one hot position")
		assert.Equal(t, 1, vec[i], "hot position follows declaration order")

		decoded, err := eng.DecodeBinary("f", vec)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	}
}

func TestEvaluate_BinaryAppendsDefaultPosition(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Values: []any{"a", "b", "c"}, Default: "other", Fn: constant("q")},
	})
	require.NoError(t, err)
	defer eng.Close()

	// "q" is outside the domain; the default lands on the appended position.
	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, []any{0, 0, 0, 1}, out)
}

func TestEvaluate_BinaryBooleanScalar(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "flag", Kind: "boo", Fn: constant("yes")},
	})
	require.NoError(t, err)
	defer eng.Close()

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, []any{1}, out)
}

func TestEvaluate_BinaryWithoutDomainFails(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Fn: constant("a")},
	})
	require.NoError(t, err)
	defer eng.Close()

	_, err = eng.Evaluate(context.Background(), nil, featenc.FormatBinary)
	require.ErrorIs(t, err, featenc.ErrDomainRequired)
}

func TestEvaluate_RangeSoftFailure(t *testing.T) {
	var current any
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Kind: "num", Range: "0..5", Fn: func(...any) (any, bool) { return current, true }},
	})
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()

	current = 3.5
	out, err := eng.Evaluate(ctx, nil, featenc.FormatNumeric)
	require.NoError(t, err)
	assert.Equal(t, []any{3.5}, out)

	// Out of range without a default: the whole batch comes back empty, nil error.
	for _, v := range []float64{-1, 7} {
		current = v
		out, err = eng.Evaluate(ctx, nil, featenc.FormatNumeric)
		require.NoError(t, err)
		assert.Nil(t, out)
	}
}

func TestEvaluate_RangeDefaultSubstitution(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Kind: "num", Range: "0..5", Default: 5, Fn: constant(99)},
	})
	require.NoError(t, err)
	defer eng.Close()

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNumeric)
	require.NoError(t, err)
	assert.Equal(t, []any{5.0}, out)
}

func TestEvaluate_DomainSoftFailureAbortsBatch(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "good", Fn: constant("ok")},
		{Name: "bad", Values: []any{"a", "b"}, Fn: constant("z")},
	})
	require.NoError(t, err)
	defer eng.Close()

	// The first feature validates fine, but the second one's failure discards
	// the entire result.
	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNormal)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestEvaluate_UncoercibleIsSoftFailure(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Kind: "int", Fn: constant("abc")},
	})
	require.NoError(t, err)
	defer eng.Close()

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNumeric)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestEvaluate_NASubstitute(t *testing.T) {
	absent := func(...any) (any, bool) { return nil, false }

	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Values: []any{"a", "b", "c"}, Fn: absent},
	}, featenc.WithNA("_"))
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()

	// Binary: the substitute fills every one-hot position.
	out, err := eng.Evaluate(ctx, nil, featenc.FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, []any{"_", "_", "_"}, out)

	// Normal and numeric: the substitute is emitted once, unencoded.
	for _, format := range []featenc.Format{featenc.FormatNormal, featenc.FormatNumeric} {
		out, err = eng.Evaluate(ctx, nil, format)
		require.NoError(t, err)
		assert.Equal(t, []any{"_"}, out)
	}
}

func TestEvaluate_AbsentWithoutNAIsSoftFailure(t *testing.T) {
	absent := func(...any) (any, bool) { return nil, false }

	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Fn: absent},
	})
	require.NoError(t, err)
	defer eng.Close()

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNormal)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestEvaluate_FalsyValuesAreNotAbsent(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "zero", Kind: "int", Fn: constant(0)},
		{Name: "empty", Fn: constant("")},
	}, featenc.WithNA("_"))
	require.NoError(t, err)
	defer eng.Close()

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNormal)
	require.NoError(t, err)
	assert.Equal(t, []any{0, ""}, out)
}

func TestEvaluate_FormatOverride(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "native", Fn: constant("b")},
		{Name: "encoded", Values: []any{"a", "b", "c"}, Format: "numeric", Fn: constant("b")},
	})
	require.NoError(t, err)
	defer eng.Close()

	// The call asks for normal output; the override still encodes its feature.
	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNormal)
	require.NoError(t, err)
	assert.Equal(t, []any{"b", 2}, out)
}

func TestEvaluate_PostprocessNormalOnly(t *testing.T) {
	double := func(v any) any { return v.(int) * 2 }

	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Kind: "int", Fn: constant(21), Postprocess: double},
	})
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()

	out, err := eng.Evaluate(ctx, nil, featenc.FormatNormal)
	require.NoError(t, err)
	assert.Equal(t, []any{42}, out)

	out, err = eng.Evaluate(ctx, nil, featenc.FormatNumeric)
	require.NoError(t, err)
	assert.Equal(t, []any{21}, out)
}

func TestEvaluate_IntegerTruncation(t *testing.T) {
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{Name: "f", Kind: "int", Fn: constant(3.9)},
	})
	require.NoError(t, err)
	defer eng.Close()

	out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNumeric)
	require.NoError(t, err)
	assert.Equal(t, []any{3}, out)
}

func TestEvaluate_ExplicitMappingTrusted(t *testing.T) {
	var current any
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{
			Name:    "f",
			Mapping: map[any]int{"a": 10, "b": 20},
			Fn:      func(...any) (any, bool) { return current, true },
		},
	})
	require.NoError(t, err)
	defer eng.Close()

	ctx := context.Background()

	current = "b"
	out, err := eng.Evaluate(ctx, nil, featenc.FormatNumeric)
	require.NoError(t, err)
	assert.Equal(t, []any{20}, out)

	// A key missing from an explicit static mapping is a hard failure.
	current = "c"
	_, err = eng.Evaluate(ctx, nil, featenc.FormatNumeric)
	require.ErrorIs(t, err, featenc.ErrMissingMapping)
}

func TestEvaluate_StaticMappingFollowsDomainOrder(t *testing.T) {
	var current any
	eng, err := featenc.New(t.Name(), []featenc.Declaration{
		{
			Name:    "f",
			Values:  []any{"x", "y", "z"},
			Default: "other",
			Fn:      func(...any) (any, bool) { return current, true },
		},
	})
	require.NoError(t, err)
	defer eng.Close()

	want := map[any]int{"x": 1, "y": 2, "z": 3, "other": 4}
	for v, num := range want {
		current = v
		out, err := eng.Evaluate(context.Background(), nil, featenc.FormatNumeric)
		require.NoError(t, err)
		assert.Equal(t, []any{num}, out, "value %v", v)
	}
}

func TestUse_CachesByName(t *testing.T) {
	featenc.Reset()
	defer featenc.Reset()

	decls := fenctest.WordDeclarations()

	e1, err := featenc.Use("cached", decls)
	require.NoError(t, err)
	e2, err := featenc.Use("cached", decls)
	require.NoError(t, err)
	assert.Same(t, e1, e2)

	featenc.Reset()
	e3, err := featenc.Use("cached", decls)
	require.NoError(t, err)
	assert.NotSame(t, e1, e3)
}
