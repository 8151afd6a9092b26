package charset

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHalfOpenRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.fonts")
	defer teardown()
	//
	codes, err := Parse("0x40-0x50")
	require.NoError(t, err)
	assert.Len(t, codes, 16)
	assert.Equal(t, rune(0x40), codes[0])
	assert.Equal(t, rune(0x4f), codes[len(codes)-1])
	assert.NotContains(t, codes, rune(0x50))
	//
	codes, err = Parse("0x41-0x41")
	require.NoError(t, err)
	assert.Empty(t, codes, "empty range expected to yield no codes")
}

func TestSingleCodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.fonts")
	defer teardown()
	//
	for input, expected := range map[string]rune{
		"0x0":      0,
		"0x41":     'A',
		" 0xe4 ":   'ä',
		"0x20AC":   '€',
		"0x1F600":  0x1f600,
		"0x000041": 'A',
	} {
		codes, err := Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, []rune{expected}, codes, input)
	}
}

func TestSemicolonSeparator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.fonts")
	defer teardown()
	//
	a, err := Parse("0x41;0x43-0x45")
	require.NoError(t, err)
	b, err := Parse("0x41,0x43-0x45")
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', 'C', 'D'}, a)
	assert.Equal(t, a, b)
}

func TestConcatenation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.fonts")
	defer teardown()
	//
	whole, err := Parse("0x0,0x40-0x50,0x60-0x80")
	require.NoError(t, err)
	var parts []rune
	for _, d := range []string{"0x0", "0x40-0x50", "0x60-0x80"} {
		p, err := Parse(d)
		require.NoError(t, err)
		parts = append(parts, p...)
	}
	if diff := cmp.Diff(parts, whole); diff != "" {
		t.Errorf("concatenated parse differs (-parts +whole):\n%s", diff)
	}
	assert.Len(t, whole, 1+16+32)
}

func TestDuplicatesKept(t *testing.T) {
	codes, err := Parse("0x41,0x40-0x43,0x41")
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', '@', 'A', 'B', 'A'}, codes)
}

func TestMalformedTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.fonts")
	defer teardown()
	//
	for input, offending := range map[string]string{
		"NN":           "NN",
		"41":           "41",
		"0X41":         "0X41",
		"0x":           "0x",
		"0xZZ":         "0xZZ",
		"0x41,0xG1":    "0xG1",
		"0x41-":        "",
		"0x41;foo":     "foo",
		"0x41, 0x4 2 ": " 0x4 2 ",
	} {
		codes, err := Parse(input)
		require.Error(t, err, input)
		assert.Nil(t, codes, "no partial result expected for %q", input)
		assert.True(t, core.Is(err, core.ERANGE), "expected ERANGE for %q", input)
		var re *RangeError
		require.True(t, errors.As(err, &re), "expected RangeError for %q", input)
		assert.Equal(t, offending, re.Input, input)
	}
}

func TestNotHexReferencesToken(t *testing.T) {
	_, err := Parse("not-hex")
	require.Error(t, err)
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "not-hex", re.Token)
	assert.Equal(t, "not", re.Input)
	assert.Contains(t, err.Error(), "not-hex")
	assert.Contains(t, re.Message, "doesn't start with 0x")
}

func TestResolveFilters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.fonts")
	defer teardown()
	//
	codes := []rune{0x1f, ' ', 'A', 0xd800, 0x7f, 'B', 0x110000}
	assert.Equal(t, []rune{'A', 'B'}, Resolve(codes, Options{SkipControl: true}))
	assert.Equal(t, []rune{0x1f, 'A', 0x7f, 'B'}, Resolve(codes, Options{}))
}

func TestResolveAddsNull(t *testing.T) {
	codes, err := ParseAndResolve("0x41", Options{SkipControl: true, AddNull: true})
	require.NoError(t, err)
	assert.Equal(t, []rune{0, 'A'}, codes)
	//
	codes, err = ParseAndResolve("0x0-0x3", Options{SkipControl: true})
	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestHugeRangeIsCapped(t *testing.T) {
	codes, err := Parse("0x10FFFE-0xFFFFFF")
	require.NoError(t, err)
	assert.Equal(t, []rune{0x10fffe, 0x10ffff}, codes)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "U+0041 LATIN CAPITAL LETTER A", Describe('A'))
	assert.True(t, strings.HasPrefix(Describe(0x378), "U+0378"))
}
