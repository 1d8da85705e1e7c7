package charmap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScenarios(t *testing.T, m *Mapper, strs, runes []scenario) {
	t.Helper()
	for _, sc := range strs {
		assert.Equal(t, sc.want, m.Map(sc.input), "String(%q)", sc.input)
		assert.Equal(t, sc.want, m.Seq(runesOf(sc.input)).Collect(), "Seq(%q)", sc.input)
	}
	for _, sc := range runes {
		r := []rune(sc.input)[0]
		assert.Equal(t, sc.want, m.Rune(r).Collect(), "Rune(%q)", r)
	}
}

func TestMapper_Scenarios(t *testing.T) {
	defaults := []struct {
		name        string
		def         Action
		strs, runes []scenario
	}{
		{"default pass", Pass(), stringsDefaultPass, runesDefaultPass},
		{"default delete", Delete(), stringsDefaultDelete, runesDefaultDelete},
		{"default sub x", SubStr("x"), stringsDefaultSubX, runesDefaultSubX},
		{"default sub char x", SubChar('x'), stringsDefaultSubX, runesDefaultSubX},
		{"default sub empty", SubStr(""), stringsDefaultDelete, runesDefaultDelete},
	}
	for rname, res := range resolvers(testMapping) {
		for _, d := range defaults {
			t.Run(rname+"/"+d.name, func(t *testing.T) {
				runScenarios(t, NewMapper(res, d.def), d.strs, d.runes)
			})
		}
	}
}

func TestMapper_DefaultSubCharScenario(t *testing.T) {
	entries := append(slices.Clone(testMapping), Entry{'o', Pass()})
	m := NewMapper(NewSorted(entries...), SubChar('-'))
	assert.Equal(t, "-eeeeo---o---", m.Map("Hello, world!"))
}

func TestMapper_Resolve(t *testing.T) {
	m := NewMapper(Map{'a': SubChar('b')}, Delete())
	assert.Equal(t, SubChar('b'), m.Resolve('a'))
	assert.Equal(t, Delete(), m.Resolve('z'))
	assert.Equal(t, Delete(), m.Default())
}

func TestMapper_NilResolverUsesDefault(t *testing.T) {
	m := NewMapper(nil, SubChar('*'))
	assert.Equal(t, "***", m.Map("abc"))
}

func TestMapper_PassOnlyIsIdentity(t *testing.T) {
	inputs := []string{"", "a", "Hello, world!", "héllo wörld ✓", "\x00\t\n"}
	passAll := ResolverFunc(func(rune) (Action, bool) { return Pass(), true })
	for _, res := range []Resolver{nil, Map{}, passAll} {
		m := NewMapper(res, Pass())
		for _, in := range inputs {
			assert.Equal(t, in, m.Map(in))
		}
	}
}

func TestMapper_DeleteAndEmptySubstitutionAreEquivalent(t *testing.T) {
	inputs := []string{"", "c", "ccc", "acbc", "cabc", "abcc", "a c b c"}
	del := NewMapper(Map{'c': Delete(), 'a': SubStr("AA")}, Pass())
	empty := NewMapper(Map{'c': SubStr(""), 'a': SubStr("AA")}, Pass())
	for _, in := range inputs {
		want := del.Map(in)
		assert.Equal(t, want, empty.Map(in), "input %q", in)
		assert.NotContains(t, want, "c")
	}
}

func TestMapper_DefaultFallbackAcrossResolvers(t *testing.T) {
	for name, res := range resolvers(testMapping) {
		m := NewMapper(res, SubStr("<>"))
		assert.Equal(t, "<>", m.Map("z"), name)
		assert.Equal(t, "<>eeee<>", m.Map("zez"), name)
	}
}

func TestMapper_SubstitutionOrdering(t *testing.T) {
	m := NewMapper(Map{'a': SubStr("123"), 'b': SubStr("xyz")}, Pass())
	assert.Equal(t, "123xyz-123", m.Map("ab-a"))
}

func TestMapper_MultiByteSubstitutions(t *testing.T) {
	m := NewMapper(Map{
		'ß': SubStr("ss"),
		'æ': SubStr("ae"),
		'→': SubStr("->"),
		'x': SubStr("✗✗"),
		'e': SubChar('é'),
	}, Pass())
	assert.Equal(t, "strassé", m.Map("straße"))
	assert.Equal(t, "ae ->✗✗é", m.Map("æ →xe"))
}

func TestMapper_MapSeqStopsEarly(t *testing.T) {
	m := NewMapper(Map{'a': SubStr("AAAA")}, Pass())
	var got []rune
	for r := range m.MapSeq(runesOf("abc")) {
		got = append(got, r)
		if len(got) == 3 {
			break
		}
	}
	require.Equal(t, []rune("AAA"), got)
}

func TestMapper_SharedAcrossTransforms(t *testing.T) {
	m := NewMapper(Map{'a': SubStr("xy")}, Pass())
	t1 := m.String("aa")
	t2 := m.String("ba")

	r, ok := t1.Next()
	require.True(t, ok)
	assert.Equal(t, 'x', r)

	assert.Equal(t, "bxy", t2.Collect())
	assert.Equal(t, "yxy", t1.Collect())
}
