package charmap

import "iter"

// runesOf yields the runes of s.
func runesOf(s string) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for _, r := range s {
			if !yield(r) {
				return
			}
		}
	}
}

// testMapping is shared by the scenario tables below.
var testMapping = []Entry{
	{'e', SubStr("eeee")},
	{'l', Delete()},
	{'o', Pass()},
}

type scenario struct {
	input, want string
}

var stringsDefaultPass = []scenario{
	{"", ""},
	{"lllllll", ""},
	{"ooooo", "ooooo"},
	{"teehee", "teeeeeeeeheeeeeeee"},
	{"Hello, world!", "Heeeeo, word!"},
	{"Foo Bar", "Foo Bar"},
}

var stringsDefaultDelete = []scenario{
	{"", ""},
	{"lllllll", ""},
	{"ooooo", "ooooo"},
	{"teehee", "eeeeeeeeeeeeeeee"},
	{"Hello, world!", "eeeeoo"},
	{"Foo Bar", "oo"},
}

var stringsDefaultSubX = []scenario{
	{"", ""},
	{"lllllll", ""},
	{"ooooo", "ooooo"},
	{"teehee", "xeeeeeeeexeeeeeeee"},
	{"Hello, world!", "xeeeeoxxxoxxx"},
	{"Foo Bar", "xooxxxx"},
}

var runesDefaultPass = []scenario{
	{"e", "eeee"},
	{"l", ""},
	{"o", "o"},
	{"H", "H"},
}

var runesDefaultDelete = []scenario{
	{"e", "eeee"},
	{"l", ""},
	{"o", "o"},
	{"H", ""},
}

var runesDefaultSubX = []scenario{
	{"e", "eeee"},
	{"l", ""},
	{"o", "o"},
	{"H", "x"},
}

// resolvers returns every Resolver implementation loaded with entries.
func resolvers(entries []Entry) map[string]Resolver {
	m := Map{}
	for _, e := range entries {
		m[e.Rune] = e.Action
	}
	return map[string]Resolver{
		"map":    m,
		"sorted": NewSorted(entries...),
		"dense":  DenseFrom(entries...),
		"func":   ResolverFunc(m.Lookup),
		"chain":  Chain(NewSorted(), m),
	}
}
