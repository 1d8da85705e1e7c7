// Copyright 2026 Benoit Pereira da Silva
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table loads character mapping tables from YAML.
//
// A table file looks like:
//
//	name: demo
//	description: shout the vowels, drop the bangs
//	default: pass
//	rules:
//	  - char: "!"
//	    action: delete
//	  - char: "e"
//	    action: "str:EEE"
//	  - from: "a"
//	    to: "d"
//	    action: "char:*"
//
// Actions use the text form of charmap.Action: pass, delete, str:<text> and
// char:<rune>. A rule targets either one rune (char) or an inclusive range
// (from, to). When several rules cover the same rune the last one wins.
package table

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/go-homedir"

	"github.com/benoit-pereira-da-silva/charmap/pkg/charmap"
)

// MaxRangeSize bounds the number of runes a single range rule may cover.
const MaxRangeSize = 0x10000

var ErrInvalidTable = errors.New("table: invalid table")

// File is the YAML representation of a mapping table.
type File struct {
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description,omitempty"`
	Default     string `yaml:"default,omitempty" validate:"omitempty,action"`
	Rules       []Rule `yaml:"rules" validate:"dive"`
}

// Rule maps one rune, or an inclusive range of runes, to an action.
type Rule struct {
	Char   string `yaml:"char,omitempty" validate:"omitempty,rune"`
	From   string `yaml:"from,omitempty" validate:"omitempty,rune"`
	To     string `yaml:"to,omitempty" validate:"omitempty,rune"`
	Action string `yaml:"action" validate:"required,action"`
}

// Parse decodes and validates a table. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTable, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads the table at path. A leading ~ is expanded to the home
// directory.
func Load(path string) (*File, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("error expanding table path %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("error reading table %q: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error loading table %q: %w", path, err)
	}
	return f, nil
}

// Marshal encodes f as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// DefaultAction returns the parsed default action; an empty default is Pass.
func (f *File) DefaultAction() (charmap.Action, error) {
	if f.Default == "" {
		return charmap.Pass(), nil
	}
	return charmap.ParseAction(f.Default)
}

// Entries expands the rules of f into one entry per rune, in rule order.
func (f *File) Entries() ([]charmap.Entry, error) {
	var entries []charmap.Entry
	for i, rule := range f.Rules {
		a, err := charmap.ParseAction(rule.Action)
		if err != nil {
			return nil, &RuleError{Index: i, Err: err}
		}
		lo, hi, err := rule.bounds()
		if err != nil {
			return nil, &RuleError{Index: i, Err: err}
		}
		for r := lo; r <= hi; r++ {
			entries = append(entries, charmap.Entry{Rune: r, Action: a})
		}
	}
	return entries, nil
}

// Compile builds the resolver and the default action of f.
func (f *File) Compile() (*charmap.Sorted, charmap.Action, error) {
	def, err := f.DefaultAction()
	if err != nil {
		return nil, charmap.Action{}, fmt.Errorf("%w: default: %w", ErrInvalidTable, err)
	}
	entries, err := f.Entries()
	if err != nil {
		return nil, charmap.Action{}, err
	}
	return charmap.NewSorted(entries...), def, nil
}

// Mapper compiles f into a ready to use Mapper.
func (f *File) Mapper() (*charmap.Mapper, error) {
	res, def, err := f.Compile()
	if err != nil {
		return nil, err
	}
	return charmap.NewMapper(res, def), nil
}

// FromEntries builds a table holding one rule per entry.
func FromEntries(name string, def charmap.Action, entries []charmap.Entry) *File {
	f := &File{Name: name, Default: def.String()}
	for _, e := range entries {
		f.Rules = append(f.Rules, Rule{Char: string(e.Rune), Action: e.Action.String()})
	}
	return f
}

func (r Rule) bounds() (rune, rune, error) {
	switch {
	case r.Char != "" && (r.From != "" || r.To != ""):
		return 0, 0, errors.New("char and from/to are mutually exclusive")
	case r.Char != "":
		c := firstRune(r.Char)
		return c, c, nil
	case r.From == "" || r.To == "":
		return 0, 0, errors.New("either char or both from and to are required")
	}
	lo, hi := firstRune(r.From), firstRune(r.To)
	if lo > hi {
		return 0, 0, fmt.Errorf("range %U..%U is reversed", lo, hi)
	}
	if hi-lo+1 > MaxRangeSize {
		return 0, 0, fmt.Errorf("range %U..%U covers more than %d runes", lo, hi, MaxRangeSize)
	}
	return lo, hi, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// RuleError reports the rule of a table that could not be used.
type RuleError struct {
	Index int
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rules[%d]: %v", e.Index, e.Err)
}

func (e *RuleError) Unwrap() []error {
	return []error{ErrInvalidTable, e.Err}
}

// Merge concatenates the rules of several tables: later tables override
// earlier ones for the runes they share. The default of the last table with
// a non-empty default wins.
func Merge(name string, files ...*File) *File {
	merged := &File{Name: name}
	for _, f := range files {
		if f == nil {
			continue
		}
		merged.Rules = append(merged.Rules, slices.Clone(f.Rules)...)
		if f.Default != "" {
			merged.Default = f.Default
		}
	}
	return merged
}
