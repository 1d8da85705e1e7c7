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

package charmap

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidAction is returned when an action text cannot be parsed.
var ErrInvalidAction = errors.New("charmap: invalid action")

// Kind identifies the variant of an Action.
type Kind uint8

const (
	KindPass    Kind = iota // emit the input rune unchanged
	KindDelete              // emit nothing
	KindSubStr              // emit a string in place of the input rune
	KindSubChar             // emit a single rune in place of the input rune
)

func (k Kind) String() string {
	switch k {
	case KindPass:
		return "pass"
	case KindDelete:
		return "delete"
	case KindSubStr:
		return "str"
	case KindSubChar:
		return "char"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Action is the disposition of one input rune.
//
// Actions are small immutable values. The zero value is Pass.
//
// The text form, used by table files, flags and persisted stores, is one of:
//
//	pass
//	delete
//	str:<text>   (the text may be empty)
//	char:<rune>  (exactly one rune)
type Action struct {
	kind Kind
	str  string
	char rune
}

// Pass returns the action that emits the input rune unchanged.
func Pass() Action { return Action{kind: KindPass} }

// Delete returns the action that drops the input rune.
func Delete() Action { return Action{kind: KindDelete} }

// SubStr returns the action that replaces the input rune with s.
// An empty s behaves exactly like Delete.
func SubStr(s string) Action { return Action{kind: KindSubStr, str: s} }

// SubChar returns the action that replaces the input rune with r.
func SubChar(r rune) Action { return Action{kind: KindSubChar, char: r} }

// Kind returns the kind of the action.
func (a Action) Kind() Kind { return a.kind }

// Str returns the substitution text of a KindSubStr action.
func (a Action) Str() string { return a.str }

// Char returns the substitution rune of a KindSubChar action.
func (a Action) Char() rune { return a.char }

// Apply returns what a produces for r, as a string.
func (a Action) Apply(r rune) string {
	switch a.kind {
	case KindDelete:
		return ""
	case KindSubStr:
		return a.str
	case KindSubChar:
		return string(a.char)
	default:
		return string(r)
	}
}

func (a Action) String() string {
	text, _ := a.MarshalText()
	return string(text)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	switch a.kind {
	case KindPass, KindDelete:
		return []byte(a.kind.String()), nil
	case KindSubStr:
		return []byte("str:" + a.str), nil
	case KindSubChar:
		return []byte("char:" + string(a.char)), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidAction, a.kind)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction parses the text form of an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "pass":
		return Pass(), nil
	case "delete":
		return Delete(), nil
	}
	if rest, ok := strings.CutPrefix(s, "str:"); ok {
		if !utf8.ValidString(rest) {
			return Action{}, fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidAction, s)
		}
		return SubStr(rest), nil
	}
	if rest, ok := strings.CutPrefix(s, "char:"); ok {
		r, size := utf8.DecodeRuneInString(rest)
		if size == 0 || size != len(rest) || (r == utf8.RuneError && size == 1) {
			return Action{}, fmt.Errorf("%w: %q must carry exactly one rune", ErrInvalidAction, s)
		}
		return SubChar(r), nil
	}
	return Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, s)
}
