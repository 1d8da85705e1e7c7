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

package textual

import "errors"

// UTF8String is a symbolic alias: once inside a pipeline every piece of text
// is UTF-8, whatever the encoding of the original input (see NewUTF8Reader).
type UTF8String = string

// Carrier is the contract of the values flowing through a pipeline.
//
// Method expectations:
//
//   - UTF8String returns the text of the carrier.
//
//   - FromUTF8String creates a new carrier from a UTF-8 token. The receiver is
//     a prototype: IOReaderProcessor calls it on the zero value of S.
//
//   - WithIndex / GetIndex attach and retrieve the token sequence number.
//     Stages may run concurrently, so the index is what restores input order.
//
//   - WithError / GetError attach and retrieve a non-fatal per-token error.
//     Errors carried by S are data: stages keep forwarding error-carrying
//     tokens, and the final consumer decides what to do with them.
type Carrier[S any] interface {
	UTF8String() UTF8String
	FromUTF8String(s UTF8String) S
	WithIndex(index int) S
	GetIndex() int
	WithError(err error) S
	GetError() error
}

// String is the minimal Carrier: a token of text, its sequence number and an
// optional error.
type String struct {
	Value string
	Index int
	Error error
}

func (s String) UTF8String() UTF8String {
	return s.Value
}

func (s String) FromUTF8String(str UTF8String) String {
	return String{Value: str}
}

func (s String) WithIndex(idx int) String {
	s.Index = idx
	return s
}

func (s String) GetIndex() int {
	return s.Index
}

// WithError attaches err, joining it with any error already carried.
func (s String) WithError(err error) String {
	if err == nil {
		return s
	}
	s.Error = errors.Join(s.Error, err)
	return s
}

func (s String) GetError() error {
	return s.Error
}
