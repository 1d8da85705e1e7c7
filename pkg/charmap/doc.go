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

// Package charmap performs one-pass, rune-level text mapping.
//
// Every input rune is resolved to an Action (Pass, Delete, SubStr or
// SubChar) by a Resolver; runes the Resolver does not know get the Mapper's
// default Action. A Transform produces the mapped runes lazily, one per call
// to Next, and never materializes the whole output unless asked to.
//
// Any point-lookup structure can serve as a Resolver: Map (hash table),
// Sorted (ordered slice), Dense (static range table), a ResolverFunc, or the
// datastore-backed resolver of package store.
package charmap
