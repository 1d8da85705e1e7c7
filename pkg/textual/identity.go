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

import "context"

// IdentityProcessor forwards tokens unchanged. Decoding without mapping goes
// through it so that it shares the pipeline of mapped runs.
type IdentityProcessor[S Carrier[S]] struct{}

// Apply implements Processor.
func (IdentityProcessor[S]) Apply(ctx context.Context, in <-chan S) <-chan S {
	return Async(ctx, in, func(s S) S { return s })
}
