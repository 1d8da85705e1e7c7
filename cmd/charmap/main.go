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

// Command charmap maps the characters of text streams through lookup tables.
//
//	charmap apply --preset quotes --preset clean < in.txt > out.txt
//	charmap import --db ~/.charmap my-table.yaml
//	charmap apply --db ~/.charmap --name my-table --default delete in.txt
package main

import "github.com/benoit-pereira-da-silva/charmap/internal/cli"

func main() {
	cli.Main()
}
