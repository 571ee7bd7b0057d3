// Copyright 2024 The Ontokit Authors. All rights reserved.
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

// Package swrl evaluates Horn-like rules over a fact store.
//
// A Rule has an antecedent made of atoms (class membership, object and data
// property edges) and built-ins (comparisons, string tests, arithmetic),
// and a consequent made of atom templates. Applying a rule evaluates each
// antecedent atom into a table of variable bindings, natural-joins the
// tables, filters the result through the built-ins and instantiates the
// consequent once per surviving row:
//
//	Person(?p) ^ age(?p,?a) ^ greaterThan(?a,"17"^^xsd:integer) -> Adult(?p)
//
// Rules are immutable once built and may be applied concurrently. Applying
// a rule never writes to the store; the caller decides what to do with the
// returned inferences.
//
// Errors are split in two tiers. Building an atom, built-in or rule with a
// missing or ill-typed argument fails immediately. During evaluation, a
// row whose values do not fit a built-in (a number given to a string test,
// say) is dropped without failing the rule.
package swrl
