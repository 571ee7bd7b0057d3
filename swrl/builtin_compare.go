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

package swrl

import (
	"fmt"
	"math"
	"strings"

	"github.com/ontokit/ontokit/term"
)

func init() {
	RegisterBuiltIn("equal", newPredicate("equal", 2, 2, func(v []term.Term) (bool, error) {
		return valueEqual(v[0], v[1]), nil
	}))
	RegisterBuiltIn("notEqual", newPredicate("notEqual", 2, 2, func(v []term.Term) (bool, error) {
		return !valueEqual(v[0], v[1]), nil
	}))
	RegisterBuiltIn("lessThan", ordering("lessThan", func(c int) bool { return c < 0 }))
	RegisterBuiltIn("lessThanOrEqual", ordering("lessThanOrEqual", func(c int) bool { return c <= 0 }))
	RegisterBuiltIn("greaterThan", ordering("greaterThan", func(c int) bool { return c > 0 }))
	RegisterBuiltIn("greaterThanOrEqual", ordering("greaterThanOrEqual", func(c int) bool { return c >= 0 }))

	RegisterBuiltIn("stringEqualIgnoreCase", stringTest("stringEqualIgnoreCase", strings.EqualFold))
	RegisterBuiltIn("contains", stringTest("contains", strings.Contains))
	RegisterBuiltIn("containsIgnoreCase", stringTest("containsIgnoreCase", func(s, sub string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}))
	RegisterBuiltIn("startsWith", stringTest("startsWith", strings.HasPrefix))
	RegisterBuiltIn("endsWith", stringTest("endsWith", strings.HasSuffix))
}

// Equal returns the built-in equal(a,b).
func Equal(a, b Argument) (BuiltIn, error) { return NewBuiltIn("equal", a, b) }

// NotEqual returns the built-in notEqual(a,b).
func NotEqual(a, b Argument) (BuiltIn, error) { return NewBuiltIn("notEqual", a, b) }

// LessThan returns the built-in lessThan(a,b).
func LessThan(a, b Argument) (BuiltIn, error) { return NewBuiltIn("lessThan", a, b) }

// LessThanOrEqual returns the built-in lessThanOrEqual(a,b).
func LessThanOrEqual(a, b Argument) (BuiltIn, error) { return NewBuiltIn("lessThanOrEqual", a, b) }

// GreaterThan returns the built-in greaterThan(a,b).
func GreaterThan(a, b Argument) (BuiltIn, error) { return NewBuiltIn("greaterThan", a, b) }

// GreaterThanOrEqual returns the built-in greaterThanOrEqual(a,b).
func GreaterThanOrEqual(a, b Argument) (BuiltIn, error) {
	return NewBuiltIn("greaterThanOrEqual", a, b)
}

func ordering(name string, holds func(int) bool) BuiltInFunc {
	return newPredicate(name, 2, 2, func(v []term.Term) (bool, error) {
		c, err := compareTerms(v[0], v[1])
		if err != nil {
			return false, err
		}
		return holds(c), nil
	})
}

func stringTest(name string, holds func(s, t string) bool) BuiltInFunc {
	return newPredicate(name, 2, 2, func(v []term.Term) (bool, error) {
		s, err := stringValue(v[0])
		if err != nil {
			return false, err
		}
		t, err := stringValue(v[1])
		if err != nil {
			return false, err
		}
		return holds(s, t), nil
	})
}

// stringValue returns the lexical form of a string-like literal.
func stringValue(t term.Term) (string, error) {
	lit, err := term.AsLiteral(t)
	if err != nil {
		return "", err
	}
	if !lit.IsStringLike() {
		return "", fmt.Errorf("%w: %v is not a string", term.ErrTypeMismatch, lit)
	}
	return lit.Lexical, nil
}

// compareTerms orders two literals: numerically when both are numeric,
// lexically when both are strings, and by lexical form when both share
// another datatype (dateTime values are compared as instants). Anything
// else is a type mismatch.
func compareTerms(a, b term.Term) (int, error) {
	la, err := term.AsLiteral(a)
	if err != nil {
		return 0, err
	}
	lb, err := term.AsLiteral(b)
	if err != nil {
		return 0, err
	}
	switch {
	case la.IsNumeric() && lb.IsNumeric():
		return compareNumbers(la, lb)
	case la.IsStringLike() && lb.IsStringLike():
		return strings.Compare(la.Lexical, lb.Lexical), nil
	case la.Datatype != lb.Datatype:
		return 0, fmt.Errorf("%w: cannot compare %v with %v", term.ErrTypeMismatch, la, lb)
	case la.Datatype == term.DatatypeDateTime:
		ta, err := la.Time()
		if err != nil {
			return 0, err
		}
		tb, err := lb.Time()
		if err != nil {
			return 0, err
		}
		switch {
		case ta.Before(tb):
			return -1, nil
		case ta.After(tb):
			return 1, nil
		}
		return 0, nil
	}
	return strings.Compare(la.Lexical, lb.Lexical), nil
}

func compareNumbers(a, b term.Literal) (int, error) {
	if a.IsInteger() && b.IsInteger() {
		x, err := a.Int()
		if err != nil {
			return 0, err
		}
		y, err := b.Int()
		if err != nil {
			return 0, err
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}
	x, err := a.Float()
	if err != nil {
		return 0, err
	}
	y, err := b.Float()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, fmt.Errorf("%w: NaN is unordered: %v, %v", term.ErrTypeMismatch, a, b)
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

// valueEqual compares individuals by name and literals by value when they
// can be ordered, by term identity otherwise. Terms of different kinds are
// never equal.
func valueEqual(a, b term.Term) bool {
	_, aLit := a.(term.Literal)
	_, bLit := b.(term.Literal)
	if !aLit || !bLit {
		return a == b
	}
	c, err := compareTerms(a, b)
	if term.IsMismatch(err) && a == b {
		return !isNaN(a)
	}
	return err == nil && c == 0
}

func isNaN(t term.Term) bool {
	l, ok := t.(term.Literal)
	if !ok || !l.IsNumeric() {
		return false
	}
	f, err := l.Float()
	return err == nil && math.IsNaN(f)
}
