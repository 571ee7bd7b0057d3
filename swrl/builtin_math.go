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
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ontokit/ontokit/term"
)

var (
	errDivisionByZero = fmt.Errorf("%w: division by zero", term.ErrMalformed)
	errOverflow       = fmt.Errorf("%w: integer overflow", term.ErrMalformed)
)

// errNotInteger makes arithmetic redo the fold on doubles.
var errNotInteger = errors.New("result is not an integer")

func init() {
	RegisterBuiltIn("add", arithmetic("add", 3, -1, addInt,
		func(x, y float64) (float64, error) { return x + y, nil }))
	RegisterBuiltIn("subtract", arithmetic("subtract", 3, 3, subInt,
		func(x, y float64) (float64, error) { return x - y, nil }))
	RegisterBuiltIn("multiply", arithmetic("multiply", 3, -1, mulInt,
		func(x, y float64) (float64, error) { return x * y, nil }))
	RegisterBuiltIn("mod", arithmetic("mod", 3, 3,
		func(x, y int64) (int64, error) {
			if y == 0 {
				return 0, errDivisionByZero
			}
			if y == -1 {
				return 0, nil
			}
			return x % y, nil
		},
		func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, errDivisionByZero
			}
			return math.Mod(x, y), nil
		}))
	RegisterBuiltIn("pow", arithmetic("pow", 3, 3, powInt,
		func(x, y float64) (float64, error) {
			if x == 0 && y < 0 {
				return 0, errDivisionByZero
			}
			return math.Pow(x, y), nil
		}))
	RegisterBuiltIn("divide", newDerivation("divide", 3, 3, divide))

	RegisterBuiltIn("abs", unary("abs",
		func(x int64) (int64, error) {
			if x < 0 {
				return subInt(0, x)
			}
			return x, nil
		},
		math.Abs))
	RegisterBuiltIn("unaryMinus", unary("unaryMinus",
		func(x int64) (int64, error) { return subInt(0, x) },
		func(x float64) float64 { return -x }))
	RegisterBuiltIn("ceiling", unary("ceiling", identity, math.Ceil))
	RegisterBuiltIn("floor", unary("floor", identity, math.Floor))
	RegisterBuiltIn("round", unary("round", identity, math.Round))

	RegisterBuiltIn("stringConcat", newDerivation("stringConcat", 2, -1, func(v []term.Term) (term.Term, error) {
		var sb strings.Builder
		for _, t := range v {
			s, err := stringValue(t)
			if err != nil {
				return nil, err
			}
			sb.WriteString(s)
		}
		return term.NewString(sb.String()), nil
	}))
	RegisterBuiltIn("stringLength", newDerivation("stringLength", 2, 2, func(v []term.Term) (term.Term, error) {
		s, err := stringValue(v[0])
		if err != nil {
			return nil, err
		}
		return term.NewInt(int64(utf8.RuneCountInString(s))), nil
	}))
	RegisterBuiltIn("upperCase", stringMap("upperCase", strings.ToUpper))
	RegisterBuiltIn("lowerCase", stringMap("lowerCase", strings.ToLower))
	RegisterBuiltIn("normalizeSpace", stringMap("normalizeSpace", func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}))
}

func identity(x int64) (int64, error) { return x, nil }

func addInt(x, y int64) (int64, error) {
	r := x + y
	if (x > 0 && y > 0 && r < 0) || (x < 0 && y < 0 && r >= 0) {
		return 0, errOverflow
	}
	return r, nil
}

func subInt(x, y int64) (int64, error) {
	r := x - y
	if (x >= 0 && y < 0 && r < 0) || (x < 0 && y > 0 && r >= 0) {
		return 0, errOverflow
	}
	return r, nil
}

func mulInt(x, y int64) (int64, error) {
	if x == 0 || y == 0 {
		return 0, nil
	}
	r := x * y
	if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, errOverflow
	}
	return r, nil
}

// numbers converts the values to literals and reports whether all of them
// are integers.
func numbers(v []term.Term) ([]term.Literal, bool, error) {
	lits := make([]term.Literal, len(v))
	ints := true
	for i, t := range v {
		l, err := term.AsLiteral(t)
		if err != nil {
			return nil, false, err
		}
		if !l.IsNumeric() {
			return nil, false, fmt.Errorf("%w: %v is not numeric", term.ErrTypeMismatch, l)
		}
		ints = ints && l.IsInteger()
		lits[i] = l
	}
	return lits, ints, nil
}

// arithmetic folds the operands left to right. The result is an integer
// when every operand is one and a double otherwise.
func arithmetic(name string, min, max int, fi func(x, y int64) (int64, error), ff func(x, y float64) (float64, error)) BuiltInFunc {
	return newDerivation(name, min, max, func(v []term.Term) (term.Term, error) {
		lits, ints, err := numbers(v)
		if err != nil {
			return nil, err
		}
		if ints {
			r, err := foldInt(lits, fi)
			if err == nil {
				return r, nil
			} else if !errors.Is(err, errNotInteger) {
				return nil, err
			}
		}
		acc, err := lits[0].Float()
		if err != nil {
			return nil, err
		}
		for _, l := range lits[1:] {
			x, err := l.Float()
			if err != nil {
				return nil, err
			}
			if acc, err = ff(acc, x); err != nil {
				return nil, err
			}
		}
		return term.NewFloat(acc), nil
	})
}

func foldInt(lits []term.Literal, fi func(x, y int64) (int64, error)) (term.Term, error) {
	acc, err := lits[0].Int()
	if err != nil {
		return nil, err
	}
	for _, l := range lits[1:] {
		x, err := l.Int()
		if err != nil {
			return nil, err
		}
		if acc, err = fi(acc, x); err != nil {
			return nil, err
		}
	}
	return term.NewInt(acc), nil
}

// powInt leaves negative exponents to the double fold.
func powInt(x, y int64) (int64, error) {
	if y < 0 {
		return 0, errNotInteger
	}
	r := int64(1)
	for ; y > 0; y >>= 1 {
		var err error
		if y&1 == 1 {
			if r, err = mulInt(r, x); err != nil {
				return 0, err
			}
		}
		if y > 1 {
			if x, err = mulInt(x, x); err != nil {
				return 0, err
			}
		}
	}
	return r, nil
}

func divide(v []term.Term) (term.Term, error) {
	lits, _, err := numbers(v)
	if err != nil {
		return nil, err
	}
	x, err := lits[0].Float()
	if err != nil {
		return nil, err
	}
	y, err := lits[1].Float()
	if err != nil {
		return nil, err
	}
	if y == 0 {
		return nil, errDivisionByZero
	}
	return term.NewFloat(x / y), nil
}

func unary(name string, fi func(int64) (int64, error), ff func(float64) float64) BuiltInFunc {
	return newDerivation(name, 2, 2, func(v []term.Term) (term.Term, error) {
		lits, ints, err := numbers(v)
		if err != nil {
			return nil, err
		}
		if ints {
			x, err := lits[0].Int()
			if err != nil {
				return nil, err
			}
			r, err := fi(x)
			if err != nil {
				return nil, err
			}
			return term.NewInt(r), nil
		}
		x, err := lits[0].Float()
		if err != nil {
			return nil, err
		}
		return term.NewFloat(ff(x)), nil
	})
}

func stringMap(name string, f func(string) string) BuiltInFunc {
	return newDerivation(name, 2, 2, func(v []term.Term) (term.Term, error) {
		s, err := stringValue(v[0])
		if err != nil {
			return nil, err
		}
		return term.NewString(f(s)), nil
	})
}
