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
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/ontokit/ontokit/internal/lru"
	"github.com/ontokit/ontokit/term"
)

func init() {
	RegisterBuiltIn("matches", newMatchesBuiltIn)
}

// RegexFlags are the options of the matches built-in.
type RegexFlags uint8

const (
	IgnoreCase RegexFlags = 1 << iota
	Singleline
	Multiline
	IgnorePatternWhitespace
)

var flagChars = []struct {
	c    byte
	flag RegexFlags
	opt  regexp2.RegexOptions
}{
	{'i', IgnoreCase, regexp2.IgnoreCase},
	{'s', Singleline, regexp2.Singleline},
	{'m', Multiline, regexp2.Multiline},
	{'x', IgnorePatternWhitespace, regexp2.IgnorePatternWhitespace},
}

// ParseRegexFlags reads a concatenation of the characters i, s, m and x,
// in any order.
func ParseRegexFlags(s string) (RegexFlags, error) {
	var f RegexFlags
next:
	for i := 0; i < len(s); i++ {
		for _, fc := range flagChars {
			if s[i] == fc.c {
				f |= fc.flag
				continue next
			}
		}
		return 0, fmt.Errorf("%w: unknown regex flag %q", ErrInvalidArgument, s[i])
	}
	return f, nil
}

// String returns the flag characters in the order i, s, m, x.
func (f RegexFlags) String() string {
	var sb strings.Builder
	for _, fc := range flagChars {
		if f&fc.flag != 0 {
			sb.WriteByte(fc.c)
		}
	}
	return sb.String()
}

func (f RegexFlags) options() regexp2.RegexOptions {
	var o regexp2.RegexOptions
	for _, fc := range flagChars {
		if f&fc.flag != 0 {
			o |= fc.opt
		}
	}
	return o
}

// MatchTimeout bounds a single regex match. A row whose match times out
// is dropped.
var MatchTimeout = time.Second

var regexCache = lru.New[string, *regexp2.Regexp](256)

func compileRegex(pattern string, flags RegexFlags) (*regexp2.Regexp, error) {
	key := flags.String() + "/" + pattern
	if re, ok := regexCache.Get(key); ok {
		return re, nil
	}
	re, err := regexp2.Compile(pattern, flags.options())
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = MatchTimeout
	regexCache.Put(key, re)
	return re, nil
}

// Matches keeps the rows whose value of Arg matches Pattern.
// Individuals are matched on their IRI and string literals on their
// lexical form; any other value drops the row.
type Matches struct {
	Arg     Argument
	Pattern string
	Flags   RegexFlags

	re *regexp2.Regexp
}

// NewMatches returns the built-in matches(arg, pattern, flags). The pattern
// is compiled here, so an invalid pattern fails construction.
func NewMatches(arg Argument, pattern string, flags RegexFlags) (*Matches, error) {
	const fn = "NewMatches"
	if err := checkArg(fn, "arg", arg); err != nil {
		return nil, err
	}
	re, err := compileRegex(pattern, flags)
	if err != nil {
		return nil, argError(fn, "pattern", fmt.Errorf("%w: %v", ErrInvalidArgument, err))
	}
	return &Matches{Arg: arg, Pattern: pattern, Flags: flags, re: re}, nil
}

func newMatchesBuiltIn(args ...Argument) (BuiltIn, error) {
	const name = "matches"
	if err := checkArity(name, args, 2, 3); err != nil {
		return nil, err
	}
	pattern, err := constantString(name, "pattern", args[1])
	if err != nil {
		return nil, err
	}
	var flags RegexFlags
	if len(args) == 3 {
		s, err := constantString(name, "flags", args[2])
		if err != nil {
			return nil, err
		}
		if flags, err = ParseRegexFlags(s); err != nil {
			return nil, argError(name, "flags", err)
		}
	}
	return NewMatches(args[0], pattern, flags)
}

func constantString(fn, param string, a Argument) (string, error) {
	c, ok := a.(Constant)
	if !ok {
		return "", argError(fn, param, fmt.Errorf("%w: %v must be a constant", ErrInvalidArgument, a))
	}
	s, err := stringValue(c.Term)
	if err != nil {
		return "", argError(fn, param, fmt.Errorf("%w: %v", ErrInvalidArgument, err))
	}
	return s, nil
}

func (m *Matches) Name() string { return "matches" }
func (m *Matches) IRI() string  { return NS + "matches" }

func (m *Matches) Args() []Argument {
	args := []Argument{m.Arg, Str(m.Pattern)}
	if m.Flags != 0 {
		args = append(args, Str(m.Flags.String()))
	}
	return args
}

func (m *Matches) String() string { return builtInString(m.Name(), m.Args()) }

func (m *Matches) inputs(func(Variable) bool) []Variable { return variablesOf(m.Arg) }

func (m *Matches) output(func(Variable) bool) (Variable, bool) { return "", false }

func (m *Matches) evaluate(t *Table) *Table {
	return testRows(t, m.Name(), []Argument{m.Arg}, func(v []term.Term) (bool, error) {
		var s string
		switch v := v[0].(type) {
		case term.Individual:
			s = v.IRI
		default:
			var err error
			if s, err = stringValue(v); err != nil {
				return false, err
			}
		}
		return m.re.MatchString(s)
	})
}
