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

// Package rulefile reads rules from YAML documents.
//
//	prefixes:
//	  ex: http://example.org/
//	rules:
//	  - name: adult
//	    if:
//	      - class: ex:Person
//	        args: ["?p"]
//	      - data: ex:age
//	        args: ["?p", "?a"]
//	    where:
//	      - builtin: greaterThan
//	        args: ["?a", 17]
//	    then:
//	      - class: ex:Adult
//	        args: ["?p"]
//
// A string argument starting with '?' is a variable, a double-quoted string
// is an xsd:string literal, and any other string is an individual IRI,
// prefix expanded. YAML integers, floats and booleans are typed literals.
// A mapping {literal, datatype, lang} spells out any other literal.
package rulefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cayleygraph/quad/voc"
	"gopkg.in/yaml.v3"

	"github.com/ontokit/ontokit/swrl"
	"github.com/ontokit/ontokit/term"
)

// ErrInvalidRule is returned for rule entries that cannot be built.
var ErrInvalidRule = errors.New("rulefile: invalid rule")

// File is a rule document.
type File struct {
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
	Rules    []Rule            `yaml:"rules"`
}

// Rule is one rule entry.
type Rule struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	If          []Atom    `yaml:"if"`
	Where       []BuiltIn `yaml:"where,omitempty"`
	Then        []Atom    `yaml:"then"`
	// Reorder enables smallest-first joins.
	Reorder bool `yaml:"reorder,omitempty"`
}

// Atom names exactly one of Class, Object or Data.
type Atom struct {
	Class   string `yaml:"class,omitempty"`
	Object  string `yaml:"object,omitempty"`
	Data    string `yaml:"data,omitempty"`
	Inverse bool   `yaml:"inverse,omitempty"`
	Args    []Arg  `yaml:"args"`
}

type BuiltIn struct {
	BuiltIn string `yaml:"builtin"`
	Args    []Arg  `yaml:"args"`
}

// Literal is the mapping form of a literal argument.
type Literal struct {
	Literal  string `yaml:"literal"`
	Datatype string `yaml:"datatype,omitempty"`
	Lang     string `yaml:"lang,omitempty"`
}

// Arg is a rule argument as written in the document.
type Arg struct {
	Tag     string
	Value   string
	Literal *Literal
}

// UnmarshalYAML implements yaml.Unmarshaler for Arg.
func (a *Arg) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		a.Tag, a.Value = value.ShortTag(), value.Value
		return nil
	case yaml.MappingNode:
		var lit Literal
		if err := value.Decode(&lit); err != nil {
			return err
		}
		a.Literal = &lit
		return nil
	}
	return fmt.Errorf("line %d: argument must be a scalar or a literal mapping", value.Line)
}

// MarshalYAML implements yaml.Marshaler for Arg.
func (a Arg) MarshalYAML() (interface{}, error) {
	if a.Literal != nil {
		return a.Literal, nil
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: a.Tag, Value: a.Value}, nil
}

// ReadFile reads and builds the rules of the file at path.
func ReadFile(path string) ([]*swrl.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Decode reads and builds the rules of a document.
func Decode(r io.Reader) ([]*swrl.Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return Parse(data)
}

// Parse builds the rules of a document.
func Parse(data []byte) ([]*swrl.Rule, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}
	return f.Build()
}

// Build returns the rules of the file, in order. Prefixes declared in the
// file are added to the globally registered ones.
func (f *File) Build() ([]*swrl.Rule, error) {
	ns := voc.Clone()
	for p, full := range f.Prefixes {
		ns.Register(voc.Namespace{Full: full, Prefix: strings.TrimSuffix(p, ":") + ":"})
	}
	b := builder{ns: ns}
	seen := make(map[string]bool, len(f.Rules))
	rules := make([]*swrl.Rule, 0, len(f.Rules))
	for i, r := range f.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rules[%d]: %w: missing name", i, ErrInvalidRule)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("rule %q: %w: duplicate name", r.Name, ErrInvalidRule)
		}
		seen[r.Name] = true
		rule, err := b.rule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

type builder struct {
	ns *voc.Namespaces
}

func (b builder) rule(r Rule) (*swrl.Rule, error) {
	body := make([]swrl.Atom, 0, len(r.If))
	for i, a := range r.If {
		atom, err := b.atom(a)
		if err != nil {
			return nil, fmt.Errorf("if[%d]: %w", i, err)
		}
		body = append(body, atom)
	}
	builtIns := make([]swrl.BuiltIn, 0, len(r.Where))
	for i, w := range r.Where {
		args, err := b.args(w.Args)
		if err != nil {
			return nil, fmt.Errorf("where[%d]: %w", i, err)
		}
		bi, err := swrl.NewBuiltIn(w.BuiltIn, args...)
		if err != nil {
			return nil, fmt.Errorf("where[%d]: %w", i, err)
		}
		builtIns = append(builtIns, bi)
	}
	head := make([]swrl.Atom, 0, len(r.Then))
	for i, a := range r.Then {
		atom, err := b.atom(a)
		if err != nil {
			return nil, fmt.Errorf("then[%d]: %w", i, err)
		}
		head = append(head, atom)
	}
	ant, err := swrl.NewAntecedent(body, builtIns...)
	if err != nil {
		return nil, err
	}
	ant.Reorder = r.Reorder
	cons, err := swrl.NewConsequent(head...)
	if err != nil {
		return nil, err
	}
	rule, err := swrl.NewRule(r.Name, ant, cons)
	if err != nil {
		return nil, err
	}
	rule.Description = r.Description
	return rule, nil
}

func (b builder) atom(a Atom) (swrl.Atom, error) {
	n := 0
	for _, s := range []string{a.Class, a.Object, a.Data} {
		if s != "" {
			n++
		}
	}
	if n != 1 {
		return nil, fmt.Errorf("%w: an atom names exactly one of class, object or data", ErrInvalidRule)
	}
	if a.Inverse && a.Object == "" {
		return nil, fmt.Errorf("%w: only object atoms can be inverse", ErrInvalidRule)
	}
	args, err := b.args(a.Args)
	if err != nil {
		return nil, err
	}
	want := 2
	if a.Class != "" {
		want = 1
	}
	if len(args) != want {
		return nil, fmt.Errorf("%w: %w: got %d arguments, want %d", ErrInvalidRule, swrl.ErrArity, len(args), want)
	}
	switch {
	case a.Class != "":
		return swrl.NewClassAtom(b.ns.FullIRI(a.Class), args[0])
	case a.Inverse:
		return swrl.NewInverseObjectPropertyAtom(b.ns.FullIRI(a.Object), args[0], args[1])
	case a.Object != "":
		return swrl.NewObjectPropertyAtom(b.ns.FullIRI(a.Object), args[0], args[1])
	}
	return swrl.NewDataPropertyAtom(b.ns.FullIRI(a.Data), args[0], args[1])
}

func (b builder) args(in []Arg) ([]swrl.Argument, error) {
	out := make([]swrl.Argument, len(in))
	for i, a := range in {
		arg, err := b.arg(a)
		if err != nil {
			return nil, fmt.Errorf("args[%d]: %w", i, err)
		}
		out[i] = arg
	}
	return out, nil
}

func (b builder) arg(a Arg) (swrl.Argument, error) {
	if l := a.Literal; l != nil {
		if l.Lang != "" {
			return swrl.Lit(term.NewLangString(l.Literal, l.Lang)), nil
		}
		return swrl.Lit(term.NewTyped(l.Literal, b.ns.FullIRI(l.Datatype))), nil
	}
	switch a.Tag {
	case "!!int":
		v, err := strconv.ParseInt(a.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		return swrl.Int(v), nil
	case "!!float":
		v, err := strconv.ParseFloat(a.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		return swrl.Float(v), nil
	case "!!bool":
		v, err := strconv.ParseBool(a.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		return swrl.Lit(term.NewBool(v)), nil
	case "!!null":
		return nil, nil
	}
	s := a.Value
	switch {
	case strings.HasPrefix(s, "?"):
		return swrl.Var(s), nil
	case len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`):
		return swrl.Str(s[1 : len(s)-1]), nil
	}
	return swrl.Ind(b.ns.FullIRI(s)), nil
}
