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

package term

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/xsd"
)

// Datatype IRIs known to the typed accessors.
const (
	DatatypeString             = xsd.NS + "string"
	DatatypeNormalizedString   = xsd.NS + "normalizedString"
	DatatypeToken              = xsd.NS + "token"
	DatatypeAnyURI             = xsd.NS + "anyURI"
	DatatypeBoolean            = xsd.NS + "boolean"
	DatatypeDecimal            = xsd.NS + "decimal"
	DatatypeFloat              = xsd.NS + "float"
	DatatypeDouble             = xsd.NS + "double"
	DatatypeInteger            = xsd.NS + "integer"
	DatatypeLong               = xsd.NS + "long"
	DatatypeInt                = xsd.NS + "int"
	DatatypeShort              = xsd.NS + "short"
	DatatypeByte               = xsd.NS + "byte"
	DatatypeNonNegativeInteger = xsd.NS + "nonNegativeInteger"
	DatatypePositiveInteger    = xsd.NS + "positiveInteger"
	DatatypeNonPositiveInteger = xsd.NS + "nonPositiveInteger"
	DatatypeNegativeInteger    = xsd.NS + "negativeInteger"
	DatatypeUnsignedLong       = xsd.NS + "unsignedLong"
	DatatypeUnsignedInt        = xsd.NS + "unsignedInt"
	DatatypeUnsignedShort      = xsd.NS + "unsignedShort"
	DatatypeUnsignedByte       = xsd.NS + "unsignedByte"
	DatatypeDateTime           = xsd.NS + "dateTime"
	DatatypeDate               = xsd.NS + "date"
	DatatypeLangString         = rdf.NS + "langString"
)

var integerTypes = map[string]struct{}{
	DatatypeInteger:            {},
	DatatypeLong:               {},
	DatatypeInt:                {},
	DatatypeShort:              {},
	DatatypeByte:               {},
	DatatypeNonNegativeInteger: {},
	DatatypePositiveInteger:    {},
	DatatypeNonPositiveInteger: {},
	DatatypeNegativeInteger:    {},
	DatatypeUnsignedLong:       {},
	DatatypeUnsignedInt:        {},
	DatatypeUnsignedShort:      {},
	DatatypeUnsignedByte:       {},
}

var stringTypes = map[string]struct{}{
	DatatypeString:           {},
	DatatypeNormalizedString: {},
	DatatypeToken:            {},
	DatatypeAnyURI:           {},
	DatatypeLangString:       {},
}

// Literal is a data value: a lexical form tagged with a datatype IRI, and a
// language for rdf:langString literals.
type Literal struct {
	Lexical  string
	Datatype string
	Lang     string
}

func (Literal) isTerm() {}

// NewString returns an xsd:string literal.
func NewString(s string) Literal {
	return Literal{Lexical: s, Datatype: DatatypeString}
}

// NewLangString returns a language-tagged literal. An empty lang yields a
// plain xsd:string.
func NewLangString(s, lang string) Literal {
	if lang == "" {
		return NewString(s)
	}
	return Literal{Lexical: s, Datatype: DatatypeLangString, Lang: strings.ToLower(lang)}
}

// NewTyped returns a literal of the given datatype. An empty datatype means
// xsd:string.
func NewTyped(lexical, datatype string) Literal {
	if datatype == "" {
		datatype = DatatypeString
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

// NewInt returns an xsd:integer literal.
func NewInt(v int64) Literal {
	return Literal{Lexical: strconv.FormatInt(v, 10), Datatype: DatatypeInteger}
}

// NewFloat returns an xsd:double literal.
func NewFloat(v float64) Literal {
	var lex string
	switch {
	case math.IsInf(v, 1):
		lex = "INF"
	case math.IsInf(v, -1):
		lex = "-INF"
	case math.IsNaN(v):
		lex = "NaN"
	default:
		lex = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return Literal{Lexical: lex, Datatype: DatatypeDouble}
}

// NewBool returns an xsd:boolean literal.
func NewBool(v bool) Literal {
	return Literal{Lexical: strconv.FormatBool(v), Datatype: DatatypeBoolean}
}

// NewTime returns an xsd:dateTime literal.
func NewTime(v time.Time) Literal {
	return Literal{Lexical: v.Format(time.RFC3339Nano), Datatype: DatatypeDateTime}
}

// Value implements Term.
func (l Literal) Value() quad.Value {
	switch {
	case l.Datatype == DatatypeString || l.Datatype == "":
		return quad.String(l.Lexical)
	case l.Lang != "":
		return quad.LangString{Value: quad.String(l.Lexical), Lang: l.Lang}
	}
	return quad.TypedString{Value: quad.String(l.Lexical), Type: quad.IRI(l.Datatype)}
}

// String renders the literal double-quoted, followed by its language or
// its short datatype when it is not a plain string.
func (l Literal) String() string {
	s := `"` + l.Lexical + `"`
	switch {
	case l.Lang != "":
		return s + "@" + l.Lang
	case l.Datatype == DatatypeString || l.Datatype == "":
		return s
	}
	return s + "^^" + voc.ShortIRI(l.Datatype)
}

// IsStringLike reports whether the literal holds text.
func (l Literal) IsStringLike() bool {
	if l.Datatype == "" {
		return true
	}
	_, ok := stringTypes[l.Datatype]
	return ok
}

// IsInteger reports whether the literal's datatype is an integer type.
func (l Literal) IsInteger() bool {
	_, ok := integerTypes[l.Datatype]
	return ok
}

// IsNumeric reports whether the literal's datatype is numeric.
func (l Literal) IsNumeric() bool {
	switch l.Datatype {
	case DatatypeDecimal, DatatypeFloat, DatatypeDouble:
		return true
	}
	return l.IsInteger()
}

func (l Literal) mismatch(want string) error {
	return fmt.Errorf("%w: %v is not %s", ErrTypeMismatch, l, want)
}

func (l Literal) malformed(err error) error {
	return fmt.Errorf("%w: %v: %v", ErrMalformed, l, err)
}

// Int returns the value of an integer literal.
func (l Literal) Int() (int64, error) {
	if !l.IsInteger() {
		return 0, l.mismatch("an integer")
	}
	v, err := strconv.ParseInt(strings.TrimSpace(l.Lexical), 10, 64)
	if err != nil {
		return 0, l.malformed(err)
	}
	return v, nil
}

// Float returns the value of any numeric literal.
func (l Literal) Float() (float64, error) {
	if !l.IsNumeric() {
		return 0, l.mismatch("numeric")
	}
	lex := strings.TrimSpace(l.Lexical)
	switch lex {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return 0, l.malformed(err)
	}
	return v, nil
}

// Bool returns the value of an xsd:boolean literal.
func (l Literal) Bool() (bool, error) {
	if l.Datatype != DatatypeBoolean {
		return false, l.mismatch("a boolean")
	}
	switch strings.TrimSpace(l.Lexical) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, l.malformed(fmt.Errorf("invalid boolean %q", l.Lexical))
}

// Time returns the value of an xsd:dateTime or xsd:date literal.
func (l Literal) Time() (time.Time, error) {
	lex := strings.TrimSpace(l.Lexical)
	var (
		v   time.Time
		err error
	)
	switch l.Datatype {
	case DatatypeDateTime:
		v, err = time.Parse(time.RFC3339Nano, lex)
		if err != nil {
			v, err = time.Parse("2006-01-02T15:04:05", lex)
		}
	case DatatypeDate:
		v, err = time.Parse("2006-01-02", lex)
	default:
		return time.Time{}, l.mismatch("a date")
	}
	if err != nil {
		return time.Time{}, l.malformed(err)
	}
	return v, nil
}
