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

package factstore

import (
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/pquads"
	"github.com/cayleygraph/quad/voc/rdf"
)

// ErrCorrupt is returned when a stored fact record cannot be decoded.
var ErrCorrupt = errors.New("factstore: corrupt fact record")

// MarshalFact encodes a fact for persistent backends. Records are a kind
// byte followed by length prefixed fields: subject, predicate, object and
// label. Values are protobuf encoded with pquads; an empty field is a nil
// value.
func MarshalFact(f Fact) ([]byte, error) {
	buf := []byte{byte(f.Kind)}
	var err error
	if buf, err = appendValue(buf, f.Subject.Value()); err != nil {
		return nil, err
	}
	buf = appendField(buf, []byte(f.Predicate))
	var obj quad.Value
	if f.Object != nil {
		obj = f.Object.Value()
	}
	if buf, err = appendValue(buf, obj); err != nil {
		return nil, err
	}
	return appendValue(buf, f.Label)
}

func appendField(buf, p []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(p)))
	return append(buf, p...)
}

func appendValue(buf []byte, v quad.Value) ([]byte, error) {
	if v == nil {
		return appendField(buf, nil), nil
	}
	p, err := pquads.MarshalValue(v)
	if err != nil {
		return nil, err
	}
	return appendField(buf, p), nil
}

type decoder struct {
	buf []byte
	err error
}

func (d *decoder) field() []byte {
	if d.err != nil {
		return nil
	}
	n, sz := binary.Uvarint(d.buf)
	if sz <= 0 || uint64(len(d.buf)-sz) < n {
		d.err = ErrCorrupt
		return nil
	}
	p := d.buf[sz : sz+int(n)]
	d.buf = d.buf[sz+int(n):]
	return p
}

func (d *decoder) value() quad.Value {
	p := d.field()
	if d.err != nil || len(p) == 0 {
		return nil
	}
	v, err := pquads.UnmarshalValue(p)
	if err != nil {
		d.err = err
	}
	return v
}

// UnmarshalFact decodes a record written by MarshalFact.
func UnmarshalFact(data []byte) (Fact, error) {
	if len(data) == 0 {
		return Fact{}, ErrCorrupt
	}
	kind := Kind(data[0])
	d := &decoder{buf: data[1:]}
	s := d.value()
	p := string(d.field())
	o := d.value()
	label := d.value()
	if d.err != nil {
		return Fact{}, d.err
	}
	q := quad.Quad{Subject: s, Predicate: quad.IRI(p), Object: o, Label: label}
	if kind == KindClass {
		q.Predicate, q.Object = quad.IRI(rdf.Type), quad.IRI(p)
	}
	f, err := Classify(q)
	if err != nil {
		return Fact{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if f.Kind != kind {
		return Fact{}, fmt.Errorf("%w: kind %v stored as %v", ErrCorrupt, f.Kind, kind)
	}
	return f, nil
}

// HashFact returns a digest of the fact's content, ignoring its label.
func HashFact(f Fact) [sha1.Size]byte {
	return sha1.Sum([]byte(f.Key()))
}
