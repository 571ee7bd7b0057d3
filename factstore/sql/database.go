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

package sql

import (
	"database/sql"

	"github.com/ontokit/ontokit/factstore"
)

var types = make(map[string]Registration)

// Register makes a database/sql flavor available as a fact store backend
// under name.
func Register(name string, f Registration) {
	if f.Driver == "" {
		panic("no sql driver in type definition")
	}
	types[name] = f

	registerQuadStore(name, name)
}

type Registration struct {
	Driver    string // sql driver to use on dial
	HashType  string // type for hash fields
	BytesType string // type for binary fields
	TextType  string // type for indexed text fields
	SeqType   string // type for the sequence column

	InitStatements []string // run after the table is created

	Placeholder func(n int) string
	// InsertIgnore renders an INSERT statement that skips rows
	// conflicting with the unique hash index.
	InsertIgnore func(table, cols, values string) string

	// ReadTx are the options of snapshot transactions. Nil means the
	// driver default.
	ReadTx *sql.TxOptions

	Error func(error) error // error conversion function
}

func (r Registration) factsTable() string {
	htyp := r.HashType
	if htyp == "" {
		htyp = "BYTEA"
	}
	btyp := r.BytesType
	if btyp == "" {
		btyp = "BYTEA"
	}
	ttyp := r.TextType
	if ttyp == "" {
		ttyp = "TEXT"
	}
	styp := r.SeqType
	if styp == "" {
		styp = "SERIAL"
	}
	return `CREATE TABLE facts (
	seq ` + styp + ` PRIMARY KEY,
	kind SMALLINT NOT NULL,
	predicate ` + ttyp + ` NOT NULL,
	hash ` + htyp + ` NOT NULL,
	record ` + btyp + ` NOT NULL
);`
}

func (r Registration) factIndexes() []string {
	return []string{
		`CREATE UNIQUE INDEX facts_hash ON facts (hash);`,
		`CREATE INDEX facts_relation ON facts (kind, predicate, seq);`,
	}
}

func (r Registration) placeholder(n int) string {
	if r.Placeholder == nil {
		return "?"
	}
	return r.Placeholder(n)
}

func (r Registration) convError(err error) error {
	if err == nil || r.Error == nil {
		return err
	}
	return r.Error(err)
}

func (r Registration) insertStatement() string {
	cols := "kind, predicate, hash, record"
	values := r.placeholder(1) + ", " + r.placeholder(2) + ", " + r.placeholder(3) + ", " + r.placeholder(4)
	if r.InsertIgnore != nil {
		return r.InsertIgnore("facts", cols, values)
	}
	return `INSERT INTO facts (` + cols + `) VALUES (` + values + `);`
}

func (r Registration) selectStatement() string {
	return `SELECT record FROM facts WHERE kind = ` + r.placeholder(1) +
		` AND predicate = ` + r.placeholder(2) + ` ORDER BY seq;`
}

var _ factstore.Store = (*QuadStore)(nil)
