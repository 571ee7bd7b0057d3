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

// Package sql is a persistent fact store on database/sql. Flavors for
// particular databases live in subpackages and register themselves with
// Register.
//
// Facts are rows of a single table holding the encoded fact, its relation
// (kind and predicate) and a unique content hash.
package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/term"
)

func registerQuadStore(name, typ string) {
	factstore.Register(name, factstore.Registration{
		NewFunc: func(addr string, options factstore.Options) (factstore.Store, error) {
			return New(typ, addr, options)
		},
		InitFunc: func(addr string, options factstore.Options) error {
			return Init(typ, addr, options)
		},
		IsPersistent: true,
	})
}

func connect(typ string, addr string, options factstore.Options) (*sql.DB, Registration, error) {
	fl, ok := types[typ]
	if !ok {
		return nil, fl, fmt.Errorf("%w: sql flavor %q", factstore.ErrBackendNotRegistered, typ)
	}
	conn, err := sql.Open(fl.Driver, addr)
	if err != nil {
		clog.Errorf("couldn't open database: %v", err)
		return nil, fl, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		clog.Errorf("couldn't connect to database: %v", err)
		return nil, fl, err
	}
	maxOpen, err := options.IntKey("max_open_conns", 0)
	if err != nil {
		conn.Close()
		return nil, fl, err
	}
	conn.SetMaxOpenConns(maxOpen)
	return conn, fl, nil
}

// Init creates the facts table and its indexes.
func Init(typ string, addr string, options factstore.Options) error {
	conn, fl, err := connect(typ, addr, options)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := context.Background()
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		clog.Errorf("couldn't begin creation transaction: %s", err)
		return err
	}
	defer tx.Rollback()
	if _, err = tx.Exec(fl.factsTable()); err != nil {
		err = fl.convError(err)
		if err != factstore.ErrDatabaseExists {
			clog.Errorf("cannot create facts table: %v", err)
		}
		return err
	}
	for _, index := range fl.factIndexes() {
		if _, err = tx.Exec(index); err != nil {
			clog.Errorf("cannot create index: %v", err)
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	for _, stmt := range fl.InitStatements {
		if _, err = conn.Exec(stmt); err != nil {
			clog.Errorf("cannot run init statement %q: %v", stmt, err)
			return err
		}
	}
	return nil
}

type QuadStore struct {
	db     *sql.DB
	flavor Registration
	insert string
	query  string
}

// New opens a store on an initialized database.
func New(typ string, addr string, options factstore.Options) (*QuadStore, error) {
	conn, fl, err := connect(typ, addr, options)
	if err != nil {
		return nil, err
	}
	qs := &QuadStore{
		db:     conn,
		flavor: fl,
		insert: fl.insertStatement(),
		query:  fl.selectStatement(),
	}
	if _, err := qs.Size(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", factstore.ErrNotInitialized, err)
	}
	return qs, nil
}

// AddQuads inserts the quads in one transaction. Facts already stored are
// skipped by the unique hash index.
func (qs *QuadStore) AddQuads(quads []quad.Quad) error {
	facts, err := factstore.ClassifyAll(quads)
	if err != nil {
		return err
	}
	tx, err := qs.db.Begin()
	if err != nil {
		clog.Errorf("couldn't begin write transaction: %v", err)
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.Prepare(qs.insert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, f := range facts {
		rec, err := factstore.MarshalFact(f)
		if err != nil {
			return err
		}
		hash := factstore.HashFact(f)
		if _, err = stmt.Exec(int(f.Kind), f.Predicate, hash[:], rec); err != nil {
			err = qs.flavor.convError(err)
			clog.Errorf("couldn't exec INSERT statement: %v", err)
			return err
		}
	}
	return tx.Commit()
}

type querier interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type reader struct {
	q     querier
	query string
}

func (r reader) scan(rows *sql.Rows, err error, fn func(factstore.Fact) error) error {
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var rec []byte
		if err := rows.Scan(&rec); err != nil {
			return err
		}
		f, err := factstore.UnmarshalFact(rec)
		if err != nil {
			return err
		}
		if err = fn(f); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r reader) relation(kind factstore.Kind, predicate string, fn func(factstore.Fact) error) error {
	rows, err := r.q.Query(r.query, int(kind), predicate)
	return r.scan(rows, err, fn)
}

func (r reader) IndividualsOf(class string) ([]term.Individual, error) {
	var out []term.Individual
	err := r.relation(factstore.KindClass, class, func(f factstore.Fact) error {
		out = append(out, f.Subject)
		return nil
	})
	return out, err
}

func (r reader) ObjectEdges(property string) ([]factstore.ObjectEdge, error) {
	var out []factstore.ObjectEdge
	err := r.relation(factstore.KindObject, property, func(f factstore.Fact) error {
		out = append(out, f.ObjectEdge())
		return nil
	})
	return out, err
}

func (r reader) DataEdges(property string) ([]factstore.DataEdge, error) {
	var out []factstore.DataEdge
	err := r.relation(factstore.KindData, property, func(f factstore.Fact) error {
		out = append(out, f.DataEdge())
		return nil
	})
	return out, err
}

func (r reader) size() (int64, error) {
	var n int64
	err := r.q.QueryRow(`SELECT COUNT(*) FROM facts;`).Scan(&n)
	return n, err
}

func (qs *QuadStore) reader() reader {
	return reader{q: qs.db, query: qs.query}
}

func (qs *QuadStore) IndividualsOf(class string) ([]term.Individual, error) {
	return qs.reader().IndividualsOf(class)
}

func (qs *QuadStore) ObjectEdges(property string) ([]factstore.ObjectEdge, error) {
	return qs.reader().ObjectEdges(property)
}

func (qs *QuadStore) DataEdges(property string) ([]factstore.DataEdge, error) {
	return qs.reader().DataEdges(property)
}

func (qs *QuadStore) ForEach(fn func(factstore.Fact) error) error {
	rows, err := qs.db.Query(`SELECT record FROM facts ORDER BY seq;`)
	return qs.reader().scan(rows, err, fn)
}

func (qs *QuadStore) Size() (int64, error) {
	return qs.reader().size()
}

// Snapshot reads inside a read-only transaction. The transaction's view is
// pinned by a first read before Snapshot returns.
func (qs *QuadStore) Snapshot() (factstore.Snapshot, error) {
	tx, err := qs.db.BeginTx(context.Background(), qs.flavor.ReadTx)
	if err != nil {
		return nil, err
	}
	s := &Snapshot{reader: reader{q: tx, query: qs.query}, tx: tx}
	if _, err := s.size(); err != nil {
		tx.Rollback()
		return nil, err
	}
	return s, nil
}

func (qs *QuadStore) Close() error {
	return qs.db.Close()
}

// Snapshot is a read view over a transaction.
type Snapshot struct {
	reader
	tx *sql.Tx
}

func (s *Snapshot) Release() {
	if err := s.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		clog.Warningf("couldn't release snapshot: %v", err)
	}
}
