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

//go:build cgo

// Package sqlite registers the SQLite flavor of the SQL fact store.
package sqlite

import (
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/ontokit/ontokit/factstore"
	csql "github.com/ontokit/ontokit/factstore/sql"
)

const Type = "sqlite"

const driverName = "sqlite3-ontokit"

func init() {
	sql.Register(driverName,
		&sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				_, err := conn.Exec("PRAGMA busy_timeout = 5000;", nil)
				return err
			},
		})
	csql.Register(Type, csql.Registration{
		Driver:         driverName,
		HashType:       `BLOB`,
		BytesType:      `BLOB`,
		SeqType:        `INTEGER`,
		InitStatements: []string{`PRAGMA journal_mode = WAL;`},
		InsertIgnore: func(table, cols, values string) string {
			return `INSERT OR IGNORE INTO ` + table + ` (` + cols + `) VALUES (` + values + `);`
		},
		Error: convError,
	})
}

func convError(err error) error {
	if e, ok := err.(sqlite3.Error); ok && e.Code == sqlite3.ErrError &&
		strings.Contains(e.Error(), "already exists") {
		return factstore.ErrDatabaseExists
	}
	return err
}
