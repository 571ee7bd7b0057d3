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

// Package postgres registers the PostgreSQL flavor of the SQL fact store.
package postgres

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ontokit/ontokit/factstore"
	csql "github.com/ontokit/ontokit/factstore/sql"
)

const Type = "postgres"

func init() {
	csql.Register(Type, csql.Registration{
		Driver:    "postgres",
		HashType:  `BYTEA`,
		BytesType: `BYTEA`,
		SeqType:   `BIGSERIAL`,
		Placeholder: func(n int) string {
			return fmt.Sprintf("$%d", n)
		},
		InsertIgnore: func(table, cols, values string) string {
			return `INSERT INTO ` + pq.QuoteIdentifier(table) + ` (` + cols + `) VALUES (` + values + `) ON CONFLICT (hash) DO NOTHING;`
		},
		ReadTx: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
		Error:  ConvError,
	})
}

func ConvError(err error) error {
	e, ok := err.(*pq.Error)
	if !ok {
		return err
	}
	switch e.Code {
	case "42P07":
		return factstore.ErrDatabaseExists
	}
	return err
}
