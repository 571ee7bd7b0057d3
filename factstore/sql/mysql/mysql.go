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

// Package mysql registers the MySQL flavor of the SQL fact store.
package mysql

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/ontokit/ontokit/factstore"
	csql "github.com/ontokit/ontokit/factstore/sql"
)

const Type = "mysql"

// errTableExists is ER_TABLE_EXISTS_ERROR.
const errTableExists = 1050

func init() {
	csql.Register(Type, csql.Registration{
		Driver:    "mysql",
		HashType:  `BINARY(20)`,
		BytesType: `BLOB`,
		TextType:  `VARCHAR(512)`,
		SeqType:   `SERIAL`,
		InsertIgnore: func(table, cols, values string) string {
			return "INSERT IGNORE INTO `" + table + "` (" + cols + `) VALUES (` + values + `);`
		},
		ReadTx: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true},
		Error:  convError,
	})
}

func convError(err error) error {
	var e *mysql.MySQLError
	if errors.As(err, &e) && e.Number == errTableExists {
		return factstore.ErrDatabaseExists
	}
	return err
}
