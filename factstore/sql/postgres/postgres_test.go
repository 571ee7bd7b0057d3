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

package postgres

import (
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/factstore/factstoretest"
)

// The suite needs a running server, for example:
//
//	ONTOKIT_POSTGRES_DSN='postgres://postgres@localhost/ontokit_test?sslmode=disable'
func makePostgres(t testing.TB) (factstore.Store, func()) {
	addr := os.Getenv("ONTOKIT_POSTGRES_DSN")
	if addr == "" {
		t.Skip("ONTOKIT_POSTGRES_DSN is not set")
	}
	conn, err := sql.Open("postgres", addr)
	require.NoError(t, err)
	_, err = conn.Exec(`DROP TABLE IF EXISTS facts;`)
	conn.Close()
	require.NoError(t, err)

	require.NoError(t, factstore.Init(Type, addr, nil))
	qs, err := factstore.Open(Type, addr, nil)
	require.NoError(t, err)
	return qs, func() {
		qs.Close()
	}
}

func TestPostgres(t *testing.T) {
	factstoretest.TestAll(t, makePostgres)
}
