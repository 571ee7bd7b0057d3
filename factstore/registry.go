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
	"errors"
	"fmt"
	"sort"
)

var (
	ErrBackendNotRegistered  = errors.New("factstore: backend is not registered")
	ErrOperationNotSupported = errors.New("factstore: operation is not supported")
	ErrDatabaseExists        = errors.New("factstore: cannot init; database already exists")
	ErrNotInitialized        = errors.New("factstore: not initialized")
)

var storeRegistry = make(map[string]Registration)

type NewStoreFunc func(path string, opts Options) (Store, error)
type InitStoreFunc func(path string, opts Options) error

type Registration struct {
	NewFunc      NewStoreFunc
	InitFunc     InitStoreFunc
	IsPersistent bool
}

// Register makes a backend available by name. It panics if the name is
// taken or NewFunc is nil.
func Register(name string, register Registration) {
	if register.NewFunc == nil {
		panic("NewFunc must not be nil")
	}

	if _, found := storeRegistry[name]; found {
		panic(fmt.Sprintf("already registered backend %q", name))
	}
	storeRegistry[name] = register
}

// Open opens an existing store of the named backend.
func Open(name string, path string, opts Options) (Store, error) {
	r, registered := storeRegistry[name]
	if !registered {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotRegistered, name)
	}
	return r.NewFunc(path, opts)
}

// Init creates a new empty store. Backends that need no initialization
// return ErrOperationNotSupported.
func Init(name string, path string, opts Options) error {
	r, registered := storeRegistry[name]
	if !registered {
		return fmt.Errorf("%w: %q", ErrBackendNotRegistered, name)
	} else if r.InitFunc == nil {
		return ErrOperationNotSupported
	}
	return r.InitFunc(path, opts)
}

func IsRegistered(name string) bool {
	_, ok := storeRegistry[name]
	return ok
}

func IsPersistent(name string) bool {
	return storeRegistry[name].IsPersistent
}

// Backends lists registered backend names, sorted.
func Backends() []string {
	t := make([]string, 0, len(storeRegistry))
	for n := range storeRegistry {
		t = append(t, n)
	}
	sort.Strings(t)
	return t
}
