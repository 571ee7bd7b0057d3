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

// Package leveldb is a persistent fact store on LevelDB.
//
// Every fact is written to an append-only log and to the index of its
// relation, both keyed by a sequence number so scans return facts in
// insertion order. A content hash key makes writes idempotent; a bloom
// filter over those hashes avoids most existence lookups.
package leveldb

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	boom "github.com/tylertreat/BoomFilters"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
	"github.com/ontokit/ontokit/term"
)

func init() {
	factstore.Register(QuadStoreType, factstore.Registration{
		NewFunc:      newQuadStore,
		InitFunc:     createNewLevelDB,
		IsPersistent: true,
	})
}

const (
	DefaultCacheSize       = 2
	DefaultWriteBufferSize = 20
	DefaultBloomSize       = 1000 * 1000
	QuadStoreType          = "leveldb"
	seqKey                 = "__seq"
	versionKey             = "__version"

	latestDataVersion = 1
	nilDataVersion    = 0
)

const (
	logPrefix  = 'l'
	hashPrefix = 'h'
)

var order = binary.BigEndian

func indexPrefix(kind factstore.Kind, predicate string) []byte {
	b := make([]byte, 0, len(predicate)+2)
	switch kind {
	case factstore.KindClass:
		b = append(b, 'c')
	case factstore.KindObject:
		b = append(b, 'o')
	default:
		b = append(b, 'd')
	}
	b = append(b, predicate...)
	return append(b, 0)
}

func seqBytes(prefix []byte, seq uint64) []byte {
	b := make([]byte, len(prefix)+8)
	copy(b, prefix)
	order.PutUint64(b[len(prefix):], seq)
	return b
}

func hashKey(f factstore.Fact) []byte {
	sum := factstore.HashFact(f)
	return append([]byte{hashPrefix}, sum[:]...)
}

var _ factstore.Store = (*QuadStore)(nil)

type QuadStore struct {
	dbOpts    *opt.Options
	db        *leveldb.DB
	path      string
	writeopts *opt.WriteOptions
	readopts  *opt.ReadOptions

	// mu serializes writers and guards seq and the bloom filter.
	mu     sync.Mutex
	open   bool
	seq    uint64
	exists *boom.BloomFilter
}

func createNewLevelDB(path string, _ factstore.Options) error {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		clog.Errorf("could not create database: %v", err)
		return err
	}
	defer db.Close()
	_, err = db.Get([]byte(versionKey), nil)
	if err != nil && err != leveldb.ErrNotFound {
		clog.Errorf("couldn't read from leveldb during init")
		return err
	}
	if err != leveldb.ErrNotFound {
		return factstore.ErrDatabaseExists
	}
	return setVersion(db, latestDataVersion, &opt.WriteOptions{Sync: true})
}

func newQuadStore(path string, options factstore.Options) (factstore.Store, error) {
	return Open(path, options)
}

// Open opens an initialized database at path.
func Open(path string, options factstore.Options) (*QuadStore, error) {
	qs := &QuadStore{path: path}
	cacheSize, err := options.IntKey("cache_size_mb", DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	writeBufferSize, err := options.IntKey("write_buffer_mb", DefaultWriteBufferSize)
	if err != nil {
		return nil, err
	}
	bloomSize, err := options.IntKey("bloom_size", DefaultBloomSize)
	if err != nil {
		return nil, err
	}
	syncWrites, err := options.BoolKey("sync", false)
	if err != nil {
		return nil, err
	}
	qs.dbOpts = &opt.Options{
		BlockCacheCapacity: cacheSize * opt.MiB,
		WriteBuffer:        writeBufferSize * opt.MiB,
		ErrorIfMissing:     true,
	}
	qs.writeopts = &opt.WriteOptions{Sync: syncWrites}
	qs.readopts = &opt.ReadOptions{}
	db, err := leveldb.OpenFile(qs.path, qs.dbOpts)
	if err != nil {
		clog.Errorf("could not open leveldb at %q: %v", path, err)
		return nil, err
	}
	qs.db = db
	vers, err := getVersion(qs.db)
	if err != nil {
		db.Close()
		return nil, err
	} else if vers == nilDataVersion {
		db.Close()
		return nil, factstore.ErrNotInitialized
	} else if vers != latestDataVersion {
		db.Close()
		return nil, fmt.Errorf("leveldb: data version is out of date (%d vs %d)", vers, latestDataVersion)
	}
	if err = qs.getMetadata(); err != nil {
		db.Close()
		return nil, err
	}
	if err = qs.initBloomFilter(uint(bloomSize)); err != nil {
		db.Close()
		return nil, err
	}
	qs.open = true
	if clog.V(1) {
		clog.Infof("opened leveldb at %q with %d facts", path, qs.seq)
	}
	return qs, nil
}

func setVersion(db *leveldb.DB, version int64, wo *opt.WriteOptions) error {
	buf := make([]byte, 8)
	order.PutUint64(buf, uint64(version))
	err := db.Put([]byte(versionKey), buf, wo)
	if err != nil {
		clog.Errorf("couldn't write version")
		return err
	}
	return nil
}

func getVersion(db *leveldb.DB) (int64, error) {
	data, err := db.Get([]byte(versionKey), nil)
	if err == leveldb.ErrNotFound {
		return nilDataVersion, nil
	} else if err != nil {
		return 0, err
	} else if len(data) != 8 {
		return 0, fmt.Errorf("version value format is unknown")
	}
	return int64(order.Uint64(data)), nil
}

func (qs *QuadStore) getMetadata() error {
	data, err := qs.db.Get([]byte(seqKey), qs.readopts)
	if err == leveldb.ErrNotFound {
		return nil
	} else if err != nil {
		return err
	} else if len(data) != 8 {
		return fmt.Errorf("leveldb: sequence value format is unknown")
	}
	qs.seq = order.Uint64(data)
	return nil
}

func (qs *QuadStore) initBloomFilter(n uint) error {
	if n == 0 {
		n = DefaultBloomSize
	}
	qs.exists = boom.NewBloomFilter(n, 0.05)
	it := qs.db.NewIterator(util.BytesPrefix([]byte{hashPrefix}), qs.readopts)
	defer it.Release()
	for it.Next() {
		qs.exists.Add(clone(it.Key()))
	}
	return it.Error()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// has reports whether the hash key is stored. Must be called with mu held.
func (qs *QuadStore) has(key []byte) (bool, error) {
	if !qs.exists.Test(key) {
		mBloomHit.Inc()
		return false, nil
	}
	mBloomMiss.Inc()
	return qs.db.Has(key, qs.readopts)
}

// AddQuads writes the quads in one batch, skipping facts already stored.
func (qs *QuadStore) AddQuads(quads []quad.Quad) error {
	facts, err := factstore.ClassifyAll(quads)
	if err != nil {
		return err
	}
	start := time.Now()
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if !qs.open {
		return factstore.ErrClosed
	}
	batch := new(leveldb.Batch)
	seq := qs.seq
	pending := make(map[string]struct{})
	var added [][]byte
	for _, f := range facts {
		hk := hashKey(f)
		if _, ok := pending[string(hk)]; ok {
			continue
		}
		ok, err := qs.has(hk)
		if err != nil {
			return err
		} else if ok {
			continue
		}
		rec, err := factstore.MarshalFact(f)
		if err != nil {
			return err
		}
		seq++
		batch.Put(seqBytes(indexPrefix(f.Kind, f.Predicate), seq), rec)
		batch.Put(seqBytes([]byte{logPrefix}, seq), rec)
		batch.Put(hk, nil)
		pending[string(hk)] = struct{}{}
		added = append(added, hk)
	}
	if len(added) == 0 {
		return nil
	}
	buf := make([]byte, 8)
	order.PutUint64(buf, seq)
	batch.Put([]byte(seqKey), buf)
	if err := qs.db.Write(batch, qs.writeopts); err != nil {
		clog.Errorf("couldn't write to leveldb: %v", err)
		return err
	}
	qs.seq = seq
	for _, hk := range added {
		qs.exists.Add(hk)
	}
	mWriteBatch.Observe(float64(len(added)))
	mWriteSeconds.Observe(time.Since(start).Seconds())
	return nil
}

// Snapshot implements factstore.Store using a LevelDB snapshot.
func (qs *QuadStore) Snapshot() (factstore.Snapshot, error) {
	snap, err := qs.db.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &Snapshot{r: reader{src: snap, ro: qs.readopts}, snap: snap}, nil
}

func (qs *QuadStore) reader() reader {
	return reader{src: qs.db, ro: qs.readopts}
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
	return qs.reader().scan([]byte{logPrefix}, fn)
}

func (qs *QuadStore) Size() (int64, error) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return int64(qs.seq), nil
}

// Stats returns the LevelDB statistics property.
func (qs *QuadStore) Stats() (string, error) {
	return qs.db.GetProperty("leveldb.stats")
}

func (qs *QuadStore) Close() error {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if !qs.open {
		return nil
	}
	qs.open = false
	return qs.db.Close()
}

type source interface {
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

type reader struct {
	src source
	ro  *opt.ReadOptions
}

func (r reader) scan(prefix []byte, fn func(factstore.Fact) error) error {
	it := r.src.NewIterator(util.BytesPrefix(prefix), r.ro)
	defer it.Release()
	for it.Next() {
		f, err := factstore.UnmarshalFact(it.Value())
		if err != nil {
			return err
		}
		if err = fn(f); err != nil {
			return err
		}
	}
	return it.Error()
}

func (r reader) IndividualsOf(class string) ([]term.Individual, error) {
	var out []term.Individual
	err := r.scan(indexPrefix(factstore.KindClass, class), func(f factstore.Fact) error {
		out = append(out, f.Subject)
		return nil
	})
	return out, err
}

func (r reader) ObjectEdges(property string) ([]factstore.ObjectEdge, error) {
	var out []factstore.ObjectEdge
	err := r.scan(indexPrefix(factstore.KindObject, property), func(f factstore.Fact) error {
		out = append(out, f.ObjectEdge())
		return nil
	})
	return out, err
}

func (r reader) DataEdges(property string) ([]factstore.DataEdge, error) {
	var out []factstore.DataEdge
	err := r.scan(indexPrefix(factstore.KindData, property), func(f factstore.Fact) error {
		out = append(out, f.DataEdge())
		return nil
	})
	return out, err
}

// Snapshot is a read view over a LevelDB snapshot.
type Snapshot struct {
	r    reader
	snap *leveldb.Snapshot
}

func (s *Snapshot) IndividualsOf(class string) ([]term.Individual, error) {
	return s.r.IndividualsOf(class)
}

func (s *Snapshot) ObjectEdges(property string) ([]factstore.ObjectEdge, error) {
	return s.r.ObjectEdges(property)
}

func (s *Snapshot) DataEdges(property string) ([]factstore.DataEdge, error) {
	return s.r.DataEdges(property)
}

func (s *Snapshot) Release() { s.snap.Release() }
