// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
// Package store persists encoded expressions, such
// as property default values and index filters,
// in a badger key-value store.
//
// Each record holds the compressed encoded form of
// one expression along with its blake2b fingerprint,
// which is checked whenever the record is read back.
package store

import (
	"bytes"
	"strings"

	"github.com/SnellerInc/graphexpr/compr"
	"github.com/SnellerInc/graphexpr/expr"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Namespace groups stored expressions by use.
type Namespace string

const (
	// DefaultValues holds property default values.
	DefaultValues Namespace = "default"
	// IndexFilters holds index filter conditions.
	IndexFilters Namespace = "filter"
)

// Namespaces lists every namespace.
var Namespaces = []Namespace{DefaultValues, IndexFilters}

// ParseNamespace returns the namespace called s.
func ParseNamespace(s string) (Namespace, error) {
	for _, ns := range Namespaces {
		if string(ns) == s {
			return ns, nil
		}
	}
	return "", errors.Errorf("unknown namespace %q", s)
}

// ErrNotFound is returned when no expression is
// stored under a name.
var ErrNotFound = errors.New("expression not found")

// Options configures Open.
type Options struct {
	// Dir is the badger directory; it is
	// ignored when InMemory is set.
	Dir string
	// InMemory keeps the store in memory.
	InMemory bool
	// Compression names the compressor used
	// for new records (see compr.Compression).
	// The empty string means "zstd".
	Compression string
	// MaxDepth is the depth limit applied by
	// Put; zero means expr.DefaultMaxDepth.
	MaxDepth int
	// Logger receives store and badger logs.
	Logger log.Logger
}

// Store is a persistent set of named expressions.
// It is safe for concurrent use.
type Store struct {
	db       *badger.DB
	comp     compr.Compressor
	maxDepth int
	logger   log.Logger
}

// Entry is a stored expression.
type Entry struct {
	Namespace   Namespace
	Name        string
	Fingerprint Fingerprint
	// Algo is the compression of the record.
	Algo string
	// Size is the size of the encoded
	// expression, and Stored the size of
	// the record that holds it.
	Size, Stored int
	Expr         expr.Node
}

// Open opens the store described by opts.
func Open(opts Options) (*Store, error) {
	name := opts.Compression
	if name == "" {
		name = "zstd"
	}
	comp := compr.Compression(name)
	if comp == nil {
		return nil, errors.Errorf("store: unknown compression %q", name)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("store: no directory given")
	}
	bopts := badger.DefaultOptions(opts.Dir).
		WithLogger(badgerLogger{logger})
	if opts.InMemory {
		bopts = badger.DefaultOptions("").
			WithInMemory(true).
			WithLogger(badgerLogger{logger})
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "store: opening badger")
	}
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = expr.DefaultMaxDepth
	}
	return &Store{db: db, comp: comp, maxDepth: depth, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return errors.Wrap(s.db.Close(), "store: closing badger")
}

func key(ns Namespace, name string) []byte {
	return []byte(string(ns) + "/" + name)
}

func checkName(ns Namespace, name string) error {
	if _, err := ParseNamespace(string(ns)); err != nil {
		return err
	}
	if name == "" || strings.ContainsAny(name, "/\x00") {
		return errors.Errorf("invalid expression name %q", name)
	}
	return nil
}

// Put validates n and stores it as ns/name,
// replacing any expression stored there. n must
// pass expr.Check within the store depth limit and
// be encodable.
func (s *Store) Put(ns Namespace, name string, n expr.Node) (Fingerprint, error) {
	if err := checkName(ns, name); err != nil {
		return Fingerprint{}, err
	}
	if err := expr.Check(n, s.maxDepth); err != nil {
		return Fingerprint{}, errors.Wrapf(err, "%s/%s", ns, name)
	}
	encoded, err := expr.Encode(n)
	if err != nil {
		return Fingerprint{}, errors.Wrapf(err, "%s/%s", ns, name)
	}
	rec, sum := marshal(s.comp, encoded)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(ns, name), rec)
	})
	if err != nil {
		return Fingerprint{}, errors.Wrapf(err, "store: writing %s/%s", ns, name)
	}
	level.Debug(s.logger).Log("msg", "stored expression", "namespace", ns, "name", name,
		"fingerprint", sum.Short(), "size", len(encoded), "stored", len(rec))
	return sum, nil
}

// PutEncoded decodes p and stores the result as
// ns/name; see Put.
func (s *Store) PutEncoded(ns Namespace, name string, p []byte) (Fingerprint, error) {
	n, err := expr.Decode(p)
	if err != nil {
		return Fingerprint{}, errors.Wrapf(err, "%s/%s", ns, name)
	}
	return s.Put(ns, name, n)
}

func (s *Store) entry(ns Namespace, name string, p []byte) (*Entry, error) {
	rec, err := unmarshal(p)
	if err != nil {
		return nil, errors.Wrapf(err, "%s/%s", ns, name)
	}
	encoded, err := rec.decompress()
	if err != nil {
		return nil, errors.Wrapf(err, "%s/%s", ns, name)
	}
	n, err := expr.Decode(encoded)
	if err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "%s/%s: %s", ns, name, err)
	}
	return &Entry{
		Namespace:   ns,
		Name:        name,
		Fingerprint: rec.sum,
		Algo:        rec.algo,
		Size:        rec.size,
		Stored:      len(p),
		Expr:        n,
	}, nil
}

// Get returns the expression stored as ns/name.
func (s *Store) Get(ns Namespace, name string) (*Entry, error) {
	if err := checkName(ns, name); err != nil {
		return nil, err
	}
	var p []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(ns, name))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrNotFound, "%s/%s", ns, name)
		}
		if err != nil {
			return err
		}
		p, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.entry(ns, name, p)
}

// Delete removes ns/name.
func (s *Store) Delete(ns Namespace, name string) error {
	if err := checkName(ns, name); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		k := key(ns, name)
		if _, err := txn.Get(k); err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrNotFound, "%s/%s", ns, name)
		} else if err != nil {
			return err
		}
		return txn.Delete(k)
	})
	if err != nil {
		return err
	}
	level.Debug(s.logger).Log("msg", "deleted expression", "namespace", ns, "name", name)
	return nil
}

// List returns every expression in ns ordered by
// name. Records that cannot be read are logged and
// skipped.
func (s *Store) List(ns Namespace) ([]*Entry, error) {
	if _, err := ParseNamespace(string(ns)); err != nil {
		return nil, err
	}
	prefix := key(ns, "")
	var out []*Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			name := string(bytes.TrimPrefix(item.Key(), prefix))
			p, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			e, err := s.entry(ns, name, p)
			if err != nil {
				level.Warn(s.logger).Log("msg", "skipping unreadable expression", "err", err)
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "store: listing %s", ns)
	}
	return out, nil
}

// Update replaces the expression stored as
// ns/name with fn applied to it, and returns the
// new entry. The read and the write happen in
// one transaction.
func (s *Store) Update(ns Namespace, name string, fn func(expr.Node) (expr.Node, error)) (*Entry, error) {
	if err := checkName(ns, name); err != nil {
		return nil, err
	}
	var out *Entry
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key(ns, name))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(ErrNotFound, "%s/%s", ns, name)
		} else if err != nil {
			return err
		}
		p, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		old, err := s.entry(ns, name, p)
		if err != nil {
			return err
		}
		n, err := fn(old.Expr)
		if err != nil {
			return errors.Wrapf(err, "%s/%s", ns, name)
		}
		if err := expr.Check(n, s.maxDepth); err != nil {
			return errors.Wrapf(err, "%s/%s", ns, name)
		}
		encoded, err := expr.Encode(n)
		if err != nil {
			return errors.Wrapf(err, "%s/%s", ns, name)
		}
		rec, sum := marshal(s.comp, encoded)
		if err := txn.Set(key(ns, name), rec); err != nil {
			return err
		}
		out = &Entry{
			Namespace:   ns,
			Name:        name,
			Fingerprint: sum,
			Algo:        s.comp.Name(),
			Size:        len(encoded),
			Stored:      len(rec),
			Expr:        n,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
