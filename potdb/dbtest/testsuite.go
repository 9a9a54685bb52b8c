// Copyright 2024 The hotpot Authors
// This file is part of the hotpot library.
//
// The hotpot library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The hotpot library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the hotpot library. If not, see <http://www.gnu.org/licenses/>.

// Package dbtest holds a conformance suite run against every potdb backend.
package dbtest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hotpot-network/hotpot/potdb"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() potdb.KeyValueStore) {
	t.Run("KeyValueOperations", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("foo")

		if got, err := db.Has(key); err != nil {
			t.Error(err)
		} else if got {
			t.Errorf("wrong value: %t", got)
		}
		if _, err := db.Get(key); !errors.Is(err, potdb.ErrNotFound) {
			t.Errorf("get missing key: have %v, want %v", err, potdb.ErrNotFound)
		}

		value := []byte("hello world")
		if err := db.Put(key, value); err != nil {
			t.Error(err)
		}

		if got, err := db.Has(key); err != nil {
			t.Error(err)
		} else if !got {
			t.Errorf("wrong value: %t", got)
		}

		if got, err := db.Get(key); err != nil {
			t.Error(err)
		} else if !bytes.Equal(got, value) {
			t.Errorf("wrong value: %q", got)
		}

		if err := db.Delete(key); err != nil {
			t.Error(err)
		}

		if got, err := db.Has(key); err != nil {
			t.Error(err)
		} else if got {
			t.Errorf("wrong value: %t", got)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		for _, k := range []string{"1", "2", "3", "4"} {
			if err := b.Put([]byte(k), nil); err != nil {
				t.Fatal(err)
			}
		}

		if has, err := db.Has([]byte("1")); err != nil {
			t.Fatal(err)
		} else if has {
			t.Error("db contains element before batch write")
		}

		if err := b.Write(); err != nil {
			t.Fatal(err)
		}
		for _, k := range []string{"1", "2", "3", "4"} {
			if has, err := db.Has([]byte(k)); err != nil || !has {
				t.Fatalf("key %q missing after batch write: %v", k, err)
			}
		}

		// Reset and delete some keys
		b.Reset()
		if b.ValueSize() != 0 {
			t.Fatalf("batch not reset, size %d", b.ValueSize())
		}
		for _, k := range []string{"2", "4"} {
			if err := b.Delete([]byte(k)); err != nil {
				t.Fatal(err)
			}
		}
		if err := b.Write(); err != nil {
			t.Fatal(err)
		}
		for k, want := range map[string]bool{"1": true, "2": false, "3": true, "4": false} {
			if has, err := db.Has([]byte(k)); err != nil {
				t.Fatal(err)
			} else if has != want {
				t.Errorf("key %q: have %t want %t", k, has, want)
			}
		}
	})

	t.Run("BatchValueSize", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		b.Put([]byte("ab"), []byte("cdef"))
		b.Delete([]byte("xyz"))
		if have := b.ValueSize(); have != 9 {
			t.Fatalf("value size: have %d want 9", have)
		}
	})

	t.Run("OverwriteAndCopy", func(t *testing.T) {
		db := New()
		defer db.Close()

		value := []byte("first")
		if err := db.Put([]byte("k"), value); err != nil {
			t.Fatal(err)
		}
		value[0] = 'X'
		if err := db.Put([]byte("k"), []byte("second")); err != nil {
			t.Fatal(err)
		}
		if got, err := db.Get([]byte("k")); err != nil || string(got) != "second" {
			t.Fatalf("have %q, %v; want \"second\"", got, err)
		}
	})
}
