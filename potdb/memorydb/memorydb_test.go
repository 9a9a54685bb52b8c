package memorydb

import (
	"testing"

	"github.com/hotpot-network/hotpot/potdb"
	"github.com/hotpot-network/hotpot/potdb/dbtest"
)

func TestMemoryDB(t *testing.T) {
	t.Run("DatabaseSuite", func(t *testing.T) {
		dbtest.TestDatabaseSuite(t, func() potdb.KeyValueStore {
			return New()
		})
	})
}

func TestMemoryDBClosed(t *testing.T) {
	db := New()
	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if _, err := db.Get([]byte("k")); err != errMemorydbClosed {
		t.Fatalf("get after close: have %v, want %v", err, errMemorydbClosed)
	}
}
