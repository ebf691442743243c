package storage

import (
	"context"
	"path/filepath"
	"testing"
)

type storeFactory func(t *testing.T) Store

func sqliteFactory(t *testing.T) Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blobs.db")
	store, err := OpenSQLite(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func memoryFactory(t *testing.T) Store {
	t.Helper()
	return NewMemoryStore()
}

func runStoreContract(t *testing.T, factory storeFactory) {
	ctx := context.Background()

	t.Run("read absent key", func(t *testing.T) {
		store := factory(t)
		var dest map[string]any
		found, err := store.Read(ctx, KeyCartItems, &dest)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if found {
			t.Fatal("expected absent key")
		}
	})

	t.Run("write then read round trip", func(t *testing.T) {
		store := factory(t)
		if err := store.Write(ctx, KeyPaymentMethod, "PayPal"); err != nil {
			t.Fatalf("write: %v", err)
		}
		var method string
		found, err := store.Read(ctx, KeyPaymentMethod, &method)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !found || method != "PayPal" {
			t.Fatalf("expected PayPal, got found=%v method=%q", found, method)
		}
	})

	t.Run("write replaces whole blob", func(t *testing.T) {
		store := factory(t)
		if err := store.Write(ctx, KeyCartItems, []string{"a", "b"}); err != nil {
			t.Fatalf("first write: %v", err)
		}
		if err := store.Write(ctx, KeyCartItems, []string{"c"}); err != nil {
			t.Fatalf("second write: %v", err)
		}
		var items []string
		found, err := store.Read(ctx, KeyCartItems, &items)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !found || len(items) != 1 || items[0] != "c" {
			t.Fatalf("expected last write to win, got %v", items)
		}
	})

	t.Run("clear removes key", func(t *testing.T) {
		store := factory(t)
		if err := store.Write(ctx, KeyShippingAddress, map[string]string{"city": "Lyon"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := store.Clear(ctx, KeyShippingAddress); err != nil {
			t.Fatalf("clear: %v", err)
		}
		var dest map[string]string
		found, err := store.Read(ctx, KeyShippingAddress, &dest)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if found {
			t.Fatal("expected key to be gone")
		}
	})

	t.Run("clear absent key is a no-op", func(t *testing.T) {
		store := factory(t)
		if err := store.Clear(ctx, "neverWritten"); err != nil {
			t.Fatalf("clear absent: %v", err)
		}
	})
}

func TestSQLiteStoreContract(t *testing.T) {
	runStoreContract(t, sqliteFactory)
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, memoryFactory)
}

func TestSQLiteStoreCorruptBlobReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blobs.db")
	store, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer func() { _ = store.Close() }()

	record := blobRecord{Key: KeyUserInfo, Value: "{not json"}
	if err := store.conn.Create(&record).Error; err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	var dest []map[string]any
	found, err := store.Read(ctx, KeyUserInfo, &dest)
	if err != nil {
		t.Fatalf("read corrupt blob should not error, got %v", err)
	}
	if found {
		t.Fatal("corrupt blob must read as absent")
	}
}

func TestMemoryStoreCorruptBlobReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Corrupt(KeyUserInfo, []byte("{not json"))

	var dest []map[string]any
	found, err := store.Read(ctx, KeyUserInfo, &dest)
	if err != nil {
		t.Fatalf("read corrupt blob should not error, got %v", err)
	}
	if found {
		t.Fatal("corrupt blob must read as absent")
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blobs.db")

	store, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	if err := store.Write(ctx, KeyPaymentMethod, "BankTransfer"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen sqlite store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	var method string
	found, err := reopened.Read(ctx, KeyPaymentMethod, &method)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !found || method != "BankTransfer" {
		t.Fatalf("expected persisted value, got found=%v method=%q", found, method)
	}
}
