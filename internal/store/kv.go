package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Persisted key names. The numeric suffix versions the blob schema: bumping it
// orphans old data instead of migrating it.
const (
	keyPlayers      = "playersData5"
	keyLastPlayerID = "lastedPlayerID5"
	keyCourts       = "courtsData5"
	keyShuttles     = "shuttlesData5"
	keyHistory      = "matchHistories2"
	keyQueue        = "queueData5"
	keyQueueCounter = "queueCounter5"
	keyDays         = "daysData1"
)

// KV is a JSON blob store over a single sqlite table. Every collection is
// written whole on each mutation; there are no partial writes.
type KV struct {
	db *sqlx.DB
}

func NewKV(db *sqlx.DB) *KV {
	return &KV{db: db}
}

// Get unmarshals the value stored under key into v. It returns false without
// touching v when the key is absent.
func (k *KV) Get(key string, v any) (bool, error) {
	var raw string
	err := k.db.Get(&raw, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode key %q: %w", key, err)
	}
	return true, nil
}

// Put marshals v and overwrites the value stored under key.
func (k *KV) Put(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode key %q: %w", key, err)
	}
	_, err = k.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, string(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (k *KV) Delete(key string) error {
	_, err := k.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// DeleteAll wipes every persisted key. Used by the reset flow.
func (k *KV) DeleteAll() error {
	_, err := k.db.Exec("DELETE FROM kv")
	return err
}
