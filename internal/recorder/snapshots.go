package recorder

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdEnc, _ = zstd.NewWriter(nil)
	zstdDec, _ = zstd.NewReader(nil)
)

// SaveSnapshot stores a tick's snapshot as zstd-compressed JSON.
// Snapshot blobs dominate archive size, so they are compressed while
// the scalar series stays queryable as plain rows.
func (db *DB) SaveSnapshot(runID string, tick int, snap any) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	blob := zstdEnc.EncodeAll(raw, nil)

	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO snapshots (run_id, tick, data) VALUES (?, ?, ?)",
		runID, tick, blob,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot tick %d: %w", tick, err)
	}
	return nil
}

// LoadSnapshot reads one tick's snapshot back as raw JSON.
func (db *DB) LoadSnapshot(runID string, tick int) (json.RawMessage, error) {
	var blob []byte
	err := db.conn.Get(&blob,
		"SELECT data FROM snapshots WHERE run_id = ? AND tick = ?", runID, tick)
	if err != nil {
		return nil, err
	}
	raw, err := zstdDec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot tick %d: %w", tick, err)
	}
	return json.RawMessage(raw), nil
}

// SnapshotTicks lists the ticks with archived snapshots for a run.
func (db *DB) SnapshotTicks(runID string) ([]int, error) {
	var ticks []int
	err := db.conn.Select(&ticks,
		"SELECT tick FROM snapshots WHERE run_id = ? ORDER BY tick", runID)
	return ticks, err
}
