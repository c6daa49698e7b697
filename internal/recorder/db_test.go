package recorder

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAndSeriesRoundTrip(t *testing.T) {
	db := openTestDB(t)

	params := map[string]any{"size": 10, "threshold": 0.3}
	id, err := db.BeginRun("schelling", 42, 3, params)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	want := []float64{0.5, 0.62, 0.71}
	if err := db.SaveSeries(id, want); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSeries(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("series length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("series[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != id || runs[0].Model != "schelling" || runs[0].Seed != 42 {
		t.Fatalf("ListRuns = %+v", runs)
	}

	run, err := db.GetRun(id)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(run.Params), &decoded); err != nil {
		t.Fatalf("params not valid JSON: %v", err)
	}
	if decoded["threshold"] != 0.3 {
		t.Errorf("params threshold = %v", decoded["threshold"])
	}
}

func TestSaveSeriesReplacesPreviousValues(t *testing.T) {
	db := openTestDB(t)
	id, err := db.BeginRun("sugarscape", 1, 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := db.SaveSeries(id, []float64{400, 399, 398}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSeries(id, []float64{400, 395}); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSeries(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] != 395 {
		t.Fatalf("series after replace = %v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	id, err := db.BeginRun("sugarscape", 7, 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	type payload struct {
		Tick   int       `json:"tick"`
		Values []float64 `json:"values"`
	}
	want := payload{Tick: 5, Values: []float64{1, 2, 3, 4}}
	if err := db.SaveSnapshot(id, 5, want); err != nil {
		t.Fatal(err)
	}

	raw, err := db.LoadSnapshot(id, 5)
	if err != nil {
		t.Fatal(err)
	}
	var got payload
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got.Tick != 5 || len(got.Values) != 4 || got.Values[3] != 4 {
		t.Fatalf("snapshot round trip = %+v", got)
	}

	ticks, err := db.SnapshotTicks(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(ticks) != 1 || ticks[0] != 5 {
		t.Fatalf("SnapshotTicks = %v", ticks)
	}
}
