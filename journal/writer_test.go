package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/Kode-Bolds/Froggies-sub002/model"
	"github.com/Kode-Bolds/Froggies-sub002/resource"
	"github.com/Kode-Bolds/Froggies-sub002/sim"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer dec.Close()
	var lines []string
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		t.Fatal(err)
	}
	return lines
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "x")
	clock := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	for i := range 3 {
		if err := w.Write(map[string]int{"n": i}); err != nil {
			t.Fatal(err)
		}
	}
	clock = clock.Add(2 * time.Minute)
	if err := w.Write(map[string]int{"n": 3}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		file  string
		lines int
	}{
		{"x-2026-03-01-10.jsonl.zst", 3},
		{"x-2026-03-01-11.jsonl.zst", 1},
	}
	for _, tc := range tests {
		if got := len(readLines(t, filepath.Join(dir, tc.file))); got != tc.lines {
			t.Errorf("%s: %d lines, want %d", tc.file, got, tc.lines)
		}
	}
}

func TestTickLoggerSkipsEmptyTicks(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	l.w.now = func() time.Time { return clock }

	pool := map[model.ResourceType]int64{model.Food: 15}
	l.AfterTick(t.Context(), sim.TickReport{Tick: 1}, model.Snapshot{Tick: 1})
	l.AfterTick(t.Context(), sim.TickReport{
		Tick:     2,
		Deposits: []resource.Deposit{{Unit: 3, Owner: 1, Type: model.Food, Amount: 15}},
	}, model.Snapshot{Tick: 2, Pool: pool})
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, filepath.Join(dir, "ticks", "ticks-2026-03-01-10.jsonl.zst"))
	if len(lines) != 1 {
		t.Fatalf("journal has %d lines, want 1", len(lines))
	}
	var e Entry
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatal(err)
	}
	if e.Tick != 2 || len(e.Deposits) != 1 || e.Pool[model.Food] != 15 {
		t.Errorf("entry = %+v", e)
	}
}
