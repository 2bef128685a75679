package moonphase

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sweep(t *testing.T, from, to, step float64) <-chan Snapshot {
	s := newTestScene(DualPivotConfig())
	ch := make(chan Snapshot)
	go func() {
		if err := s.Sweep(from, to, step, ch); err != nil {
			t.Error(err)
		}
	}()
	return ch
}

func TestWriteSnapshots(t *testing.T) {
	var buf bytes.Buffer
	cat, err := WriteSnapshots(&buf, sweep(t, 0, SynodicMonth, 1))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# Creation date") {
		t.Fatal("the CSV should start with a comment header")
	}
	r := csv.NewReader(&buf)
	r.Comment = '#'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 31 {
		t.Fatalf("expected a header and 30 records, got %d rows", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(CSVHeader, ",") {
		t.Fatalf("header %v", records[0])
	}
	if records[1][2] != "0.00000" || records[1][9] != PhaseFromAge(10).String() {
		t.Fatalf("first record %v", records[1])
	}
	if cat.Steps != 30 || cat.Mode != MoonClose.String() {
		t.Fatalf("catalog %+v", cat)
	}
	// Starting at 10 days old, the lunation goes through all phases and back to the first one.
	if len(cat.Phases) != 9 || cat.Phases[0].Phase != cat.Phases[8].Phase {
		t.Fatalf("phases %+v", cat.Phases)
	}
	for _, p := range cat.Phases {
		if p.Phase == FullMoon.String() && p.Illumination < 90 {
			t.Fatalf("full moon peak illumination %f", p.Illumination)
		}
	}
}

func TestWriteSnapshotsDrains(t *testing.T) {
	cat, err := WriteSnapshots(nil, sweep(t, -2, 2, 0.5))
	if err != nil || cat.Steps != 9 {
		t.Fatalf("catalog only: %+v %v", cat, err)
	}
}

func TestStreamSnapshots(t *testing.T) {
	dir := t.TempDir()
	conf := ExportConfig{Filename: "test", OutputDir: dir, AsCSV: true, AsJSON: true}
	if err := StreamSnapshots(conf, sweep(t, -3, 3, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sweep-test.csv")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "catalog-test.json"))
	if err != nil {
		t.Fatal(err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		t.Fatal(err)
	}
	if cat.Name != "test" || cat.Steps != 7 || cat.StartTime == "" {
		t.Fatalf("catalog %+v", cat)
	}
	if err := StreamSnapshots(ExportConfig{AsCSV: true}, sweep(t, 0, 1, 1)); err == nil {
		t.Fatal("expected an error without a file name")
	}
	if err := StreamSnapshots(ExportConfig{}, sweep(t, 0, 1, 1)); err != nil {
		t.Fatal("a useless export should only drain the channel")
	}
}
