package dataset

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func row(url, name string) Row {
	return Row{"url": url, "name": name}
}

func TestWriteReadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []Row{
		{"url": "https://x/dc-1/", "name": "DC 1", "city": "Dallas", "scrape_note": "retried"},
		{"url": "https://x/dc-2/", "name": "DC, \"quoted\"", "power_capacity_mw": "12.5"},
	}

	if err := WriteCSV(path, rows); err != nil {
		t.Fatal(err)
	}

	got, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0]["city"] != "Dallas" || got[0]["scrape_note"] != "retried" {
		t.Errorf("row 0 mismatch: %v", got[0])
	}
	if got[1]["name"] != `DC, "quoted"` {
		t.Errorf("quoting not roundtripped: %q", got[1]["name"])
	}
	if got[1]["power_capacity_mw"] != "12.5" {
		t.Errorf("numeric cell mismatch: %q", got[1]["power_capacity_mw"])
	}
}

func TestHeaderCanonicalOrderPlusExtras(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	rows := []Row{
		{"url": "u", "zeta": "1", "alpha": "2"},
	}
	if err := WriteCSV(path, rows); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	header := strings.Split(strings.SplitN(string(data), "\n", 2)[0], ",")

	if header[0] != "url" || header[1] != "name" {
		t.Errorf("canonical columns not first: %v", header[:2])
	}
	if n := len(header); header[n-2] != "alpha" || header[n-1] != "zeta" {
		t.Errorf("extras not sorted at the end: %v", header[n-2:])
	}
}

func TestDedupeByURLKeepsLast(t *testing.T) {
	rows := []Row{
		row("u1", "first"),
		row("u2", "only"),
		row("u1", "second"),
		row("u3", "tail"),
	}

	got := DedupeByURL(rows)

	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0]["url"] != "u2" || got[1]["name"] != "second" || got[2]["url"] != "u3" {
		t.Errorf("keep-last order wrong: %v", got)
	}
}

func TestMergeChunks(t *testing.T) {
	dir := t.TempDir()

	// Cumulative snapshots: the later chunk repeats the earlier rows,
	// one of them with a corrected name.
	if err := WriteCSV(ChunkPath(dir, "tx", 2), []Row{
		row("u1", "stale"), row("u2", "b"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := WriteCSV(ChunkPath(dir, "tx", 4), []Row{
		row("u1", "fresh"), row("u2", "b"), row("u3", "c"),
	}); err != nil {
		t.Fatal(err)
	}

	merged, out, err := MergeChunks(dir, "tx", testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if out != MergedPath(dir, "tx") {
		t.Errorf("unexpected output path %q", out)
	}
	if len(merged) != 3 {
		t.Fatalf("expected 3 merged rows, got %d", len(merged))
	}
	if merged[0]["name"] != "fresh" {
		t.Errorf("later chunk should win for u1, got %q", merged[0]["name"])
	}

	// Merging again over the same chunks produces the same dataset.
	again, _, err := MergeChunks(dir, "tx", testLogger)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(merged) {
		t.Fatalf("merge not stable: %d vs %d rows", len(again), len(merged))
	}
	for i := range merged {
		if again[i]["url"] != merged[i]["url"] || again[i]["name"] != merged[i]["name"] {
			t.Errorf("row %d differs across merges", i)
		}
	}
}

func TestMergeChunksNoFiles(t *testing.T) {
	if _, _, err := MergeChunks(t.TempDir(), "tx", testLogger); err == nil {
		t.Fatal("expected an error with no chunk files")
	}
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := WriteManifest(path, []string{"https://x/a/", "https://x/b/"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "0,https://x/a/\n1,https://x/b/\n"
	if string(data) != want {
		t.Errorf("manifest mismatch:\n%q\nwant\n%q", string(data), want)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	rows := []Row{
		{"url": "https://x/dc-1/", "name": "DC 1"},
	}
	if err := WriteXLSX(path, rows); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue("Facilities", "A1"); v != "url" {
		t.Errorf("header A1 = %q", v)
	}
	if v, _ := f.GetCellValue("Facilities", "B2"); v != "DC 1" {
		t.Errorf("cell B2 = %q", v)
	}
}
