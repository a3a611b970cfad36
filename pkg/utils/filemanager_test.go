package utils

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/cardsheet/internal/types"
	"github.com/goccy/go-json"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

func TestDiscoverSpreadsheets(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.xlsx"))
	touch(t, filepath.Join(root, "B.XLSX"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "sub", "c.xlsx"))
	touch(t, filepath.Join(root, "sub", "deep", "d.xlsx"))
	if err := os.MkdirAll(filepath.Join(root, "folder.xlsx"), 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{
			name:      "Top level",
			recursive: false,
			want:      []string{"B.XLSX", "a.xlsx"},
		},
		{
			name:      "Recursive",
			recursive: true,
			want:      []string{"B.XLSX", "a.xlsx", "sub/c.xlsx", "sub/deep/d.xlsx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := DiscoverSpreadsheets(root, tt.recursive, isXLSX)
			if err != nil {
				t.Fatalf("DiscoverSpreadsheets failed: %v", err)
			}
			if len(files) != len(tt.want) {
				t.Fatalf("found %q; want %q", files, tt.want)
			}
			for i, f := range files {
				rel, _ := filepath.Rel(root, f)
				if filepath.ToSlash(rel) != tt.want[i] {
					t.Errorf("file %d = %q; want %q", i, rel, tt.want[i])
				}
			}
		})
	}
}

func TestDiscoverSpreadsheets_SymlinkRoot(t *testing.T) {
	target := t.TempDir()
	touch(t, filepath.Join(target, "a.xlsx"))
	touch(t, filepath.Join(target, "sub", "b.xlsx"))

	link := filepath.Join(t.TempDir(), "cards")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not available: %v", err)
	}

	files, err := DiscoverSpreadsheets(link, true, isXLSX)
	if err != nil {
		t.Fatalf("DiscoverSpreadsheets failed: %v", err)
	}

	want := []string{filepath.Join(link, "a.xlsx"), filepath.Join(link, "sub", "b.xlsx")}
	if len(files) != len(want) {
		t.Fatalf("found %q; want %q", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d = %q; want %q", i, files[i], want[i])
		}
	}
}

func TestDiscoverSpreadsheets_MissingRoot(t *testing.T) {
	_, err := DiscoverSpreadsheets(filepath.Join(t.TempDir(), "nope"), true, isXLSX)
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		outDir string
		want   string
	}{
		{"cards/monsters.xlsx", "", "cards/monsters.json"},
		{"cards/monsters.xlsx", "out", "out/monsters.json"},
		{"spells.XLSM", "", "spells.json"},
		{"a/b.c.xls", "x/y", "x/y/b.c.json"},
	}

	for _, tt := range tests {
		got := OutputPath(filepath.FromSlash(tt.input), filepath.FromSlash(tt.outDir))
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("OutputPath(%q, %q) = %q; want %q", tt.input, tt.outDir, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")

	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q; want second", data)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries; want only the output file", len(entries))
	}
}

func TestWriteReport(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	summary := &types.BatchSummary{
		RunID:     "run-1",
		Root:      "cards",
		Recursive: true,
		StartTime: start,
		EndTime:   start.Add(time.Second),
		Attempted: 2,
		Succeeded: 1,
		Results: []types.ConversionResult{
			{InputFile: "cards/a.xlsx", OutputFile: "cards/a.json", Cards: 3, Success: true, Elapsed: 1500 * time.Millisecond},
			{InputFile: "cards/b.xlsx", Error: errors.New("boom")},
		},
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteReport(summary, path); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if got.RunID != "run-1" || got.Attempted != 2 || got.Succeeded != 1 || got.Failed != 1 {
		t.Errorf("report header = %+v", got)
	}
	if len(got.Files) != 2 {
		t.Fatalf("report has %d files; want 2", len(got.Files))
	}
	if got.Files[0].ElapsedMS != 1500 || got.Files[0].Cards != 3 {
		t.Errorf("first entry = %+v", got.Files[0])
	}
	if got.Files[1].Error != "boom" || got.Files[1].Success {
		t.Errorf("second entry = %+v", got.Files[1])
	}
}
