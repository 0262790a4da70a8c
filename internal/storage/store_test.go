package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

type roomFixture struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r *roomFixture) Validate() error {
	return nil
}

func writeAsset(t *testing.T, dir, file string, a Asset[*roomFixture]) {
	t.Helper()
	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), data, 0644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
}

func TestNewFileStore(t *testing.T) {
	tests := map[string]struct {
		setup    func(t *testing.T, dir string)
		expCount int
		expErr   string
	}{
		"empty directory": {
			setup: func(t *testing.T, dir string) {},
		},
		"nested assets": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "main-hall.json", Asset[*roomFixture]{Version: 1, Identifier: "main-hall", Spec: &roomFixture{Name: "Main Hall"}})
				sub := filepath.Join(dir, "wings")
				if err := os.Mkdir(sub, 0755); err != nil {
					t.Fatal(err)
				}
				writeAsset(t, sub, "east-wing.json", Asset[*roomFixture]{Version: 1, Identifier: "east-wing", Spec: &roomFixture{Name: "East Wing"}})
			},
			expCount: 2,
		},
		"non json files ignored": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "main-hall.json", Asset[*roomFixture]{Version: 1, Identifier: "main-hall", Spec: &roomFixture{}})
				if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("todo"), 0644); err != nil {
					t.Fatal(err)
				}
			},
			expCount: 1,
		},
		"malformed json": {
			setup: func(t *testing.T, dir string) {
				if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"version":`), 0644); err != nil {
					t.Fatal(err)
				}
			},
			expErr: "loading bad.json",
		},
		"invalid asset": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "main-hall.json", Asset[*roomFixture]{Identifier: "main-hall", Spec: &roomFixture{}})
			},
			expErr: "validating main-hall.json",
		},
		"duplicate id": {
			setup: func(t *testing.T, dir string) {
				writeAsset(t, dir, "a.json", Asset[*roomFixture]{Version: 1, Identifier: "throne-room", Spec: &roomFixture{}})
				writeAsset(t, dir, "b.json", Asset[*roomFixture]{Version: 1, Identifier: "throne-room", Spec: &roomFixture{}})
			},
			expErr: "duplicate id throne-room in a.json and b.json",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			st, err := NewFileStore[*roomFixture](dir)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "record count", len(st.GetAll()), tt.expCount)
		})
	}
}

func TestNewFileStore_MissingDirectory(t *testing.T) {
	_, err := NewFileStore[*roomFixture](filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFileStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore[*roomFixture](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = st.Save("west-wing", &roomFixture{Name: "West Wing", Color: "#3050C0"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	err = st.Save("west-wing", &roomFixture{Name: "West Wing", Color: "#2040B0"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	testutil.AssertEqual(t, "cached color", st.Get("west-wing").Color, "#2040B0")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	testutil.AssertEqual(t, "files on disk", len(entries), 1)
	testutil.AssertEqual(t, "file name", entries[0].Name(), "west-wing.json")

	reloaded, err := NewFileStore[*roomFixture](dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	testutil.AssertEqual(t, "reloaded name", reloaded.Get("west-wing").Name, "West Wing")
	testutil.AssertEqual(t, "reloaded color", reloaded.Get("west-wing").Color, "#2040B0")
}

func TestFileStore_GetAllIsCopy(t *testing.T) {
	st, err := NewFileStore[*roomFixture](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.records = map[Identifier]*roomFixture{"main-hall": {}, "east-wing": {}}

	all := st.GetAll()
	delete(all, "main-hall")

	testutil.AssertEqual(t, "store untouched", len(st.records), 2)
	testutil.AssertEqual(t, "missing get", st.Get("cellar") == nil, true)
}

func TestFileStore_SaveRejectsBadId(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore[*roomFixture](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = st.Save("../escape", &roomFixture{Name: "Escape"})
	testutil.AssertErrorContains(t, err, "id must contain only")
	testutil.AssertEqual(t, "not cached", st.Get("../escape") == nil, true)
}

func TestFileStore_Ids(t *testing.T) {
	st, err := NewFileStore[*roomFixture](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.records = map[Identifier]*roomFixture{"west-wing": {}, "east-wing": {}, "main-hall": {}}

	testutil.AssertEqual(t, "ids", fmt.Sprint(st.Ids()), "[east-wing main-hall west-wing]")
}
