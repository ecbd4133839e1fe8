package store

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"
)

func newTestStore(t *testing.T) *FS {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "plans"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := newTestStore(t)

	doc := []byte(`{"vertices":[],"walls":[],"rooms":[]}`)
	if err := s.Save("p1", doc); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("p1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(doc) {
		t.Errorf("loaded %q, want %q", got, doc)
	}
}

func TestSaveReplaces(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("p1", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("p1", []byte("two")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("p1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "two" {
		t.Errorf("loaded %q, want %q", got, "two")
	}
}

func TestLoadMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save("p1", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}

	// Deleting again is not an error.
	if err := s.Delete("p1"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	ids, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("fresh store lists %v", ids)
	}

	for _, id := range []string{"b", "a", "c"} {
		if err := s.Save(id, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}

	ids, err = s.List()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(ids)
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("list = %v, want [a b c]", ids)
	}
}
