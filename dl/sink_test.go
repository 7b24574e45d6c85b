package dl

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestSinkPreallocate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.bin")
	sink, err := CreateSink(path, 4096, true)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 4096 {
		t.Fatalf("size after preallocate = %d", info.Size())
	}
	if sink.Path() != path {
		t.Errorf("path = %q", sink.Path())
	}
	if err = sink.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSinkSectionBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	sink, err := CreateSink(path, 10, true)
	if err != nil {
		t.Fatal(err)
	}

	w := sink.Section(2, 3)
	if _, err = w.Write([]byte("abcd")); !errors.Is(err, ErrSectionOverflow) {
		t.Fatalf("err = %v, want ErrSectionOverflow", err)
	}
	if _, err = w.Write([]byte("ab")); err != nil {
		t.Fatal(err)
	}
	if _, err = w.Write([]byte("cd")); !errors.Is(err, ErrSectionOverflow) {
		t.Fatalf("err = %v, want ErrSectionOverflow", err)
	}
	if _, err = w.Write([]byte("c")); err != nil {
		t.Fatal(err)
	}
	if err = sink.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 'a', 'b', 'c', 0, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Fatalf("file = %v", got)
	}
}

func TestSinkConcurrentSections(t *testing.T) {
	const parts, partLen = 16, 4096
	path := filepath.Join(t.TempDir(), "out.bin")
	sink, err := CreateSink(path, parts*partLen, true)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < parts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := sink.Section(int64(i*partLen), partLen)
			chunk := bytes.Repeat([]byte{byte(i)}, 512)
			for n := 0; n < partLen/len(chunk); n++ {
				if _, err := w.Write(chunk); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	if err = sink.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != parts*partLen {
		t.Fatalf("file length = %d", len(got))
	}
	for i := 0; i < parts; i++ {
		if !bytes.Equal(got[i*partLen:(i+1)*partLen], bytes.Repeat([]byte{byte(i)}, partLen)) {
			t.Fatalf("part %d corrupted", i)
		}
	}
}

func TestSinkCreateFails(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}
	_, err := CreateSink(filepath.Join(blocker, "sub", "out.bin"), 10, true)
	var se *SinkError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SinkError", err)
	}
}
