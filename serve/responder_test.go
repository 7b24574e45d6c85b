package serve

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gocloud.dev/blob/memblob"
)

func fixture(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func respond(t *testing.T, rd *Responder, header string) (*Response, []byte) {
	t.Helper()
	resp, err := rd.Respond(context.Background(), header)
	if err != nil {
		t.Fatalf("Respond(%q): %v", header, err)
	}
	defer resp.Close()
	if resp.Body == nil {
		return resp, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestRespondNoRange(t *testing.T) {
	data := fixture(1000)
	rd := NewResponder(int64(len(data)), ReaderAtSource(bytes.NewReader(data)))

	resp, body := respond(t, rd, "")
	if resp.Status != http.StatusOK {
		t.Fatalf("status = %d", resp.Status)
	}
	if got := resp.Header.Get(HeaderAcceptRanges); got != "bytes" {
		t.Errorf("Accept-Ranges = %q", got)
	}
	if got := resp.Header.Get(HeaderContentRange); got != "" {
		t.Errorf("unexpected Content-Range %q", got)
	}
	if got := resp.Header.Get(HeaderContentLength); got != "1000" {
		t.Errorf("Content-Length = %q", got)
	}
	if got := resp.Header.Get(HeaderContentType); got != defaultContentType {
		t.Errorf("Content-Type = %q", got)
	}
	if !bytes.Equal(body, data) {
		t.Errorf("body mismatch, got %d bytes", len(body))
	}
}

func TestRespondPartial(t *testing.T) {
	data := fixture(1000)
	rd := NewResponder(int64(len(data)), ReaderAtSource(bytes.NewReader(data)))

	cases := []struct {
		header       string
		start, end   int
		contentRange string
		length       string
	}{
		{"bytes=500-999", 500, 999, "bytes 500-999/1000", "500"},
		{"bytes=-100", 900, 999, "bytes 900-999/1000", "100"},
		{"bytes=0-0", 0, 0, "bytes 0-0/1000", "1"},
		{"bytes=990-", 990, 999, "bytes 990-999/1000", "10"},
		{"10-19", 10, 19, "bytes 10-19/1000", "10"},
	}
	for _, c := range cases {
		resp, body := respond(t, rd, c.header)
		if resp.Status != http.StatusPartialContent {
			t.Errorf("%s: status = %d", c.header, resp.Status)
			continue
		}
		if got := resp.Header.Get(HeaderContentRange); got != c.contentRange {
			t.Errorf("%s: Content-Range = %q, want %q", c.header, got, c.contentRange)
		}
		if got := resp.Header.Get(HeaderContentLength); got != c.length {
			t.Errorf("%s: Content-Length = %q, want %q", c.header, got, c.length)
		}
		if got := resp.Header.Get(HeaderAcceptRanges); got != "bytes" {
			t.Errorf("%s: Accept-Ranges = %q", c.header, got)
		}
		if !bytes.Equal(body, data[c.start:c.end+1]) {
			t.Errorf("%s: body mismatch", c.header)
		}
	}
}

func TestRespondNotSatisfiable(t *testing.T) {
	data := fixture(1000)
	rd := NewResponder(int64(len(data)), SourceFunc(func(context.Context, int64, int64) (io.ReadCloser, error) {
		t.Fatal("source must not be read for a 416")
		return nil, nil
	}))

	for _, header := range []string{"bytes=1500-1600", "bytes=1000-", "bytes=0-1000", "bytes=abc", "bytes=9-3", "bytes=-0", "bytes=0-1,5-6"} {
		resp, body := respond(t, rd, header)
		if resp.Status != http.StatusRequestedRangeNotSatisfiable {
			t.Errorf("%s: status = %d", header, resp.Status)
		}
		if got := resp.Header.Get(HeaderContentRange); got != "bytes */1000" {
			t.Errorf("%s: Content-Range = %q", header, got)
		}
		if body != nil {
			t.Errorf("%s: 416 must not carry a body", header)
		}
	}
}

func TestRespondEmptyResource(t *testing.T) {
	rd := NewResponder(0, ReaderAtSource(bytes.NewReader(nil)))
	resp, body := respond(t, rd, "")
	if resp.Status != http.StatusOK || len(body) != 0 {
		t.Fatalf("status = %d, body = %d bytes", resp.Status, len(body))
	}
	resp, _ = respond(t, rd, "bytes=0-0")
	if resp.Status != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d", resp.Status)
	}
}

func TestRespondSourceError(t *testing.T) {
	boom := errors.New("boom")
	rd := NewResponder(10, SourceFunc(func(context.Context, int64, int64) (io.ReadCloser, error) {
		return nil, boom
	}))
	if _, err := rd.Respond(context.Background(), "bytes=0-4"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRespondName(t *testing.T) {
	rd := NewResponder(3, ReaderAtSource(strings.NewReader("abc")))
	rd.Name = "report.bin"
	rd.ContentType = "application/x-download"
	resp, _ := respond(t, rd, "bytes=1-")
	if got := resp.Header.Get(HeaderContentDisposition); !strings.Contains(got, `filename="report.bin"`) {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := resp.Header.Get(HeaderContentType); got != "application/x-download" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestStreamSource(t *testing.T) {
	data := fixture(1000)
	rd := NewResponder(1000, StreamSource(bytes.NewReader(data)))
	resp, body := respond(t, rd, "bytes=100-199")
	if resp.Status != http.StatusPartialContent {
		t.Fatalf("status = %d", resp.Status)
	}
	if !bytes.Equal(body, data[100:200]) {
		t.Fatal("body mismatch")
	}
	if _, err := rd.Respond(context.Background(), "bytes=0-1"); err == nil {
		t.Fatal("stream source must be single use")
	}
}

func TestBucketSource(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	data := fixture(4096)
	if err := bucket.WriteAll(ctx, "dir/blob.bin", data, nil); err != nil {
		t.Fatal(err)
	}

	rd, closer, err := BucketStore{Bucket: bucket}.Open(ctx, "dir/blob.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	if rd.Size() != 4096 || rd.Name != "blob.bin" {
		t.Fatalf("size = %d, name = %q", rd.Size(), rd.Name)
	}

	resp, body := respond(t, rd, "bytes=4000-")
	if resp.Status != http.StatusPartialContent || !bytes.Equal(body, data[4000:]) {
		t.Fatalf("status = %d, %d bytes", resp.Status, len(body))
	}

	if _, _, err = (BucketStore{Bucket: bucket}).Open(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestContentDisposition(t *testing.T) {
	cases := map[string]string{
		"a.txt":       `attachment; filename="a.txt"; filename*=UTF-8''a.txt`,
		"my file.zip": `attachment; filename="my file.zip"; filename*=UTF-8''my%20file.zip`,
		"报告.pdf":      `attachment; filename="__.pdf"; filename*=UTF-8''%E6%8A%A5%E5%91%8A.pdf`,
		`a"b.txt`:     `attachment; filename="a_b.txt"; filename*=UTF-8''a%22b.txt`,
	}
	for name, want := range cases {
		if got := ContentDisposition(name); got != want {
			t.Errorf("ContentDisposition(%q) = %q, want %q", name, got, want)
		}
	}
}
