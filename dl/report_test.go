package dl

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestReport(t *testing.T) {
	res := &Result{
		ID:       "id",
		URL:      "http://example.com/a.bin",
		Path:     "/tmp/a.bin",
		Resource: Resource{Size: 10000, AcceptRanges: true},
		Written:  7500,
		Elapsed:  1500 * time.Millisecond,
		Failed: []FailedSegment{
			{Index: 2, Start: 5000, End: 7499, Err: &SegmentError{Index: 2, Start: 5000, End: 7499, Err: errors.Wrap(ErrUnexpectedStatus, "500")}},
		},
	}

	var buf bytes.Buffer
	if err := res.WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "range: 5000-7499") {
		t.Fatalf("report = %s", buf.String())
	}

	rep, err := ReadReport(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Size != 10000 || !rep.Ranges || rep.Succeeded || rep.Elapsed != 1500*time.Millisecond {
		t.Fatalf("report = %+v", rep)
	}
	if len(rep.Failed) != 1 || rep.Failed[0].Index != 2 || rep.Failed[0].Range != "5000-7499" {
		t.Fatalf("failed = %+v", rep.Failed)
	}
}
