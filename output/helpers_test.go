package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/vegasq/parq/record"
	"github.com/vegasq/parq/stream"
)

// rec builds a record from alternating keys and values.
func rec(kv ...any) *record.Record {
	r := record.New()
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

// recordingWriter counts Write calls and the bytes received.
type recordingWriter struct {
	bytes.Buffer
	writes int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// brokenStream yields good records and then fails.
type brokenStream struct {
	good []*record.Record
	pos  int
}

var errCorrupt = errors.New("decode broken.parquet: corrupt page")

func (b *brokenStream) Next() (*record.Record, error) {
	if b.pos < len(b.good) {
		b.pos++
		return b.good[b.pos-1], nil
	}
	return nil, errCorrupt
}

func (b *brokenStream) Close() error { return nil }

// generatedStream produces n records on demand and tracks how many have
// been handed out but not yet seen by the writer.
type generatedStream struct {
	n        int
	produced int
	onNext   func(produced int) error
}

func (g *generatedStream) Next() (*record.Record, error) {
	if g.onNext != nil {
		if err := g.onNext(g.produced); err != nil {
			return nil, err
		}
	}
	if g.produced >= g.n {
		return nil, io.EOF
	}
	g.produced++
	return rec("id", int64(g.produced), "name", fmt.Sprintf("user-%d", g.produced)), nil
}

func (g *generatedStream) Close() error { return nil }

var _ stream.Stream = (*generatedStream)(nil)
