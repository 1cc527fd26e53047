// Package sink provides the write destinations of a conversion: a
// truncating file or the process's standard output.
//
// Both are buffered and may compress their output. Close must always be
// called: it flushes the buffer, finishes the compressed stream and, for
// files, closes the handle. Every failure is wrapped with ErrSink.
//
//	out, err := sink.Create("rows.jsonl.gz", sink.WithCompression(sink.Gzip))
//	if err != nil {
//	    return err
//	}
//	defer out.Close()
package sink
