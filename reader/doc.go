// Package reader provides record sources backed by Apache Parquet files.
//
// A Reader decodes one file lazily: each call to Next reads a single row and
// returns it as a record whose keys follow the file schema. Readers satisfy
// stream.Stream, so several files can be concatenated with stream.NewChain.
//
// # Basic Usage
//
// Reading a single parquet file:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	for {
//	    rec, err := r.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(rec.Keys())
//	}
//
// # Multi-file Operations
//
// Expanding glob patterns and chaining the files in order:
//
//	paths, err := reader.ExpandInputs([]string{"data/*.parquet"}, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	openers := make([]stream.Opener, len(paths))
//	for i, p := range paths {
//	    openers[i] = reader.Opener(p, reader.WithFileColumn(reader.FileColumn))
//	}
//	chain := stream.NewChain(openers...)
//	defer chain.Close()
//
// Only one file is open at a time: the chain opens a file when its first row
// is requested and closes it once its last row has been read.
//
// # Schema Introspection
//
//	infos, err := reader.ExtractSchemaInfo("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, info := range infos {
//	    fmt.Printf("%s: %s\n", info.Name, info.Type)
//	}
//
// The package uses github.com/parquet-go/parquet-go for the underlying
// parquet file operations.
package reader
