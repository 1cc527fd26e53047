// Package output provides encoders that turn a record stream into text.
//
// Three formats are supported, each with a different memory and latency
// tradeoff:
//
//   - JSONL (LineEncoder): one compact JSON object per line, written as each
//     record is read. Memory use is constant in the number of records.
//   - JSON (ArrayEncoder): a single compact JSON array. The whole stream is
//     buffered and written at once.
//   - CSV (TableEncoder): a header row taken from the first record, then one
//     row per record. The whole stream is buffered and written at once; an
//     empty stream is an error.
//
// # Basic Usage
//
// Choosing an encoder from a user supplied format name:
//
//	format, err := output.ParseFormat("csv")
//	if err != nil {
//	    log.Fatal(err) // wraps ErrUnsupportedFormat
//	}
//	enc, err := output.NewEncoder(format, output.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := enc.Encode(records, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// # Writing to a String
//
// Encoders accept any io.Writer:
//
//	var buf bytes.Buffer
//	if _, err := output.NewTableEncoder(output.CSVOptions{}).Encode(records, &buf); err != nil {
//	    log.Fatal(err)
//	}
//	csvString := buf.String()
//
// # Type Handling
//
//   - Strings, integers, floats and booleans are written directly
//   - JSON encoders preserve nested records and lists
//   - The CSV encoder renders nested records and lists as compact JSON
//   - Null values are null in JSON and empty cells in CSV
package output
