// Package main implements the parq command-line interface.
// parq converts the rows of Parquet files to JSON Lines, a JSON array or
// CSV, written to a file or standard output.
//
// Usage:
//
//	parq convert -i FILE [-i FILE...] -f jsonl|json|csv [-o FILE] [flags]
//	parq schema -i FILE [-f table|jsonl|json|csv]
//
// Example:
//
//	parq convert -i 'events/*.parquet' -f jsonl --where 'level = "error"' -o errors.jsonl.zst --compress auto
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Invalid input, flag, configuration or output format
//   - 3: A source failed to open or decode
//   - 4: CSV output requested for an empty stream
//   - 5: The output could not be written
package main
