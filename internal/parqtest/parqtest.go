// Package parqtest writes parquet fixtures for tests.
package parqtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

// User is the row type of the standard fixture.
type User struct {
	ID     int64   `parquet:"id"`
	Name   string  `parquet:"name"`
	Age    int32   `parquet:"age"`
	Active bool    `parquet:"active"`
	Score  float64 `parquet:"score"`
}

// Users is the standard fixture, in file order.
var Users = []User{
	{ID: 1, Name: "alice", Age: 30, Active: true, Score: 95.5},
	{ID: 2, Name: "bob", Age: 25, Active: false, Score: 82.3},
	{ID: 3, Name: "charlie", Age: 35, Active: true, Score: 88.7},
	{ID: 4, Name: "diana", Age: 28, Active: true, Score: 91.2},
	{ID: 5, Name: "eve", Age: 42, Active: false, Score: 76.8},
}

// Write creates a parquet file named filename in dir holding rows, with the
// schema derived from T, and returns its path.
func Write[T any](tb testing.TB, dir, filename string, rows []T) string {
	tb.Helper()
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		tb.Fatalf("failed to create test file: %v", err)
	}

	writer := parquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		tb.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		tb.Fatalf("failed to close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		tb.Fatalf("failed to close file: %v", err)
	}

	return path
}

// WriteUsers writes the first n Users to dir/filename.
func WriteUsers(tb testing.TB, dir, filename string, n int) string {
	tb.Helper()
	if n > len(Users) {
		tb.Fatalf("only %d fixture users, asked for %d", len(Users), n)
	}
	return Write(tb, dir, filename, Users[:n])
}
