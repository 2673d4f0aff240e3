// Package snapshot reads and writes the persisted columnar form of the
// combined dataset: one Parquet row per (period, geography, contract)
// observation, produced once per refresh and read-only thereafter.
package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/nrunyard/cma-ma-enrollment/internal/model"
)

const readBatchSize = 1024

// Write writes all rows of the working dataset to path.
func Write(path string, rows []model.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}

	w := parquet.NewGenericWriter[model.SnapshotRow](f)
	buf := make([]model.SnapshotRow, 0, readBatchSize)
	for i, r := range rows {
		buf = append(buf, model.ToSnapshotRow(r))
		if len(buf) == readBatchSize || i == len(rows)-1 {
			if _, err := w.Write(buf); err != nil {
				f.Close()
				return fmt.Errorf("write snapshot rows: %w", err)
			}
			buf = buf[:0]
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("close snapshot writer: %w", err)
	}
	return f.Close()
}

// Reader streams SnapshotRow records from a snapshot file.
type Reader struct {
	file   *os.File
	reader *parquet.GenericReader[model.SnapshotRow]
}

// Open opens a snapshot file for streaming reads.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &Reader{file: f, reader: parquet.NewGenericReader[model.SnapshotRow](pf)}, nil
}

// NumRows returns the total row count from the file metadata.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) records. Returns io.EOF when done.
func (r *Reader) Read(rows []model.SnapshotRow) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read snapshot rows: %w", err)
	}
	return n, err
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// Load reads an entire snapshot into memory as model.Rows.
func Load(path string) ([]model.Row, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make([]model.Row, 0, r.NumRows())
	buf := make([]model.SnapshotRow, readBatchSize)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			out = append(out, model.FromSnapshotRow(buf[i]))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
