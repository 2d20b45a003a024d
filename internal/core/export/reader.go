// Copyright (c) 2026 Opsboard. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/opsboard/internal/platform/dberr"
	"github.com/taibuivan/opsboard/pkg/slice"
)

// Reader executes whitelisted dataset queries and renders them as CSV.
type Reader interface {

	/*
		ReadCSV runs the dataset's query and returns the result as CSV bytes,
		header row included.

		Parameters:
		  - context: context.Context
		  - dataset: Dataset (from the whitelist)

		Returns:
		  - []byte: Rendered CSV
		  - error: StoreUnavailable or query failures
	*/
	ReadCSV(context context.Context, dataset Dataset) ([]byte, error)
}

// PostgresReader implements Reader against the primary database.
type PostgresReader struct {
	db *pgxpool.Pool
}

// NewPostgresReader creates a Reader backed by the given pool.
func NewPostgresReader(db *pgxpool.Pool) *PostgresReader {
	return &PostgresReader{db: db}
}

func (reader *PostgresReader) ReadCSV(context context.Context, dataset Dataset) ([]byte, error) {
	rows, err := reader.db.Query(context, dataset.query)
	if err != nil {
		return nil, dberr.Wrap(err, "")
	}
	defer rows.Close()

	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write(dataset.Columns); err != nil {
		return nil, fmt.Errorf("export_csv_header_failed: %w", err)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, dberr.Wrap(err, "")
		}

		if err := writer.Write(slice.Map(values, formatValue)); err != nil {
			return nil, fmt.Errorf("export_csv_row_failed: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "")
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("export_csv_flush_failed: %w", err)
	}

	return buffer.Bytes(), nil
}

// formatValue renders a database value as a CSV cell.
func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case time.Time:
		return typed.UTC().Format(time.RFC3339)
	case []byte:
		return string(typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
