package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Row is one result record keyed by column name.
type Row map[string]any

// Query executes exactly one statement and collects every result row.
// Placeholders are written as '?' and bound positionally from params.
// Driver errors are returned wrapped; nothing is retried.
func (p *Pool) Query(ctx context.Context, text string, params ...any) ([]Row, error) {
	rows, err := p.QueryRows(ctx, text, params...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return result, nil
}

// Rebind converts '?' placeholders to PostgreSQL's $1, $2, ... form.
// Question marks inside single-quoted literals are left alone.
// SQLite accepts '?' natively, so its statements pass through unchanged.
func Rebind(dialect Dialect, text string) string {
	if dialect != DialectPostgres || !strings.Contains(text, "?") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	n := 0
	inQuote := false
	for _, r := range text {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
