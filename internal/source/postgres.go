package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
)

// ReadQuery runs query against the database at connString and turns the
// result set into a RecordSet. Column order supplies the positional map,
// so {0} refers to the first selected column. Every value is rendered as a
// string; NULL becomes the empty string, which makes it subject to the
// missing-value substitution like any blank CSV cell.
func ReadQuery(ctx context.Context, connString, query string) (*RecordSet, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to record source database: %w", err)
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("record source query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	idxToName := make(map[int]string, len(fields))
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.Name
		idxToName[i] = fd.Name
	}

	var result []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read record source row %d: %w", len(result)+1, err)
		}
		row := make(Row, len(values))
		for i, value := range values {
			row[names[i]] = renderValue(value)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("record source query failed: %w", err)
	}

	return &RecordSet{Rows: result, IdxToName: idxToName}, nil
}

func renderValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}
