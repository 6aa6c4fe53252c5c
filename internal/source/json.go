package source

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReadJSON reads a JSON record source: a list of flat objects with scalar
// values. Numbers keep their source representation, booleans become "true"
// or "false", and null becomes the empty string. JSON sources carry no
// positional map, so templates must reference fields by name.
func ReadJSON(r io.Reader) (*RecordSet, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON url file: %w", err)
	}
	if err := drained(dec); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(raw))
	for i, obj := range raw {
		row := make(Row, len(obj))
		for name, value := range obj {
			s, err := stringify(value)
			if err != nil {
				return nil, fmt.Errorf("record %d, field %q: %w", i, name, err)
			}
			row[name] = s
		}
		rows = append(rows, row)
	}

	return &RecordSet{Rows: rows, IdxToName: map[int]string{}}, nil
}

func stringify(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("value must be a JSON scalar, got %T", value)
	}
}

func drained(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("trailing data after JSON record list")
	}
	return nil
}
