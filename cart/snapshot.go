package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"bookstall/models"
)

// encodeSnapshot writes {"<id>": {"book": ..., "qty": n}, ...} with keys in
// insertion order. encoding/json would sort map keys.
func encodeSnapshot(order []string, entries map[string]*models.CartEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(entries[id])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeSnapshot parses a snapshot, keeping the key order of the document
func decodeSnapshot(data []byte) ([]string, map[string]*models.CartEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("snapshot is not an object")
	}

	var order []string
	entries := make(map[string]*models.CartEntry)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}

		var e models.CartEntry
		if err := dec.Decode(&e); err != nil {
			return nil, nil, fmt.Errorf("entry %q: %w", id, err)
		}
		if e.Qty < 1 {
			return nil, nil, fmt.Errorf("entry %q: quantity %d", id, e.Qty)
		}
		if e.Book.ID != id {
			return nil, nil, fmt.Errorf("entry %q holds book %q", id, e.Book.ID)
		}
		if _, dup := entries[id]; dup {
			return nil, nil, fmt.Errorf("entry %q appears twice", id)
		}
		entries[id] = &e
		order = append(order, id)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, fmt.Errorf("trailing data after snapshot")
	}
	return order, entries, nil
}
