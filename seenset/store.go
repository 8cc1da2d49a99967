package seenset

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pevans/adwatch/apperr"
)

// Store persists a Set as a JSON array of strings in a single file.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path. The file need not
// exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads the set from disk. The returned set is never nil: a missing
// file yields an empty set and no error, and a read or parse failure yields
// an empty set together with the error so the caller can log it and carry
// on as if nothing had been seen.
func (st *Store) Load() (*Set, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil // Nothing seen yet (not an error)
		}
		return New(), apperr.New(apperr.KindRead, "read seen set", st.path, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return New(), apperr.New(apperr.KindDecode, "parse seen set", st.path, err)
	}

	return New(ids...), nil
}

// Save overwrites the file with every id in set, as indented JSON with
// non-ASCII text written verbatim.
func (st *Store) Save(set *Set) error {
	ids := set.IDs()
	if ids == nil {
		ids = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ids); err != nil {
		return apperr.New(apperr.KindWrite, "encode seen set", st.path, err)
	}

	// 0600: owner-only read/write
	if err := os.WriteFile(st.path, buf.Bytes(), 0o600); err != nil {
		return apperr.New(apperr.KindWrite, "write seen set", st.path, err)
	}

	return nil
}
