package storage

import (
	"fmt"
	"os"
)

// List enumerates the entries of a resolved directory, non-recursively.
// Names come back sorted lexicographically ascending (the order os.ReadDir
// yields), which is the ordering the protocol documents.
func List(rp ResolvedPath) ([]string, error) {
	if !rp.Exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rp.Abs)
	}
	if !rp.IsDir {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, rp.Abs)
	}
	entries, err := os.ReadDir(rp.Abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// ListingBody renders entry names into the wire listing body, one name per
// line. An empty listing renders to zero bytes.
func ListingBody(names []string) []byte {
	if len(names) == 0 {
		return nil
	}
	var size int
	for _, n := range names {
		size += len(n) + 1
	}
	body := make([]byte, 0, size)
	for _, n := range names {
		body = append(body, n...)
		body = append(body, '\n')
	}
	return body
}
