// codec.go -- fixed-width file encoding primitives for kissdb
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package kissdb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// readFixed reads exactly n bytes from the current file position.
// A short read is always an I/O error here -- callers that need to
// tolerate a clean EOF (end of the page chain) use readPage instead.
func readFixed(f *os.File, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("kissdb: short read: %w: %w", err, ErrIO)
	}
	return buf, nil
}

// readU64LE reads one little-endian uint64 from the current position.
func readU64LE(f *os.File) (uint64, error) {
	b, err := readFixed(f, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// writeBytes writes b at the current file position.
func writeBytes(f *os.File, b []byte) error {
	n, err := f.Write(b)
	if err != nil {
		return fmt.Errorf("kissdb: write: %w: %w", err, ErrIO)
	}
	if n != len(b) {
		return fmt.Errorf("kissdb: short write (%d of %d): %w", n, len(b), ErrIO)
	}
	return nil
}

// writeU64LE writes one little-endian uint64 at the current position.
func writeU64LE(f *os.File, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return writeBytes(f, b[:])
}

// readPage attempts to read one hash-table page -- hashTableSize bucket
// slots plus one next-page link, (hashTableSize+1)*8 bytes -- from the
// current position. A clean end-of-file (zero bytes read) returns
// (nil, nil): there is no more chain. A partial page is ErrCorrupt.
func readPage(f *os.File, hashTableSize uint64) ([]uint64, error) {
	n := int(hashTableSize+1) * 8
	buf := make([]byte, n)

	read, err := io.ReadFull(f, buf)
	switch {
	case err == nil:
		// full page
	case errors.Is(err, io.EOF) && read == 0:
		return nil, nil
	default:
		return nil, fmt.Errorf("kissdb: truncated hash-table page (%d of %d bytes): %w", read, n, ErrCorrupt)
	}

	page := make([]uint64, hashTableSize+1)
	for i := range page {
		page[i] = binary.LittleEndian.Uint64(buf[i*8 : i*8+8])
	}
	return page, nil
}

// writePage writes one hash-table page at the current position.
func writePage(f *os.File, page []uint64) error {
	buf := make([]byte, len(page)*8)
	for i, v := range page {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], v)
	}
	return writeBytes(f, buf)
}
