// header.go -- file header for kissdb
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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	// headerSize is the fixed size of the file header: 4-byte magic
	// plus three little-endian u64s.
	headerSize = 28

	// firstPageOffset is the offset at which the first hash-table
	// page always begins, immediately after the header.
	firstPageOffset = headerSize

	// version is the single byte following "KdR" in the magic.
	version = 1
)

// magic is the 4-byte file signature: "KdR" followed by the version.
var magic = [4]byte{'K', 'd', 'R', version}

// encodeHeader serializes H/K/V into a fresh 28-byte header buffer.
func encodeHeader(hashTableSize, keySize, valueSize uint64) []byte {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint64(buf[4:12], hashTableSize)
	binary.LittleEndian.PutUint64(buf[12:20], keySize)
	binary.LittleEndian.PutUint64(buf[20:28], valueSize)
	return buf
}

// writeHeader seeks to offset 0 and writes a fresh header.
func writeHeader(f *os.File, hashTableSize, keySize, valueSize uint64) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("kissdb: seek header: %w: %w", err, ErrIO)
	}
	return writeBytes(f, encodeHeader(hashTableSize, keySize, valueSize))
}

// readHeader seeks to offset 0, reads 28 bytes and validates the magic.
// It returns ErrCorrupt if the magic/version doesn't match.
func readHeader(f *os.File) (hashTableSize, keySize, valueSize uint64, err error) {
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return 0, 0, 0, fmt.Errorf("kissdb: seek header: %w: %w", err, ErrIO)
	}

	buf, err := readFixed(f, headerSize)
	if err != nil {
		return 0, 0, 0, err
	}

	if !bytes.Equal(buf[0:4], magic[:]) {
		return 0, 0, 0, fmt.Errorf("kissdb: bad magic %x: %w", buf[0:4], ErrCorrupt)
	}

	hashTableSize = binary.LittleEndian.Uint64(buf[4:12])
	keySize = binary.LittleEndian.Uint64(buf[12:20])
	valueSize = binary.LittleEndian.Uint64(buf[20:28])
	return hashTableSize, keySize, valueSize, nil
}
