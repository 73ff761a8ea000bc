// errors.go -- error taxonomy for kissdb
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package kissdb

import "errors"

// Sentinel errors returned by kissdb operations.
//
// Callers should use errors.Is to check error classes; operations wrap
// these with additional context via fmt.Errorf("...: %w", ...).
var (
	// ErrIO is returned when an underlying file operation (open, seek,
	// read, write, flush) fails.
	ErrIO = errors.New("kissdb: i/o error")

	// ErrCorrupt is returned when the file header's magic/version does
	// not match, or a hash-table page is truncated mid-chain.
	ErrCorrupt = errors.New("kissdb: corrupt db file")

	// ErrInvalidParameters is returned when a fresh file is opened
	// without positive hash_table_size/key_size/value_size, or when
	// Put is called with a key or value of the wrong length.
	ErrInvalidParameters = errors.New("kissdb: invalid parameters")

	// ErrClosed is returned by any operation on a Store that has
	// already been closed, or whose last Put failed mid-mutation and
	// left the in-memory chain possibly divergent from the file.
	ErrClosed = errors.New("kissdb: store closed or unusable")
)
