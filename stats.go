// stats.go -- human-readable diagnostics for kissdb
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
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// DumpMeta writes a short human-readable summary of the store to w: its
// sizing parameters, page count, on-disk file size and (if configured)
// the current read-cache occupancy. It is a pure introspection aid with
// no effect on the store's behavior.
func (s *Store) DumpMeta(w io.Writer) {
	var size int64
	if fi, err := s.f.Stat(); err == nil {
		size = fi.Size()
	}

	fmt.Fprintf(w, "kissdb: H=%d K=%d V=%d pages=%d size=%s\n",
		s.hashTableSize, s.keySize, s.valueSize, s.chain.numPages, humanize.Bytes(uint64(size)))

	if s.cache != nil {
		fmt.Fprintf(w, "  read cache: %d entries\n", s.cache.len())
	}
}
