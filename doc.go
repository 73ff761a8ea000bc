// doc.go -- package overview for kissdb
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package kissdb implements a minimal, persistent key/value store backed
// by a single regular file. Keys and values are fixed-length binary
// blobs, sized when the database is created.
//
// The on-disk layout is a linear-chained sequence of open-addressed
// hash-table pages. Each page holds hash_table_size buckets, where a
// bucket is either empty (0) or a file offset to a record written
// elsewhere in the file. A page's final slot links to the next page in
// the chain, or 0 to terminate it. Records are never moved once
// written; an overwrite rewrites the value in place.
//
// kissdb supports exactly three operations: Get, Put, and the Open/Close
// lifecycle. There is no deletion, no iteration, no transactions and no
// concurrent access -- callers must serialize their own access to a
// Store. Durability is flush-after-each-Put; there is no fsync and no
// cross-Put atomicity.
package kissdb
