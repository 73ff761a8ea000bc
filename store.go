// store.go -- Open/Get/Put/Close engine for kissdb
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
	"fmt"
	"io"
	"os"
	"time"

	atomicfile "github.com/natefinch/atomic"
)

// OpenMode controls how Open acquires and initializes the underlying file.
type OpenMode int

const (
	// ReadOnly requires the file to already exist; Put will fail.
	ReadOnly OpenMode = iota

	// RW requires the file to already exist and allows Get and Put.
	RW

	// RWCreate opens the file for read/write, creating an empty one if
	// it doesn't exist. An existing file is opened as-is, not truncated.
	RWCreate

	// RWReplace always starts from an empty file at path, atomically
	// replacing any previous contents.
	RWReplace
)

// Options configures Open. HashTableSize, KeySize and ValueSize are only
// consulted when initializing a brand-new (empty) file; once a file has
// a header, its on-disk sizes always win, regardless of what's passed.
type Options struct {
	// HashTableSize is the number of buckets per hash-table page.
	HashTableSize uint64

	// KeySize is the fixed size, in bytes, of every key.
	KeySize uint64

	// ValueSize is the fixed size, in bytes, of every value.
	ValueSize uint64

	// CacheSize bounds an optional in-process read-through cache in
	// front of Get. 0 disables the cache entirely.
	CacheSize int
}

// Store is a single open handle on a kissdb file. It is not safe for
// concurrent use: callers must serialize their own access.
//
// If any operation returns an error wrapping ErrIO, the Store's
// in-memory chain may have diverged from the on-disk file; the Store
// should be closed and not reused.
type Store struct {
	f *os.File

	hashTableSize uint64
	keySize       uint64
	valueSize     uint64

	chain *pageChain
	cache *readCache

	closed   bool
	poisoned bool
}

// Open opens or creates a kissdb file at path under the given mode. See
// OpenMode for the behavior of each mode.
func Open(path string, mode OpenMode, opts Options) (*Store, error) {
	f, err := openFile(path, mode)
	if err != nil {
		return nil, err
	}

	s, err := initStore(f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return s, nil
}

// openFile acquires the *os.File handle for mode, per the table in
// spec §4.3: ReadOnly/RW require an existing file; RWCreate creates an
// empty one if absent; RWReplace always starts from empty, atomically.
func openFile(path string, mode OpenMode) (*os.File, error) {
	switch mode {
	case ReadOnly:
		f, err := os.OpenFile(path, os.O_RDONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("kissdb: open %s: %w: %w", path, err, ErrIO)
		}
		return f, nil

	case RW:
		f, err := os.OpenFile(path, os.O_RDWR, 0o644)
		if err != nil {
			return nil, fmt.Errorf("kissdb: open %s: %w: %w", path, err, ErrIO)
		}
		return f, nil

	case RWCreate:
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			return nil, fmt.Errorf("kissdb: open %s: %w: %w", path, err, ErrIO)
		}
		return f, nil

	case RWReplace:
		// Atomically replace any existing contents with an empty file
		// via temp-file-then-rename, so a reader racing the replace (or
		// a crash mid-replace) never observes a half-truncated file.
		if err := atomicfile.WriteFile(path, bytes.NewReader(nil)); err != nil {
			return nil, fmt.Errorf("kissdb: atomic replace %s: %w: %w", path, err, ErrIO)
		}
		f, err := os.OpenFile(path, os.O_RDWR, 0o644)
		if err != nil {
			return nil, fmt.Errorf("kissdb: open %s: %w: %w", path, err, ErrIO)
		}
		return f, nil

	default:
		return nil, fmt.Errorf("kissdb: unknown open mode %d: %w", mode, ErrInvalidParameters)
	}
}

// initStore reads or writes the header, reconstructs the page chain by
// walking it from offset 28, and assembles the Store.
func initStore(f *os.File, opts Options) (*Store, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("kissdb: stat: %w: %w", err, ErrIO)
	}

	var hashTableSize, keySize, valueSize uint64

	if fi.Size() < headerSize {
		if opts.HashTableSize == 0 || opts.KeySize == 0 || opts.ValueSize == 0 {
			return nil, fmt.Errorf("kissdb: new database requires positive hash_table_size/key_size/value_size: %w", ErrInvalidParameters)
		}

		if err := writeHeader(f, opts.HashTableSize, opts.KeySize, opts.ValueSize); err != nil {
			return nil, err
		}

		hashTableSize, keySize, valueSize = opts.HashTableSize, opts.KeySize, opts.ValueSize
	} else {
		hashTableSize, keySize, valueSize, err = readHeader(f)
		if err != nil {
			return nil, err
		}
	}

	chain := newPageChain(hashTableSize)
	if err := loadChain(f, chain); err != nil {
		return nil, err
	}

	cache, err := newReadCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Store{
		f:             f,
		hashTableSize: hashTableSize,
		keySize:       keySize,
		valueSize:     valueSize,
		chain:         chain,
		cache:         cache,
	}, nil
}

// loadChain walks the on-disk page chain starting at offset 28, pushing
// each page onto chain in order. A clean EOF with no page read (an empty
// database) or a zero next-link both terminate the walk.
func loadChain(f *os.File, chain *pageChain) error {
	offset := int64(firstPageOffset)

	for {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return fmt.Errorf("kissdb: seek page: %w: %w", err, ErrIO)
		}

		page, err := readPage(f, chain.hashTableSize)
		if err != nil {
			return err
		}
		if page == nil {
			return nil
		}

		chain.append(page)

		next := page[chain.hashTableSize]
		if next == 0 {
			return nil
		}
		offset = int64(next)
	}
}

// Get looks up key and returns its value. A key of the wrong length, or
// one never written, is reported as (nil, false, nil) -- not an error.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	if s.closed || s.poisoned {
		return nil, false, ErrClosed
	}

	metricGets.Inc()

	if uint64(len(key)) != s.keySize {
		return nil, false, nil
	}

	if v, ok := s.cache.get(key); ok {
		metricCacheHits.Inc()
		return v, true, nil
	}

	b := bucketOf(key, s.hashTableSize)

	for p := uint64(0); p < s.chain.numPages; p++ {
		slot := s.chain.bucket(p, b)
		if slot == 0 {
			// Later pages cannot hold this key either: see Put's
			// first-writer-wins placement invariant.
			return nil, false, nil
		}

		if _, err := s.f.Seek(int64(slot), io.SeekStart); err != nil {
			return nil, false, fmt.Errorf("kissdb: seek record: %w: %w", err, ErrIO)
		}

		got, err := readFixed(s.f, int(s.keySize))
		if err != nil {
			return nil, false, err
		}

		if bytes.Equal(got, key) {
			val, err := readFixed(s.f, int(s.valueSize))
			if err != nil {
				return nil, false, err
			}

			s.cache.put(key, val)
			return val, true, nil
		}
	}

	return nil, false, nil
}

// Put inserts key/value, or overwrites value in place if key is already
// present. Every successful Put flushes the change to the OS before
// returning.
func (s *Store) Put(key, value []byte) error {
	if s.closed || s.poisoned {
		return ErrClosed
	}

	if uint64(len(key)) != s.keySize || uint64(len(value)) != s.valueSize {
		return fmt.Errorf("kissdb: put: key/value size mismatch: %w", ErrInvalidParameters)
	}

	start := time.Now()
	defer func() { metricPutDuration.Observe(time.Since(start).Seconds()) }()

	b := bucketOf(key, s.hashTableSize)

	lastPageOffset := uint64(firstPageOffset)
	currentPageOffset := uint64(firstPageOffset)

	for p := uint64(0); p < s.chain.numPages; p++ {
		slot := s.chain.bucket(p, b)

		if slot != 0 {
			if _, err := s.f.Seek(int64(slot), io.SeekStart); err != nil {
				s.poisoned = true
				return fmt.Errorf("kissdb: seek record: %w: %w", err, ErrIO)
			}

			got, err := readFixed(s.f, int(s.keySize))
			if err != nil {
				s.poisoned = true
				return err
			}

			if bytes.Equal(got, key) {
				if err := writeBytes(s.f, value); err != nil {
					s.poisoned = true
					return err
				}

				s.cache.put(key, value)
				metricPuts.Inc()
				return nil
			}

			lastPageOffset = currentPageOffset
			currentPageOffset = s.chain.nextLink(p)
			continue
		}

		// Empty bucket: this key (and no earlier page holds it, by the
		// scan-in-order invariant) gets its record appended here.
		endOffset, err := s.f.Seek(0, io.SeekEnd)
		if err != nil {
			s.poisoned = true
			return fmt.Errorf("kissdb: seek end: %w: %w", err, ErrIO)
		}

		if err := writeBytes(s.f, key); err != nil {
			s.poisoned = true
			return err
		}
		if err := writeBytes(s.f, value); err != nil {
			s.poisoned = true
			return err
		}

		if _, err := s.f.Seek(int64(currentPageOffset)+int64(b)*8, io.SeekStart); err != nil {
			s.poisoned = true
			return fmt.Errorf("kissdb: seek bucket: %w: %w", err, ErrIO)
		}
		if err := writeU64LE(s.f, uint64(endOffset)); err != nil {
			s.poisoned = true
			return err
		}

		s.chain.setBucket(p, b, uint64(endOffset))
		s.cache.put(key, value)
		metricPuts.Inc()
		return nil
	}

	// Every existing page's bucket for this key is occupied by a
	// different key: allocate a new page.
	newPageOffset, err := s.f.Seek(0, io.SeekEnd)
	if err != nil {
		s.poisoned = true
		return fmt.Errorf("kissdb: seek end: %w: %w", err, ErrIO)
	}

	newPage := make([]uint64, s.hashTableSize+1)
	recordOffset := uint64(newPageOffset) + (s.hashTableSize+1)*8
	newPage[b] = recordOffset

	if err := writePage(s.f, newPage); err != nil {
		s.poisoned = true
		return err
	}
	if err := writeBytes(s.f, key); err != nil {
		s.poisoned = true
		return err
	}
	if err := writeBytes(s.f, value); err != nil {
		s.poisoned = true
		return err
	}

	if s.chain.numPages > 0 {
		if _, err := s.f.Seek(int64(lastPageOffset+s.hashTableSize*8), io.SeekStart); err != nil {
			s.poisoned = true
			return fmt.Errorf("kissdb: seek next-link: %w: %w", err, ErrIO)
		}
		if err := writeU64LE(s.f, uint64(newPageOffset)); err != nil {
			s.poisoned = true
			return err
		}

		s.chain.setNextLink(s.chain.numPages-1, uint64(newPageOffset))
	}

	s.chain.append(newPage)
	metricPagesAllocated.Inc()

	s.cache.put(key, value)
	metricPuts.Inc()
	return nil
}

// Close releases the underlying file handle. No further flush is
// performed -- every successful Put has already flushed. Close is
// idempotent.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	s.cache.purge()

	if err := s.f.Close(); err != nil {
		return fmt.Errorf("kissdb: close: %w: %w", err, ErrIO)
	}

	return nil
}
