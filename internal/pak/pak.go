// Package pak reads and writes pak archives: a flat list of files looked
// up by the Adler-32 checksum of their path.
//
// Layout, all integers big-endian:
//
//	uint16 file count
//	count * { uint32 path checksum, uint32 offset, uint32 size }
//	file data, offsets being absolute
package pak

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/adler32"
	"io"
	"os"

	"github.com/youenchene/ACE/pkg/log"
)

const (
	headerSize = 2
	entrySize  = 12
	// MaxFiles is the largest number of files an archive can hold.
	MaxFiles = 0xFFFF
)

var (
	// ErrNotFound is returned for paths the archive does not hold.
	ErrNotFound = errors.New("pak: file not found")
	// ErrReadOnly is returned when writing to a file of an archive.
	ErrReadOnly = errors.New("pak: file is read-only")
	// ErrSeekRange is returned for seeks outside of a file. The position is
	// clamped to the file.
	ErrSeekRange = errors.New("pak: seek out of range")
	// ErrTruncated is returned for archives shorter than their table says.
	ErrTruncated = errors.New("pak: truncated archive")
	// ErrPathCollision is returned when two paths of an archive being
	// written have the same checksum.
	ErrPathCollision = errors.New("pak: path checksum collision")
)

// Checksum returns the checksum a path is looked up by.
func Checksum(path string) uint32 {
	return adler32.Checksum([]byte(path))
}

// Entry describes one file of an archive.
type Entry struct {
	Checksum uint32
	Offset   uint32
	Size     uint32
}

// Reader gives access to the files of an archive.
type Reader struct {
	r       io.ReaderAt
	closer  io.Closer
	entries []Entry

	log log.Logger
}

// Opt configures a Reader.
type Opt func(p *Reader)

// WithLogger sets the logger lookups are reported to.
func WithLogger(l log.Logger) Opt {
	return func(p *Reader) {
		p.log = l
	}
}

// Open opens the archive at path.
func Open(path string, opts ...Opt) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := NewReader(f, info.Size(), opts...)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	p.closer = f
	p.log.Debugf("pak: opened %s, %d files", path, len(p.entries))
	return p, nil
}

// NewReader reads the table of the archive of the given size held by r.
func NewReader(r io.ReaderAt, size int64, opts ...Opt) (*Reader, error) {
	p := &Reader{r: r, log: log.NewNullLogger()}
	for _, opt := range opts {
		opt(p)
	}

	var hdr [headerSize]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return nil, fmt.Errorf("%w: reading file count: %v", ErrTruncated, err)
	}
	count := int(binary.BigEndian.Uint16(hdr[:]))

	table := make([]byte, count*entrySize)
	if _, err := r.ReadAt(table, headerSize); count > 0 && err != nil {
		return nil, fmt.Errorf("%w: reading %d entries: %v", ErrTruncated, count, err)
	}
	p.entries = make([]Entry, count)
	for i := range p.entries {
		b := table[i*entrySize:]
		e := Entry{
			Checksum: binary.BigEndian.Uint32(b),
			Offset:   binary.BigEndian.Uint32(b[4:]),
			Size:     binary.BigEndian.Uint32(b[8:]),
		}
		if int64(e.Offset)+int64(e.Size) > size {
			return nil, fmt.Errorf("%w: file %d ends at %d of %d bytes", ErrTruncated, i, int64(e.Offset)+int64(e.Size), size)
		}
		p.entries[i] = e
	}
	return p, nil
}

// Close closes the archive file if the Reader opened it.
func (p *Reader) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Entries returns the table of the archive.
func (p *Reader) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Index returns the index of the file at path. Paths are only compared by
// checksum and the first match wins.
func (p *Reader) Index(path string) (int, bool) {
	sum := Checksum(path)
	for i, e := range p.entries {
		if e.Checksum == sum {
			return i, true
		}
	}
	return 0, false
}

// GetFile opens the file at path.
func (p *Reader) GetFile(path string) (*Subfile, error) {
	i, ok := p.Index(path)
	if !ok {
		p.log.Errorf("pak: can't find %q in archive", path)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	p.log.Debugf("pak: %q is file %d", path, i)
	e := p.entries[i]
	return &Subfile{
		r:     io.NewSectionReader(p.r, int64(e.Offset), int64(e.Size)),
		index: i,
		log:   p.log,
	}, nil
}

// ReadFile returns the content of the file at path.
func (p *Reader) ReadFile(path string) ([]byte, error) {
	f, err := p.GetFile(path)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}

// Subfile is a read-only view of one file of an archive.
type Subfile struct {
	r     *io.SectionReader
	pos   int64
	index int

	log log.Logger
}

// Size returns the size of the file.
func (f *Subfile) Size() int64 {
	return f.r.Size()
}

// Read implements io.Reader, stopping at the end of the file.
func (f *Subfile) Read(b []byte) (int, error) {
	n, err := f.r.ReadAt(b, f.pos)
	f.pos += int64(n)
	return n, err
}

// Seek implements io.Seeker. Positions outside of the file are clamped to
// it and reported with ErrSeekRange.
func (f *Subfile) Seek(offset int64, whence int) (int64, error) {
	pos := f.pos
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos += offset
	case io.SeekEnd:
		pos = f.Size() + offset
	default:
		return f.pos, fmt.Errorf("pak: invalid whence %d", whence)
	}

	if pos < 0 || pos > f.Size() {
		f.log.Errorf("pak: seek out of range for file %d", f.index)
		f.pos = min(max(pos, 0), f.Size())
		return f.pos, fmt.Errorf("%w: %d of %d", ErrSeekRange, pos, f.Size())
	}
	f.pos = pos
	return f.pos, nil
}

// Write always fails, archives are read-only.
func (f *Subfile) Write([]byte) (int, error) {
	f.log.Errorf("pak: write to file %d unsupported", f.index)
	return 0, ErrReadOnly
}

// EOF reports whether the whole file was read.
func (f *Subfile) EOF() bool {
	return f.pos >= f.Size()
}

// Close releases the file. The archive stays open.
func (f *Subfile) Close() error {
	return nil
}
