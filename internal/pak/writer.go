package pak

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// File is a file to be stored in an archive.
type File struct {
	Path string
	Data []byte
}

// Write writes an archive holding files to w, in order.
func Write(w io.Writer, files []File) error {
	if len(files) > MaxFiles {
		return fmt.Errorf("pak: %d files, at most %d fit", len(files), MaxFiles)
	}

	seen := make(map[uint32]string, len(files))
	table := make([]byte, headerSize+entrySize*len(files))
	binary.BigEndian.PutUint16(table, uint16(len(files)))

	offset := uint64(len(table))
	for i, f := range files {
		sum := Checksum(f.Path)
		if other, ok := seen[sum]; ok {
			return fmt.Errorf("%w: %q and %q", ErrPathCollision, other, f.Path)
		}
		seen[sum] = f.Path

		if offset+uint64(len(f.Data)) > 0xFFFFFFFF {
			return fmt.Errorf("pak: %q does not fit a 4GB archive", f.Path)
		}
		b := table[headerSize+i*entrySize:]
		binary.BigEndian.PutUint32(b, sum)
		binary.BigEndian.PutUint32(b[4:], uint32(offset))
		binary.BigEndian.PutUint32(b[8:], uint32(len(f.Data)))
		offset += uint64(len(f.Data))
	}

	if _, err := w.Write(table); err != nil {
		return err
	}
	for _, f := range files {
		if _, err := w.Write(f.Data); err != nil {
			return err
		}
	}
	return nil
}

// Create writes an archive holding files at path.
func Create(path string, files []File) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, files); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
