package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// ErrEmptyArchive is returned when an archive holds no regular file.
var ErrEmptyArchive = errors.New("utils: archive is empty")

// ErrEntryNotFound is returned when a named archive entry does not exist.
var ErrEntryNotFound = errors.New("utils: archive entry not found")

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip, .7z) yield their first regular file.
func LoadFile(filename string) ([]byte, error) {
	return LoadFileEntry(filename, "")
}

// LoadFileEntry loads the given file like LoadFile, but when the file is
// an archive the entry with the given name is returned instead of the
// first one. An empty name selects the first regular file.
func LoadFileEntry(filename, entry string) ([]byte, error) {
	// read the file into a byte slice
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return Decompress(filepath.Ext(filename), data, entry)
}

// Decompress decodes data according to the given file extension. Unknown
// extensions return data as is.
func Decompress(ext string, data []byte, entry string) ([]byte, error) {
	var decoder io.Reader
	var err error

	// try to assert the compression type from the file extension
	switch strings.ToLower(ext) {
	case ".gz":
		decoder, err = gzip.NewReader(bytes.NewReader(data))
	case ".xz":
		decoder, err = xz.NewReader(bytes.NewReader(data))
	case ".br":
		decoder = brotli.NewReader(bytes.NewReader(data))
	case ".lz4":
		decoder = lz4.NewReader(bytes.NewReader(data))
	case ".zst":
		var d *zstd.Decoder
		d, err = zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer d.Close()
		decoder = d
	case ".zip":
		// open the zip file
		zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}

		for _, f := range zipReader.File {
			if f.FileInfo().IsDir() || (entry != "" && f.Name != entry) {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
		return nil, archiveMiss(entry)
	case ".7z":
		r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}

		for _, f := range r.File {
			if f.FileInfo().IsDir() || (entry != "" && f.Name != entry) {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
		return nil, archiveMiss(entry)
	default:
		// return the data as is
		return data, nil
	}

	if err != nil {
		return nil, err
	}

	// read the decompressed data into a byte slice
	return io.ReadAll(decoder)
}

func archiveMiss(entry string) error {
	if entry == "" {
		return ErrEmptyArchive
	}
	return fmt.Errorf("%w: %s", ErrEntryNotFound, entry)
}
