package tabular

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// compressionType represents the compression applied on top of a file format.
type compressionType int

const (
	// compressionNone represents no compression
	compressionNone compressionType = iota
	// compressionGZ represents gzip compression
	compressionGZ
	// compressionBZ2 represents bzip2 compression
	compressionBZ2
	// compressionXZ represents xz compression
	compressionXZ
	// compressionZSTD represents zstandard compression
	compressionZSTD
)

// String returns the string representation of compressionType.
func (c compressionType) String() string {
	switch c {
	case compressionGZ:
		return "gz"
	case compressionBZ2:
		return "bz2"
	case compressionXZ:
		return "xz"
	case compressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// extension returns the file extension for the compression type.
func (c compressionType) extension() string {
	switch c {
	case compressionGZ:
		return extGZ
	case compressionBZ2:
		return extBZ2
	case compressionXZ:
		return extXZ
	case compressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

// newReader wraps reader with a decompression reader if needed. The returned
// cleanup function releases the decompressor, not the underlying reader.
func (c compressionType) newReader(reader io.Reader) (io.Reader, func() error, error) {
	switch c {
	case compressionNone:
		return reader, func() error { return nil }, nil

	case compressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case compressionBZ2:
		// bzip2.NewReader doesn't need closing
		return bzip2.NewReader(reader), func() error { return nil }, nil

	case compressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		// xz.Reader doesn't have a Close method
		return xzReader, func() error { return nil }, nil

	case compressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown compression", ErrUnsupportedFormat)
	}
}

// newWriter wraps writer with a compression writer if needed. The returned
// cleanup function flushes and closes the compressor, not the underlying
// writer. The standard library has no bzip2 writer, so bzip2 output is
// rejected.
func (c compressionType) newWriter(writer io.Writer) (io.Writer, func() error, error) {
	switch c {
	case compressionNone:
		return writer, func() error { return nil }, nil

	case compressionGZ:
		gzWriter := gzip.NewWriter(writer)
		return gzWriter, gzWriter.Close, nil

	case compressionBZ2:
		return nil, nil, fmt.Errorf("%w: bzip2 output is not supported", ErrUnsupportedFormat)

	case compressionXZ:
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xzWriter, xzWriter.Close, nil

	case compressionZSTD:
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, zstdWriter.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown compression", ErrUnsupportedFormat)
	}
}

// openFileReader opens target's file and returns a reader that handles
// decompression. The composite cleanup closes both decompressor and file.
func openFileReader(target fileTarget) (io.Reader, func() error, error) {
	file, err := os.Open(target.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrSourceNotFound, target.path)
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, cleanup, err := target.compression.newReader(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	compositeCleanup := func() error {
		var cleanupErr error
		if cleanup != nil {
			cleanupErr = cleanup()
		}
		if closeErr := file.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}
	return reader, compositeCleanup, nil
}

// createFileWriter creates target's file and returns a writer that handles
// compression. The composite cleanup flushes the compressor, syncs and closes
// the file. Filesystem failures wrap ErrWrite.
func createFileWriter(target fileTarget) (io.Writer, func() error, error) {
	file, err := os.Create(target.path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrWrite, target.path, err)
	}

	writer, cleanup, err := target.compression.newWriter(file)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	compositeCleanup := func() error {
		var cleanupErr error
		if cleanup != nil {
			cleanupErr = cleanup()
		}
		if syncErr := file.Sync(); syncErr != nil && cleanupErr == nil {
			cleanupErr = syncErr
		}
		if closeErr := file.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		if cleanupErr != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrite, target.path, cleanupErr)
		}
		return nil
	}
	return writer, compositeCleanup, nil
}
