package traceio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/sortviz/pkg/safeconv"
	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
)

// DefaultMaxSize is the default limit applied by Load.
const DefaultMaxSize = "64MB"

var (
	// ErrTraceTooLarge is returned when a trace file exceeds the configured size limit.
	ErrTraceTooLarge = errors.New("trace file too large")
	// ErrInvalidMaxSize is returned when a size limit cannot be parsed.
	ErrInvalidMaxSize = errors.New("invalid size limit")
)

// ParseMaxSize parses a human-readable size such as "64MB" or "512 KiB".
func ParseMaxSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidMaxSize, s, err)
	}

	size, ok := safeconv.Int64(n)
	if n == 0 || !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxSize, s)
	}

	return size, nil
}

// Write encodes t to w.
func Write(w io.Writer, codec Codec, t *sorting.Trace) error {
	err := codec.Encode(w, t)
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}

	return nil
}

// Save writes t to path using codec.
func Save(path string, codec Codec, t *sorting.Trace) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}

	err = Write(file, codec, t)
	if err != nil {
		file.Close()

		return err
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close trace file: %w", err)
	}

	return nil
}

// Load reads the trace at path, choosing the codec from its extension.
// Files larger than maxSize bytes are refused, and so are compressed files
// that inflate past it. maxSize <= 0 disables both checks.
func Load(path string, maxSize int64) (*sorting.Trace, error) {
	codec, err := CodecForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	defer file.Close()

	if maxSize > 0 {
		info, statErr := file.Stat()
		if statErr != nil {
			return nil, fmt.Errorf("stat trace file: %w", statErr)
		}

		if info.Size() > maxSize {
			return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrTraceTooLarge, path,
				humanize.Bytes(safeconv.ByteCount(info.Size())), humanize.Bytes(safeconv.ByteCount(maxSize)))
		}

		if lz, ok := codec.(LZ4Codec); ok {
			lz.MaxDecoded = maxSize
			codec = lz
		}
	}

	t, err := codec.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode trace %s: %w", path, err)
	}

	return t, nil
}
