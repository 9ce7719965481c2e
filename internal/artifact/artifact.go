package artifact

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"cinematch/internal/fileutil"
	"cinematch/internal/similarity"
)

// SchemaVersion is the on-disk format version written by this package.
const SchemaVersion uint16 = 1

// Magic identifies an artifact file.
var Magic = [8]byte{'C', 'M', 'S', 'I', 'M', 'T', 'X', 0}

const (
	headerSize  = 8 + 2 + 8 + 8 + 16 + sha256.Size
	trailerSize = 4
	chunkFloats = 8192
	maxRows     = 1 << 24
)

var (
	// ErrIncompatible reports a file that is not an artifact of a supported version.
	ErrIncompatible = errors.New("artifact: incompatible format")
	// ErrCorrupt reports a truncated file, a size mismatch, or a checksum failure.
	ErrCorrupt = errors.New("artifact: corrupt file")
)

// Header describes a persisted matrix.
type Header struct {
	Version       uint16
	Rows          int
	BuiltAt       time.Time
	BuildID       uuid.UUID
	DatasetSHA256 [sha256.Size]byte
}

// PayloadSize returns the number of matrix bytes the header announces.
func (h Header) PayloadSize() int64 {
	return int64(h.Rows) * int64(h.Rows) * 8
}

// Write stores m at path with the given header metadata. Version and Rows
// are taken from the package and the matrix.
func Write(path string, h Header, m *similarity.Matrix) error {
	h.Version = SchemaVersion
	h.Rows = m.Rows()
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := writeHeader(bw, h); err != nil {
			return err
		}
		crc := crc32.NewIEEE()
		payload := io.MultiWriter(bw, crc)
		buf := make([]byte, 0, chunkFloats*8)
		for _, v := range m.Values() {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
			if len(buf) == cap(buf) {
				if _, err := payload.Write(buf); err != nil {
					return fmt.Errorf("write payload: %w", err)
				}
				buf = buf[:0]
			}
		}
		if len(buf) > 0 {
			if _, err := payload.Write(buf); err != nil {
				return fmt.Errorf("write payload: %w", err)
			}
		}
		if err := binary.Write(bw, binary.LittleEndian, crc.Sum32()); err != nil {
			return fmt.Errorf("write checksum: %w", err)
		}
		return bw.Flush()
	})
}

// ReadHeader decodes only the header of the artifact at path.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	return readHeader(bufio.NewReader(f))
}

// Read loads the artifact at path, verifying its size and checksum.
func Read(path string) (Header, *similarity.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Header{}, nil, err
	}
	r := bufio.NewReader(f)
	h, err := readHeader(r)
	if err != nil {
		return Header{}, nil, err
	}
	want := int64(headerSize) + h.PayloadSize() + trailerSize
	if info.Size() != want {
		return Header{}, nil, fmt.Errorf("%w: size %d bytes, header announces %d", ErrCorrupt, info.Size(), want)
	}

	values := make([]float64, h.Rows*h.Rows)
	crc := crc32.NewIEEE()
	buf := make([]byte, chunkFloats*8)
	for off := 0; off < len(values); {
		count := min(chunkFloats, len(values)-off)
		chunk := buf[:count*8]
		if _, err := io.ReadFull(r, chunk); err != nil {
			return Header{}, nil, fmt.Errorf("%w: read payload: %v", ErrCorrupt, err)
		}
		_, _ = crc.Write(chunk)
		for i := 0; i < count; i++ {
			values[off+i] = math.Float64frombits(binary.LittleEndian.Uint64(chunk[i*8:]))
		}
		off += count
	}

	var stored uint32
	if err := binary.Read(r, binary.LittleEndian, &stored); err != nil {
		return Header{}, nil, fmt.Errorf("%w: read checksum: %v", ErrCorrupt, err)
	}
	if stored != crc.Sum32() {
		return Header{}, nil, fmt.Errorf("%w: checksum mismatch (stored %08x, computed %08x)", ErrCorrupt, stored, crc.Sum32())
	}

	m, err := similarity.FromValues(h.Rows, values)
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return h, m, nil
}

func writeHeader(w io.Writer, h Header) error {
	buf := make([]byte, 0, headerSize)
	buf = append(buf, Magic[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, h.Version)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.Rows))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.BuiltAt.UnixNano()))
	buf = append(buf, h.BuildID[:]...)
	buf = append(buf, h.DatasetSHA256[:]...)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func readHeader(r io.Reader) (Header, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if n >= len(Magic) && [8]byte(buf[:8]) != Magic {
			return Header{}, fmt.Errorf("%w: bad magic", ErrIncompatible)
		}
		if n < len(Magic) && !isMagicPrefix(buf[:n]) {
			return Header{}, fmt.Errorf("%w: bad magic", ErrIncompatible)
		}
		return Header{}, fmt.Errorf("%w: truncated header: %v", ErrCorrupt, err)
	}
	if [8]byte(buf[:8]) != Magic {
		return Header{}, fmt.Errorf("%w: bad magic", ErrIncompatible)
	}

	var h Header
	h.Version = binary.LittleEndian.Uint16(buf[8:])
	if h.Version != SchemaVersion {
		return Header{}, fmt.Errorf("%w: schema version %d, expected %d", ErrIncompatible, h.Version, SchemaVersion)
	}
	rows := binary.LittleEndian.Uint64(buf[10:])
	if rows > maxRows {
		return Header{}, fmt.Errorf("%w: implausible row count %d", ErrCorrupt, rows)
	}
	h.Rows = int(rows)
	h.BuiltAt = time.Unix(0, int64(binary.LittleEndian.Uint64(buf[18:]))).UTC()
	copy(h.BuildID[:], buf[26:42])
	copy(h.DatasetSHA256[:], buf[42:42+sha256.Size])
	return h, nil
}

func isMagicPrefix(b []byte) bool {
	for i := range b {
		if b[i] != Magic[i] {
			return false
		}
	}
	return true
}
