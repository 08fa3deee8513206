// Package hasher computes xxHash64 digests for dump payload checksums and
// content-addressed output filenames.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Sum digests one or more chunks as if they were concatenated, without
// concatenating them.
func Sum(chunks ...[]byte) uint64 {
	d := xxhash.New()
	for _, c := range chunks {
		d.Write(c)
	}
	return d.Sum64()
}

// Hex renders a digest big-endian, truncated to hexLen characters when
// hexLen is positive and shorter than the full 16.
func Hex(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}

// ContentHash is the content-addressed filename form of a digest.
func ContentHash(data []byte, hexLen int) string {
	return Hex(xxhash.Sum64(data), hexLen)
}

// Reader digests a stream.
func Reader(r io.Reader) (uint64, error) {
	d := xxhash.New()
	if _, err := io.Copy(d, r); err != nil {
		return 0, err
	}
	return d.Sum64(), nil
}

// File digests a file's contents.
func File(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Reader(f)
}
