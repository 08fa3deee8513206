// Package dump serializes encode results into the .dcs container: a fixed
// header followed by the three channel symbol streams, optionally
// zstd-compressed, with an xxHash64 integrity checksum over the
// uncompressed payload.
//
// Layout (integers little-endian):
//
//	[0:4]   magic "DCS1"
//	[4]     version
//	[5]     flags: bit0 = chroma subsampled, bit1 = zstd payload
//	[6:8]   quality (0 = caller-supplied tables)
//	[8:12]  image width
//	[12:16] image height
//	[16:24] xxHash64 of the uncompressed payload
//	[24:28] stored payload length
//	[28:]   payload
//
// The payload is three sections in Y, Cb, Cr order, each a uint32 length
// followed by that channel's concatenated block streams in raster-scan
// order.  Block counts are derived from the dimensions and flags, never
// stored.
package dump

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/AnyUserName/dctstream/internal/block"
	"github.com/AnyUserName/dctstream/internal/encoder"
	"github.com/AnyUserName/dctstream/internal/hasher"
)

const (
	magic     = "DCS1"
	headerLen = 28

	// Version of the container layout written by Marshal.
	Version = 1

	flagSubsampled = 1 << 0
	flagCompressed = 1 << 1
)

var (
	ErrHeader   = errors.New("dump: header too short")
	ErrMagic    = errors.New("dump: bad magic")
	ErrVersion  = errors.New("dump: unsupported version")
	ErrChecksum = errors.New("dump: payload checksum mismatch")
	ErrPayload  = errors.New("dump: truncated or malformed payload")
)

// ChannelNames indexes the payload sections.
var ChannelNames = [3]string{"Y", "Cb", "Cr"}

// Shared one-shot coders; EncodeAll/DecodeAll are safe for concurrent use.
var (
	zstdEnc, _ = zstd.NewWriter(nil)
	zstdDec, _ = zstd.NewReader(nil)
)

// File is one parsed dump.
type File struct {
	Version    uint8
	Quality    int
	Width      int
	Height     int
	Subsampled bool
	Compressed bool
	Channels   [3][]byte // serialized Y, Cb, Cr block streams
}

// ─── writing ─────────────────────────────────────────────────

// Marshal serializes an encode result.
func Marshal(res *encoder.Result, compress bool) []byte {
	var sections [3][]byte
	payloadLen := 0
	for i := range res.Channels {
		sections[i] = res.Channels[i].Bytes()
		payloadLen += 4 + len(sections[i])
	}

	payload := make([]byte, 0, payloadLen)
	var lenBuf [4]byte
	for _, s := range sections {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
		payload = append(payload, lenBuf[:]...)
		payload = append(payload, s...)
	}
	sum := hasher.Sum(payload)

	var flags uint8
	if res.Subsampled {
		flags |= flagSubsampled
	}
	stored := payload
	if compress {
		flags |= flagCompressed
		stored = zstdEnc.EncodeAll(payload, make([]byte, 0, len(payload)/2))
	}

	out := make([]byte, headerLen, headerLen+len(stored))
	copy(out[0:4], magic)
	out[4] = Version
	out[5] = flags
	binary.LittleEndian.PutUint16(out[6:8], uint16(res.Quality))
	binary.LittleEndian.PutUint32(out[8:12], uint32(res.Width))
	binary.LittleEndian.PutUint32(out[12:16], uint32(res.Height))
	binary.LittleEndian.PutUint64(out[16:24], sum)
	binary.LittleEndian.PutUint32(out[24:28], uint32(len(stored)))
	return append(out, stored...)
}

// WriteFile marshals res to path.
func WriteFile(path string, res *encoder.Result, compress bool) error {
	return os.WriteFile(path, Marshal(res, compress), 0o644)
}

// ─── reading ─────────────────────────────────────────────────

// Read parses a serialized dump, verifying the checksum.
func Read(data []byte) (*File, error) {
	if len(data) < headerLen {
		return nil, ErrHeader
	}
	if string(data[0:4]) != magic {
		return nil, ErrMagic
	}
	if data[4] != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, data[4])
	}

	flags := data[5]
	f := &File{
		Version:    data[4],
		Quality:    int(binary.LittleEndian.Uint16(data[6:8])),
		Width:      int(binary.LittleEndian.Uint32(data[8:12])),
		Height:     int(binary.LittleEndian.Uint32(data[12:16])),
		Subsampled: flags&flagSubsampled != 0,
		Compressed: flags&flagCompressed != 0,
	}
	sum := binary.LittleEndian.Uint64(data[16:24])

	storedLen := int(binary.LittleEndian.Uint32(data[24:28]))
	if len(data) != headerLen+storedLen {
		return nil, fmt.Errorf("%w: stored %d bytes, have %d", ErrPayload, storedLen, len(data)-headerLen)
	}
	payload := data[headerLen:]
	if f.Compressed {
		var err error
		if payload, err = zstdDec.DecodeAll(payload, nil); err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrPayload, err)
		}
	}
	if hasher.Sum(payload) != sum {
		return nil, ErrChecksum
	}

	off := 0
	for i := range f.Channels {
		if off+4 > len(payload) {
			return nil, fmt.Errorf("%w: missing %s section", ErrPayload, ChannelNames[i])
		}
		n := int(binary.LittleEndian.Uint32(payload[off:]))
		off += 4
		if off+n > len(payload) {
			return nil, fmt.Errorf("%w: %s section cut short", ErrPayload, ChannelNames[i])
		}
		f.Channels[i] = payload[off : off+n : off+n]
		off += n
	}
	if off != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrPayload, len(payload)-off)
	}
	return f, nil
}

// ReadFile parses the dump at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Read(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ─── derived geometry ────────────────────────────────────────

// ChannelGrid returns channel c's block grid, derived from the image
// dimensions and the subsampling flag.
func (f *File) ChannelGrid(c int) (bw, bh int) {
	w, h := f.Width, f.Height
	if c > 0 && f.Subsampled {
		w /= 2
		h /= 2
	}
	return w / block.Dim, h / block.Dim
}

// Blocks sums the block counts of all three channels.
func (f *File) Blocks() int {
	n := 0
	for c := range f.Channels {
		bw, bh := f.ChannelGrid(c)
		n += bw * bh
	}
	return n
}

// PayloadBytes sums the three channel stream lengths.
func (f *File) PayloadBytes() int {
	n := 0
	for _, ch := range f.Channels {
		n += len(ch)
	}
	return n
}
