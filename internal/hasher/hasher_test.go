package hasher

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSumChunkingIrrelevant(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	whole := Sum(data)
	split := Sum(data[:7], data[7:20], data[20:])
	if whole != split {
		t.Errorf("chunked digest %x differs from whole %x", split, whole)
	}
	if whole == Sum(data[:len(data)-1]) {
		t.Error("digest insensitive to trailing byte")
	}
}

func TestHex(t *testing.T) {
	s := Hex(0x0123456789abcdef, 0)
	if s != "0123456789abcdef" {
		t.Errorf("full hex = %q", s)
	}
	if got := Hex(0x0123456789abcdef, 8); got != "01234567" {
		t.Errorf("truncated hex = %q", got)
	}
	if got := Hex(0x0123456789abcdef, 99); got != "0123456789abcdef" {
		t.Errorf("oversized hexLen gave %q", got)
	}
}

func TestContentHashMatchesSum(t *testing.T) {
	data := []byte("payload")
	if got, want := ContentHash(data, 16), Hex(Sum(data), 16); got != want {
		t.Errorf("ContentHash %q, Hex(Sum) %q", got, want)
	}
}

func TestReaderAndFile(t *testing.T) {
	data := []byte("streamed contents of a dump file")

	fromReader, err := Reader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if fromReader != Sum(data) {
		t.Error("Reader digest differs from Sum")
	}

	path := filepath.Join(t.TempDir(), "blob")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	fromFile, err := File(path)
	if err != nil {
		t.Fatal(err)
	}
	if fromFile != fromReader {
		t.Error("File digest differs from Reader")
	}
}
