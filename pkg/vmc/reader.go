package vmc

import (
	"io"

	"github.com/hansbonini/vmctool/pkg/common"
)

// BinReader is a thin seek + little-endian primitive read layer over a VMC
// image. Every VMC field is little-endian, so every read here is too.
type BinReader struct {
	src  io.ReadSeeker
	size int64
}

// NewBinReader wraps src for VMC-style seek-and-read access. The source's
// total size is captured up front (via a seek-to-end probe) and the cursor
// is restored to the start.
func NewBinReader(src io.ReadSeeker) (*BinReader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &BinReader{src: src, size: size}, nil
}

// Size returns the total byte length of the underlying source.
func (r *BinReader) Size() int64 { return r.size }

// Seek moves the read cursor to an absolute byte offset.
func (r *BinReader) Seek(offset int64) error {
	_, err := r.src.Seek(offset, io.SeekStart)
	return err
}

// ReadBytes reads exactly n bytes from the current position.
func (r *BinReader) ReadBytes(n int) ([]byte, error) {
	return common.ReadBytes(r.src, n)
}

// ReadU8 reads a single byte.
func (r *BinReader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (r *BinReader) ReadU16() (uint16, error) {
	return common.ReadUint16LE(r.src)
}

// ReadI16 reads a little-endian int16.
func (r *BinReader) ReadI16() (int16, error) {
	u, err := common.ReadUint16LE(r.src)
	return int16(u), err
}

// ReadU32 reads a little-endian uint32.
func (r *BinReader) ReadU32() (uint32, error) {
	return common.ReadUint32LE(r.src)
}

// ReadU32Array reads n consecutive little-endian uint32 values.
func (r *BinReader) ReadU32Array(n int) ([]uint32, error) {
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SeekAndReadBytes seeks to offset and reads n bytes in one step.
func (r *BinReader) SeekAndReadBytes(offset int64, n int) ([]byte, error) {
	if err := r.Seek(offset); err != nil {
		return nil, err
	}
	return r.ReadBytes(n)
}
