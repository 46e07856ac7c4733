// Package archive persists case-indexed collections of fitted polynomials
// as a compact, checksummed binary container.
//
// The container stores the shared variable labels once, then one record per
// case: name, basis shape, split value and coefficient payload. The payload
// is optionally compressed and always protected by an xxHash64 checksum, so
// a truncated or corrupted archive is rejected instead of decoded into a
// wrong surface.
//
// # Usage
//
//	data, err := archive.Encode(set, archive.WithCodec(archive.CodecZstd))
//	...
//	set, err := archive.Decode(data)
package archive

import (
	"fmt"
)

// CodecType identifies the compression applied to the archive payload.
type CodecType uint8

const (
	// CodecNone stores the payload uncompressed.
	CodecNone CodecType = 0x1
	// CodecZstd compresses with Zstandard.
	CodecZstd CodecType = 0x2
	// CodecS2 compresses with S2.
	CodecS2 CodecType = 0x3
	// CodecLZ4 compresses with LZ4 block compression.
	CodecLZ4 CodecType = 0x4
)

func (c CodecType) String() string {
	switch c {
	case CodecNone:
		return "None"
	case CodecZstd:
		return "Zstd"
	case CodecS2:
		return "S2"
	case CodecLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Codec compresses and decompresses archive payloads.
//
// Implementations return newly allocated slices and never modify their
// input; internal buffers may be pooled for reuse.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// newCodec returns the built-in Codec for the given type.
func newCodec(t CodecType) (Codec, error) {
	switch t {
	case CodecNone:
		return noopCodec{}, nil
	case CodecZstd:
		return zstdCodec{}, nil
	case CodecS2:
		return s2Codec{}, nil
	case CodecLZ4:
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("unsupported codec: %d", t)
	}
}

// noopCodec passes data through unchanged.
type noopCodec struct{}

var _ Codec = noopCodec{}

func (noopCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
