package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/fit"
	"github.com/Yaojunyu0205/pwpfit/internal/options"
)

// Container layout, all integers little-endian:
//
//	magic "PWPF" | version u8 | codec u8 | checksum u64 | payload …
//
// The checksum is the xxHash64 of the uncompressed payload; the payload is
// the label table followed by one record per case.
const (
	version    = 0x1
	headerSize = 4 + 1 + 1 + 8
)

var magic = [4]byte{'P', 'W', 'P', 'F'}

var (
	// ErrInvalidMagic reports data that is not a pwpfit archive.
	ErrInvalidMagic = errors.New("invalid archive magic")
	// ErrUnsupportedVersion reports an archive written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	// ErrChecksumMismatch reports payload corruption.
	ErrChecksumMismatch = errors.New("archive checksum mismatch")
	// ErrTruncated reports an archive shorter than its own structure.
	ErrTruncated = errors.New("truncated archive")
)

type config struct {
	codec CodecType
}

// Option is a functional option for Encode.
type Option = options.Option[*config]

// WithCodec selects the payload compression. The default is CodecNone.
func WithCodec(codec CodecType) Option {
	return options.New(func(c *config) error {
		if _, err := newCodec(codec); err != nil {
			return err
		}
		c.codec = codec

		return nil
	})
}

// Encode serializes the result set into a standalone archive blob.
func Encode(set *fit.ResultSet, opts ...Option) ([]byte, error) {
	cfg := &config{codec: CodecNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	payload, err := encodePayload(set)
	if err != nil {
		return nil, err
	}

	codec, err := newCodec(cfg.codec)
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(payload)
	if err != nil {
		return nil, fmt.Errorf("compressing archive payload: %w", err)
	}

	out := make([]byte, 0, headerSize+len(compressed))
	out = append(out, magic[:]...)
	out = append(out, version, byte(cfg.codec))
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(payload))
	out = append(out, compressed...)

	return out, nil
}

// Decode parses an archive blob back into a result set, verifying the
// checksum before any record is reconstructed.
func Decode(data []byte) (*fit.ResultSet, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if [4]byte(data[:4]) != magic {
		return nil, ErrInvalidMagic
	}
	if data[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}

	codec, err := newCodec(CodecType(data[5]))
	if err != nil {
		return nil, err
	}
	sum := binary.LittleEndian.Uint64(data[6:14])

	payload, err := codec.Decompress(data[headerSize:])
	if err != nil {
		return nil, fmt.Errorf("decompressing archive payload: %w", err)
	}
	if xxhash.Sum64(payload) != sum {
		return nil, ErrChecksumMismatch
	}

	return decodePayload(payload)
}

func encodePayload(set *fit.ResultSet) ([]byte, error) {
	labels := set.Labels()
	if len(labels) > math.MaxUint16 {
		return nil, fmt.Errorf("too many variables: %d", len(labels))
	}

	var buf []byte
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(labels)))
	for _, label := range labels {
		buf = appendString(buf, label)
	}

	cases := set.Cases()
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(cases)))
	for _, caseID := range cases {
		r, _ := set.Get(caseID)
		buf = appendString(buf, caseID)
		buf = appendResult(buf, r)
	}

	return buf, nil
}

func appendResult(buf []byte, r *fit.Result) []byte {
	buf = appendString(buf, r.Name())
	buf = binary.LittleEndian.AppendUint16(buf, uint16(r.Degree()))
	buf = append(buf, byte(r.Basis().Policy()))

	split, piecewise := r.Split()
	if piecewise {
		buf = append(buf, 1)
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(split))
	} else {
		buf = append(buf, 0)
	}
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(r.RMSE()))

	buf = appendFloats(buf, r.Coeffs())
	buf = appendFloats(buf, r.UpperCoeffs())

	return buf
}

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

func appendFloats(buf []byte, values []float64) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(values)))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

func decodePayload(payload []byte) (*fit.ResultSet, error) {
	rd := &reader{buf: payload}

	labelCount := rd.u16()
	labels := make([]string, labelCount)
	for i := range labels {
		labels[i] = rd.str()
	}

	set := fit.NewResultSet(labels)
	caseCount := rd.u32()
	for i := uint32(0); i < caseCount; i++ {
		caseID := rd.str()
		r, err := readResult(rd, labels)
		if err != nil {
			return nil, err
		}
		if rd.err != nil {
			return nil, rd.err
		}
		if err := set.Add(caseID, r); err != nil {
			return nil, fmt.Errorf("archive case %q: %w", caseID, err)
		}
	}
	if rd.err != nil {
		return nil, rd.err
	}
	if rd.off != len(rd.buf) {
		return nil, fmt.Errorf("archive payload has %d trailing bytes", len(rd.buf)-rd.off)
	}

	return set, nil
}

func readResult(rd *reader, labels []string) (*fit.Result, error) {
	name := rd.str()
	degree := int(rd.u16())
	policy := basis.Policy(rd.u8())

	var split *float64
	if rd.u8() == 1 {
		v := rd.f64()
		split = &v
	}
	rmse := rd.f64()
	coeffs := rd.floats()
	upper := rd.floats()
	if rd.err != nil {
		return nil, rd.err
	}

	b, err := basis.New(degree, len(labels), policy)
	if err != nil {
		return nil, fmt.Errorf("archive record %q: %w", name, err)
	}

	r, err := fit.NewResult(name, labels, b, coeffs, upper, split, rmse)
	if err != nil {
		return nil, fmt.Errorf("archive record %q: %w", name, err)
	}

	return r, nil
}

// reader is a cursor over the payload that records the first decode error
// and keeps every subsequent read a safe no-op.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = ErrTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n

	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}

	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return binary.LittleEndian.Uint32(b)
}

func (r *reader) f64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *reader) str() string {
	n := int(r.u16())
	b := r.take(n)
	if b == nil {
		return ""
	}

	return string(b)
}

func (r *reader) floats() []float64 {
	n := int(r.u32())
	if r.err != nil || n == 0 {
		return nil
	}
	if r.off+8*n > len(r.buf) {
		r.err = ErrTruncated
		return nil
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = r.f64()
	}

	return values
}
