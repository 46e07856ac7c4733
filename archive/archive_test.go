package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Yaojunyu0205/pwpfit/basis"
	"github.com/Yaojunyu0205/pwpfit/fit"
)

func testSet(t *testing.T) *fit.ResultSet {
	t.Helper()

	labels := []string{"alpha", "mach"}
	set := fit.NewResultSet(labels)

	b2, err := basis.New(2, 2, basis.TotalDegree)
	require.NoError(t, err)
	plain, err := fit.NewResult("cl", labels, b2, []float64{1, 2, 3, 4, 5, 6}, nil, nil, 0.01)
	require.NoError(t, err)
	require.NoError(t, set.Add("case-a", plain))

	b1, err := basis.New(1, 2, basis.TotalDegree)
	require.NoError(t, err)
	split := 0.75
	piecewise, err := fit.NewResult("cd", labels, b1,
		[]float64{0, 1, 2}, []float64{1, -1, 2}, &split, 0.02)
	require.NoError(t, err)
	require.NoError(t, set.Add("case-b", piecewise))

	return set
}

func requireSetsEqual(t *testing.T, want, got *fit.ResultSet) {
	t.Helper()

	require.Equal(t, want.Labels(), got.Labels())
	require.Equal(t, want.Cases(), got.Cases())
	for _, caseID := range want.Cases() {
		w, ok := want.Get(caseID)
		require.True(t, ok)
		g, ok := got.Get(caseID)
		require.True(t, ok)

		require.Equal(t, w.Name(), g.Name())
		require.Equal(t, w.Degree(), g.Degree())
		require.Equal(t, w.Basis().Policy(), g.Basis().Policy())
		require.Equal(t, w.Coeffs(), g.Coeffs())
		require.Equal(t, w.UpperCoeffs(), g.UpperCoeffs())
		require.Equal(t, w.RMSE(), g.RMSE())

		wSplit, wPiece := w.Split()
		gSplit, gPiece := g.Split()
		require.Equal(t, wPiece, gPiece)
		require.Equal(t, wSplit, gSplit)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	set := testSet(t)

	for _, codec := range []CodecType{CodecNone, CodecZstd, CodecS2, CodecLZ4} {
		t.Run(codec.String(), func(t *testing.T) {
			data, err := Encode(set, WithCodec(codec))
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			requireSetsEqual(t, set, decoded)
		})
	}
}

func TestEncode_DefaultCodec(t *testing.T) {
	set := testSet(t)

	data, err := Encode(set)
	require.NoError(t, err)
	require.Equal(t, byte(CodecNone), data[5])

	decoded, err := Decode(data)
	require.NoError(t, err)
	requireSetsEqual(t, set, decoded)
}

func TestEncode_InvalidCodec(t *testing.T) {
	_, err := Encode(testSet(t), WithCodec(CodecType(0xff)))
	require.Error(t, err)
}

func TestDecode_InvalidMagic(t *testing.T) {
	data, err := Encode(testSet(t))
	require.NoError(t, err)

	data[0] = 'X'
	_, err = Decode(data)
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDecode_UnsupportedVersion(t *testing.T) {
	data, err := Encode(testSet(t))
	require.NoError(t, err)

	data[4] = 0x7f
	_, err = Decode(data)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	data, err := Encode(testSet(t))
	require.NoError(t, err)

	// Flip one payload byte past the header.
	data[len(data)-1] ^= 0x01
	_, err = Decode(data)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecode_Truncated(t *testing.T) {
	data, err := Encode(testSet(t))
	require.NoError(t, err)

	_, err = Decode(data[:headerSize-2])
	require.ErrorIs(t, err, ErrTruncated)

	// A header with a payload cut mid-record fails the checksum first.
	_, err = Decode(data[:len(data)-8])
	require.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestCodecType_String(t *testing.T) {
	require.Equal(t, "None", CodecNone.String())
	require.Equal(t, "Zstd", CodecZstd.String())
	require.Equal(t, "S2", CodecS2.String())
	require.Equal(t, "LZ4", CodecLZ4.String())
	require.Equal(t, "Unknown", CodecType(0xff).String())
}
