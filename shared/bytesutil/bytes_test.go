package bytesutil_test

import (
	"bytes"
	"testing"

	"github.com/districtproof/districtnode/shared/bytesutil"
	"github.com/stretchr/testify/require"
)

func TestBytes8RoundTrip(t *testing.T) {
	tests := []uint64{0, 1, 255, 256, 1 << 32, 1<<64 - 1}
	for _, tt := range tests {
		b := bytesutil.Bytes8(tt)
		require.Equal(t, 8, len(b))
		require.Equal(t, tt, bytesutil.FromBytes8(b))
	}
}

func TestToBytes32(t *testing.T) {
	got := bytesutil.ToBytes32([]byte{1, 2, 3})
	want := [32]byte{1, 2, 3}
	require.Equal(t, want, got)

	long := make([]byte, 40)
	for i := range long {
		long[i] = byte(i)
	}
	got = bytesutil.ToBytes32(long)
	require.True(t, bytes.Equal(got[:], long[:32]))
}

func TestHexRoundTrip(t *testing.T) {
	raw := []byte{0xde, 0xad, 0xbe, 0xef}
	enc := bytesutil.HexEncode(raw)
	require.Equal(t, "0xdeadbeef", enc)

	dec, err := bytesutil.HexDecode(enc)
	require.NoError(t, err)
	require.True(t, bytes.Equal(raw, dec))
}

func TestHexDecodeInvalid(t *testing.T) {
	_, err := bytesutil.HexDecode("0xzz")
	require.Error(t, err)
}
