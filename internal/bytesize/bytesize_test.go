package bytesize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		input   string
		want    ByteSize
		wantErr bool
	}{
		{"0", 0, false},
		{"1024", 1024, false},
		{"1024B", 1024, false},
		{"1Ki", 1024, false},
		{"1KiB", 1024, false},
		{"100Mi", 100 * MiB, false},
		{"1Gi", GiB, false},
		{"1TiB", TiB, false},
		{"1K", 1000, false},
		{"100MB", 100 * MB, false},
		{"1gb", GB, false},
		{"1GI", GiB, false},
		{"  1Gi  ", GiB, false},
		{"1 Gi", GiB, false},
		{"1.5Mi", ByteSize(1.5 * float64(MiB)), false},
		{"0.5Gi", ByteSize(0.5 * float64(GiB)), false},

		{"", 0, true},
		{"   ", 0, true},
		{"1Xi", 0, true},
		{"-1Gi", 0, true},
		{"Gi", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseByteSize(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestUnmarshalText(t *testing.T) {
	var b ByteSize
	require.NoError(t, b.UnmarshalText([]byte("1Gi")))
	assert.Equal(t, GiB, b)

	assert.Error(t, b.UnmarshalText([]byte("invalid")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "512B", ByteSize(512).String())
	assert.Equal(t, "2.00KiB", (2 * KiB).String())
	assert.Equal(t, "100.00MiB", (100 * MiB).String())
	assert.Equal(t, "1.50GiB", ByteSize(1.5*float64(GiB)).String())
	assert.Equal(t, "2.00TiB", (2 * TiB).String())
}

func TestConversions(t *testing.T) {
	size := GiB
	assert.Equal(t, uint64(1<<30), size.Uint64())
	assert.Equal(t, int64(1<<30), size.Int64())
}
