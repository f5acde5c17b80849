package codec

import (
	"math/rand"
	"testing"

	"couples-sync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		answers []int
		want    string
	}{
		{"example from the app", []int{2, 4, 1}, "28"},
		{"all ones", []int{1, 1, 1}, "0"},
		{"all fours", []int{4, 4, 4}, "63"},
		{"single answer", []int{3}, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_InvalidValue(t *testing.T) {
	for _, answers := range [][]int{{1, 5, 2}, {0}, {2, 3, -1}} {
		got, err := Encode(answers)
		require.Error(t, err)
		assert.Empty(t, got)
		assert.True(t, domain.IsCode(err, domain.ErrInvalidAnswerValue))
	}

	_, err := Encode(nil)
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))
}

func TestDecode(t *testing.T) {
	got, err := Decode("28", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 1}, got)

	// Leading 1s encode to leading zero bits that the integer drops.
	got, err = Decode("0", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, got)

	got, err = Decode("1", 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2}, got)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		packed string
		count  int
		code   domain.ErrorCode
	}{
		{"too wide", "64", 3, domain.ErrMalformedResponse},
		{"negative", "-1", 3, domain.ErrMalformedResponse},
		{"not a number", "abc", 3, domain.ErrMalformedResponse},
		{"zero count", "1", 0, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.packed, tt.count)
			require.Error(t, err)
			assert.True(t, domain.IsCode(err, tt.code))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for n := 1; n <= 80; n++ {
		answers := make([]int, n)
		for i := range answers {
			answers[i] = rng.Intn(4) + 1
		}
		packed, err := Encode(answers)
		require.NoError(t, err)

		got, err := Decode(packed, n)
		require.NoError(t, err)
		assert.Equal(t, answers, got, "n=%d packed=%s", n, packed)
	}
}

func TestDual(t *testing.T) {
	packed, err := EncodeDual([]int{2, 4, 1}, []int{1, 1, 3})
	require.NoError(t, err)
	// 011100 000010
	assert.Equal(t, "1794", packed)

	self, guesses, err := DecodeDual(packed, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 1}, self)
	assert.Equal(t, []int{1, 1, 3}, guesses)

	_, err = EncodeDual([]int{1, 2}, []int{1})
	assert.True(t, domain.IsCode(err, domain.ErrInvalidInput))

	_, err = EncodeDual([]int{1, 2}, []int{1, 7})
	assert.True(t, domain.IsCode(err, domain.ErrInvalidAnswerValue))
}

func TestEncodeMode(t *testing.T) {
	single, err := EncodeMode(ModeSingle, []int{2, 4, 1}, []int{4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, "28", single)

	dual, err := EncodeMode(ModeDual, []int{2, 4, 1}, []int{1, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, "1794", dual)
}
