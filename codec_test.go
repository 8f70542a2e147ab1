package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodecRoundTrip is spec section 8 property 4: encoding then decoding
// any reachable board/piece/rotation/position state must reproduce it
// exactly, modulo the clamped coordinate range.
func TestCodecRoundTrip(t *testing.T) {
	board := NewBoard()
	rng := rand.New(rand.NewSource(7))
	board.InjectGarbage(3, rng)
	board.set(0, 0, CellT)
	board.set(19, 9, CellL)

	payload := EncodeState(board, PieceJ, 2, 4, 3)
	decoded, ok := DecodeState(payload)
	require.True(t, ok)

	assert.Equal(t, PieceJ, decoded.Name)
	assert.Equal(t, 2, decoded.Rotation)
	assert.Equal(t, 4, decoded.X)
	assert.Equal(t, 3, decoded.Y)

	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			assert.Equalf(t, board.At(r, c), decoded.Board.At(r, c), "cell (%d,%d) mismatch after round trip", r, c)
		}
	}
}

func TestCodecClampsOutOfRangeCoordinates(t *testing.T) {
	board := NewBoard()
	payload := EncodeState(board, PieceI, 0, -100, 100)
	decoded, ok := DecodeState(payload)
	require.True(t, ok)
	// Clamped, not wrapped: still within the representable window.
	assert.GreaterOrEqual(t, decoded.X, -codecCoordBias)
	assert.LessOrEqual(t, decoded.Y, codecCoordMax-codecCoordBias)
}

func TestCodecRejectsMalformedBase64(t *testing.T) {
	_, ok := DecodeState("not valid base64url!!")
	assert.False(t, ok)
}

func TestCodecRejectsTruncatedPayload(t *testing.T) {
	_, ok := DecodeState("AAAA")
	assert.False(t, ok)
}
