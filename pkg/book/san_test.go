package book_test

import (
	"testing"

	"github.com/herohde/branchwise/pkg/board"
	"github.com/herohde/branchwise/pkg/board/fen"
	"github.com/herohde/branchwise/pkg/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func position(t *testing.T, f string) (*board.Position, board.Color) {
	t.Helper()
	pos, turn, _, _, err := fen.Decode(f)
	require.NoError(t, err)
	return pos, turn
}

func TestParseSANResolvesUnambiguousMoves(t *testing.T) {
	pos, turn := position(t, fen.Initial)

	m, err := book.ParseSAN(pos, turn, "e4")
	require.NoError(t, err)
	assert.Equal(t, "e2e4", m.String())

	m, err = book.ParseSAN(pos, turn, "Nf3")
	require.NoError(t, err)
	assert.Equal(t, "g1f3", m.String())
}

func TestParseSANResolvesPawnCaptureByFile(t *testing.T) {
	pos, turn := position(t, "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")

	m, err := book.ParseSAN(pos, turn, "exd5")
	require.NoError(t, err)
	assert.Equal(t, "e4d5", m.String())
}

func TestParseSANResolvesDisambiguatedKnightMove(t *testing.T) {
	// Knights on b3 and f3 can both reach d2; the file letter disambiguates.
	pos, turn := position(t, "4k3/8/8/8/8/1N3N2/8/4K3 w - - 0 1")

	m, err := book.ParseSAN(pos, turn, "Nbd2")
	require.NoError(t, err)
	assert.Equal(t, "b3d2", m.String())

	m, err = book.ParseSAN(pos, turn, "Nfd2")
	require.NoError(t, err)
	assert.Equal(t, "f3d2", m.String())
}

func TestParseSANResolvesCastling(t *testing.T) {
	pos, turn := position(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	m, err := book.ParseSAN(pos, turn, "O-O")
	require.NoError(t, err)
	assert.Equal(t, board.KingSideCastle, m.Type)

	m, err = book.ParseSAN(pos, turn, "O-O-O")
	require.NoError(t, err)
	assert.Equal(t, board.QueenSideCastle, m.Type)
}

func TestParseSANResolvesPromotion(t *testing.T) {
	pos, turn := position(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")

	m, err := book.ParseSAN(pos, turn, "a8=Q")
	require.NoError(t, err)
	assert.Equal(t, "a7a8q", m.String())
}

func TestParseSANRejectsIllegalMove(t *testing.T) {
	pos, turn := position(t, fen.Initial)

	_, err := book.ParseSAN(pos, turn, "Nf6")
	assert.Error(t, err)
}
