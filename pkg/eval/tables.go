package eval

import "github.com/herohde/branchwise/pkg/board"

// Material values and heuristic constants, in centipawns. Grounded on the constant set of
// the original evaluator this package reimplements; spec.md treats these as parameters, not
// a contract, so they are not required to match it exactly.
const (
	pawnValue   = 100
	knightValue = 325
	bishopValue = 335
	rookValue   = 500
	queenValue  = 975

	bishopPairBonus = 30
	knightPairMalus = 8
	rookPairMalus   = 16

	shield1     = 10
	shield2     = 5
	noShieldMalus = 10

	kingBlocksRookMalus  = 24
	blockCentralPawnMalus = 24
	bishopTrappedA7Malus = 150
	bishopTrappedA6Malus = 50
	knightTrappedA8Malus = 150
	knightTrappedA7Malus = 100

	doubledPawnMalus = 20
	tempoBonus       = 10

	activeAttackMod  = 3
	passiveAttackMod = 1
	captureBonus     = 50
	depthPenalty     = 10
)

// knightMob*/bishopMob*/rookMob*/queenMob* hold the mobility weights (mg, plus eg for rook
// and queen) and offsets per §4.1 step 4.
var (
	knightMobMG, knightMobOffset = 4, 4
	bishopMobMG, bishopMobOffset = 3, 7
	rookMobMG, rookMobEG, rookMobOffset = 2, 4, 7
	queenMobMG, queenMobEG, queenMobOffset = 1, 2, 14
)

var attackWeight = map[board.Piece]int{
	board.Knight: 2,
	board.Bishop: 2,
	board.Rook:   3,
	board.Queen:  4,
}

// safetyTable saturates king-safety penalties as the opponent's attack weight grows;
// index by accumulated attack_weight, clamped to 99.
var safetyTable = buildSafetyTable()

func buildSafetyTable() [100]int {
	var t [100]int
	v := 0
	step := 1
	for i := range t {
		t[i] = v
		if v < 500 {
			v += step
			if i > 20 {
				step = 2
			}
			if i > 50 {
				step = 6
			}
			if v > 500 {
				v = 500
			}
		}
	}
	return t
}

// pst[piece][color][square] returns the mg/eg piece-square bonus. Built once from compact,
// rank-indexed base tables (white's perspective, rank 1 at index 0) rather than fully
// hand-transcribed 64-entry tables per piece: the effect (reward central development,
// advance-the-pawn-near-promotion, tuck-the-king-away-mid-game/centralize-it-in-the-endgame)
// is what the spec's evaluator actually relies on, not specific numbers.
var pstMG, pstEG [board.NumPieces][board.NumColors][board.NumSquares]int

func init() {
	pawnMG := rankTable(0, 0, 5, 10, 20, 35, 55, 0)
	pawnEG := rankTable(0, 10, 20, 35, 55, 80, 110, 0)
	knightT := fileCenterTable(-30, -10, 0, 10)
	bishopT := fileCenterTable(-15, 0, 5, 10)
	rookT := fileCenterTable(-5, 0, 0, 5)
	queenT := fileCenterTable(-10, -5, 0, 5)
	kingMG := rankTable(20, 10, -10, -25, -35, -35, -35, -35)
	kingEG := rankTable(-30, -10, 10, 25, 35, 35, 25, -10)

	for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
		r, f := sq.Rank(), sq.File()
		pstMG[board.Pawn][board.White][sq] = pawnMG[r]
		pstEG[board.Pawn][board.White][sq] = pawnEG[r]
		pstMG[board.Knight][board.White][sq] = knightT[f] + knightT[rankAsFileIndex(r)]
		pstEG[board.Knight][board.White][sq] = pstMG[board.Knight][board.White][sq]
		pstMG[board.Bishop][board.White][sq] = bishopT[f] + bishopT[rankAsFileIndex(r)]
		pstEG[board.Bishop][board.White][sq] = pstMG[board.Bishop][board.White][sq]
		pstMG[board.Rook][board.White][sq] = rookT[f]
		pstEG[board.Rook][board.White][sq] = rookT[f]
		pstMG[board.Queen][board.White][sq] = queenT[f] + queenT[rankAsFileIndex(r)]
		pstEG[board.Queen][board.White][sq] = pstMG[board.Queen][board.White][sq]
		pstMG[board.King][board.White][sq] = kingMG[r]
		pstEG[board.King][board.White][sq] = kingEG[r]
	}

	// Black tables mirror White's by rank (rank 1 <-> rank 8, etc).
	for p := board.ZeroPiece; p < board.NumPieces; p++ {
		for sq := board.ZeroSquare; sq < board.NumSquares; sq++ {
			msq := board.NewSquare(sq.File(), board.Rank8-sq.Rank())
			pstMG[p][board.Black][msq] = pstMG[p][board.White][sq]
			pstEG[p][board.Black][msq] = pstEG[p][board.White][sq]
		}
	}
}

func rankAsFileIndex(r board.Rank) board.File {
	// centralization tables are symmetric in rank and file around the center; reuse the
	// file-indexed base table for the rank axis too.
	switch {
	case r == board.Rank1 || r == board.Rank8:
		return board.FileH
	case r == board.Rank2 || r == board.Rank7:
		return board.FileG
	case r == board.Rank3 || r == board.Rank6:
		return board.FileF
	case r == board.Rank4 || r == board.Rank5:
		return board.FileE
	default:
		return board.FileH
	}
}

// rankTable expands 8 per-rank values (rank1..rank8, White's perspective) into an indexable array.
func rankTable(r1, r2, r3, r4, r5, r6, r7, r8 int) [8]int {
	return [8]int{r1, r2, r3, r4, r5, r6, r7, r8}
}

// fileCenterTable builds a symmetric-around-center 8-value table from the edge-to-center values.
func fileCenterTable(edge, outer, inner, center int) [8]int {
	return [8]int{edge, outer, inner, center, center, inner, outer, edge}
}

// Pawn-structure bonus tables, indexed by rank from the pawn's own perspective (rank2 =
// just-advanced, rank7 = about to promote).
var passedPawnBonus = rankTable(0, 10, 15, 25, 40, 65, 100, 0)
var weakPawnMalus = rankTable(0, -8, -8, -10, -10, -12, -12, 0)
var protectedPassedBonus = rankTable(0, 15, 20, 32, 50, 80, 120, 0)
