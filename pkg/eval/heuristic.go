package eval

import (
	"context"

	"github.com/herohde/branchwise/pkg/board"
)

// Heuristic is the evaluator C1: a pure, deterministic static position evaluator. It
// classifies terminal positions first, then composes a tapered (mg/eg-blended) heuristic
// following, in order: material + piece-square tables, king shield, blocked-piece
// penalties, mobility and king-zone attacks, pawn structure, pawn attacks, combination
// bonuses, tempo, and king safety.
type Heuristic struct{}

func (Heuristic) Evaluate(_ context.Context, b *board.Board, depth int) Eval {
	if e, done := terminalEval(b, depth); done {
		return e
	}
	return Numeric(heuristicValue(b))
}

func heuristicValue(b *board.Board) Pawns {
	pos := b.Position()
	phase := materialPhase(pos)

	var mg, eg int
	var attackCount [board.NumColors]int
	var attackWeightAcc [board.NumColors]int

	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}

		// (1) Material + piece-square tables.
		for p := board.Pawn; p <= board.King; p++ {
			for _, sq := range pos.Piece(c, p).ToSquares() {
				mg += sign * (materialValue(p) + pstMG[p][c][sq])
				eg += sign * (materialValue(p) + pstEG[p][c][sq])
			}
		}

		// (4) Mobility & king attacks.
		opp := c.Opponent()
		oppKingSq := pos.Piece(opp, board.King).LastPopSquare()
		for _, piece := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
			for _, sq := range pos.Piece(c, piece).ToSquares() {
				targets := board.Attackboard(pos.Rotated(), sq, piece) &^ pos.Color(c)
				mobility := targets.PopCount()

				attacks := 0
				for _, t := range targets.ToSquares() {
					if IsNearKing(opp, oppKingSq, t) {
						attacks++
					}
				}

				switch piece {
				case board.Knight:
					mg += sign * (mobility - knightMobOffset) * knightMobMG
				case board.Bishop:
					mg += sign * (mobility - bishopMobOffset) * bishopMobMG
				case board.Rook:
					mg += sign * (mobility - rookMobOffset) * rookMobMG
					eg += sign * (mobility - rookMobOffset) * rookMobEG
				case board.Queen:
					mg += sign * (mobility - queenMobOffset) * queenMobMG
					eg += sign * (mobility - queenMobOffset) * queenMobEG
				}

				if attacks > 0 {
					attackCount[c]++
					attackWeightAcc[c] += attackWeight[piece] * attacks
				}
			}
		}

		// (5) Pawn structure, (3) blocked pieces applied per side below with sign.
		mg += sign * pawnStructureValue(pos, c)
		eg += sign * pawnStructureValue(pos, c)
		mg += sign * blockedPieces(pos, c)
		eg += sign * blockedPieces(pos, c)
	}

	// (2) King shield: mg only.
	mg += kingShield(pos, board.White) - kingShield(pos, board.Black)

	// (7) Combination bonuses.
	combo := combinationBonus(pos)
	mg += combo
	eg += combo

	// (9) King safety clamp.
	if attackCount[board.White] < 2 || pos.Piece(board.White, board.Queen) == 0 {
		attackWeightAcc[board.White] = 0
	}
	if attackCount[board.Black] < 2 || pos.Piece(board.Black, board.Queen) == 0 {
		attackWeightAcc[board.Black] = 0
	}
	safety := safetyTable[clampIndex(attackWeightAcc[board.White])] - safetyTable[clampIndex(attackWeightAcc[board.Black])]

	// (6) Pawn attacks, fixed (non-blended) term.
	pawnAttackDelta := pawnAttacks(pos, board.White, b.Turn()) - pawnAttacks(pos, board.Black, b.Turn())

	// (8) Tempo.
	tempo := tempoBonus
	if b.Turn() == board.Black {
		tempo = -tempoBonus
	}

	// (10) Phase blend + fixed-phase terms.
	if phase > totalPhase {
		phase = totalPhase
	}
	blended := (mg*phase + eg*(totalPhase-phase)) / totalPhase

	return Pawns(blended+safety+pawnAttackDelta+tempo) / 100
}

func clampIndex(v int) int {
	if v < 0 {
		return 0
	}
	if v > 99 {
		return 99
	}
	return v
}

func materialValue(p board.Piece) int {
	switch p {
	case board.Pawn:
		return pawnValue
	case board.Knight:
		return knightValue
	case board.Bishop:
		return bishopValue
	case board.Rook:
		return rookValue
	case board.Queen:
		return queenValue
	default:
		return 0
	}
}

func relSquare(c board.Color, whiteSq board.Square) board.Square {
	if c == board.White {
		return whiteSq
	}
	return board.NewSquare(whiteSq.File(), board.Rank(int(board.Rank8)-int(whiteSq.Rank())))
}

func relRank(c board.Color, r board.Rank) board.Rank {
	if c == board.White {
		return r
	}
	return board.Rank(int(board.Rank8) - int(r))
}

// kingShield implements step 2: a castled king's pawn cover is rewarded, an absent or
// advanced shield pawn is penalized. mg-only per spec.
func kingShield(pos *board.Position, c board.Color) int {
	kingSq := pos.Piece(c, board.King).LastPopSquare()
	f := kingSq.File()

	var files []board.File
	switch {
	case f <= board.FileF: // chess files f, g, h: kingside
		files = []board.File{board.FileF, board.FileG, board.FileH}
	case f >= board.FileC: // chess files a, b, c: queenside
		files = []board.File{board.FileA, board.FileB, board.FileC}
	default:
		return 0
	}

	rank2, rank3 := board.Rank2, board.Rank3
	if c == board.Black {
		rank2, rank3 = board.Rank7, board.Rank6
	}

	pawns := pos.Piece(c, board.Pawn)
	bonus := 0
	for _, file := range files {
		switch {
		case pawns.IsSet(board.NewSquare(file, rank2)):
			bonus += shield1
		case pawns.IsSet(board.NewSquare(file, rank3)):
			bonus += shield2
		default:
			bonus -= noShieldMalus
		}
	}
	return bonus
}

// blockedPieces implements step 3: a handful of named trapped-piece patterns, each
// deducting a fixed penalty. Symmetric by construction (relSquare mirrors for Black),
// unlike the asymmetric reference this evaluator is grounded on (Design Note 9a).
func blockedPieces(pos *board.Position, c board.Color) int {
	knights := pos.Piece(c, board.Knight)
	bishops := pos.Piece(c, board.Bishop)
	enemyPawns := pos.Piece(c.Opponent(), board.Pawn)

	malus := 0
	if knights.IsSet(relSquare(c, board.A8)) && enemyPawns.IsSet(relSquare(c, board.B6)) {
		malus -= knightTrappedA8Malus
	}
	if knights.IsSet(relSquare(c, board.H8)) && enemyPawns.IsSet(relSquare(c, board.G6)) {
		malus -= knightTrappedA8Malus
	}
	if knights.IsSet(relSquare(c, board.A7)) && enemyPawns.IsSet(relSquare(c, board.B6)) {
		malus -= knightTrappedA7Malus
	}
	if knights.IsSet(relSquare(c, board.H7)) && enemyPawns.IsSet(relSquare(c, board.G6)) {
		malus -= knightTrappedA7Malus
	}
	if bishops.IsSet(relSquare(c, board.A7)) && enemyPawns.IsSet(relSquare(c, board.B6)) {
		malus -= bishopTrappedA7Malus
	}
	if bishops.IsSet(relSquare(c, board.H7)) && enemyPawns.IsSet(relSquare(c, board.G6)) {
		malus -= bishopTrappedA7Malus
	}
	if bishops.IsSet(relSquare(c, board.A6)) && enemyPawns.IsSet(relSquare(c, board.B5)) {
		malus -= bishopTrappedA6Malus
	}
	if bishops.IsSet(relSquare(c, board.H6)) && enemyPawns.IsSet(relSquare(c, board.G5)) {
		malus -= bishopTrappedA6Malus
	}

	kingSq := pos.Piece(c, board.King).LastPopSquare()
	rooks := pos.Piece(c, board.Rook)
	if kingSq == relSquare(c, board.G1) && rooks.IsSet(relSquare(c, board.H1)) {
		malus -= kingBlocksRookMalus
	}
	if kingSq == relSquare(c, board.F1) && (rooks.IsSet(relSquare(c, board.G1)) || rooks.IsSet(relSquare(c, board.H1))) {
		malus -= kingBlocksRookMalus
	}

	pawns := pos.Piece(c, board.Pawn)
	if bishops.IsSet(relSquare(c, board.C1)) && pawns.IsSet(relSquare(c, board.D2)) && !pos.IsEmpty(relSquare(c, board.D3)) {
		malus -= blockCentralPawnMalus
	}
	if bishops.IsSet(relSquare(c, board.F1)) && pawns.IsSet(relSquare(c, board.E2)) && !pos.IsEmpty(relSquare(c, board.E3)) {
		malus -= blockCentralPawnMalus
	}

	return malus
}

// pawnStructureValue implements step 5: passed/weak/protected-passed classification and
// the doubled-pawn penalty.
func pawnStructureValue(pos *board.Position, c board.Color) int {
	own := pos.Piece(c, board.Pawn)
	squares := own.ToSquares()

	var fileCounts [8]int
	for _, sq := range squares {
		fileCounts[sq.File()]++
	}

	value := 0
	for _, sq := range squares {
		rr := relRank(c, sq.Rank())

		passed := isPassedPawn(pos, c, sq)
		switch {
		case passed && isProtectedPawn(pos, c, sq):
			value += protectedPassedBonus[rr]
		case passed:
			value += passedPawnBonus[rr]
		}
		if isWeakPawn(pos, c, sq) {
			value += weakPawnMalus[rr]
		}

		doubled := 0
		for _, other := range squares {
			if other == sq || other.File() != sq.File() {
				continue
			}
			if c == board.White && other.Rank() > sq.Rank() {
				doubled++
			}
			if c == board.Black && other.Rank() < sq.Rank() {
				doubled++
			}
		}
		value -= doubled * doubledPawnMalus
	}
	return value
}

func isPassedPawn(pos *board.Position, c board.Color, sq board.Square) bool {
	enemy := pos.Piece(c.Opponent(), board.Pawn)
	f := sq.File()

	files := []board.File{f}
	if f > 0 {
		files = append(files, f-1)
	}
	if f < board.FileA {
		files = append(files, f+1)
	}

	for _, esq := range enemy.ToSquares() {
		for _, cf := range files {
			if esq.File() != cf {
				continue
			}
			if c == board.White && esq.Rank() > sq.Rank() {
				return false
			}
			if c == board.Black && esq.Rank() < sq.Rank() {
				return false
			}
		}
	}
	return true
}

func isWeakPawn(pos *board.Position, c board.Color, sq board.Square) bool {
	own := pos.Piece(c, board.Pawn)
	f := sq.File()

	var adjacent []board.File
	if f > 0 {
		adjacent = append(adjacent, f-1)
	}
	if f < board.FileA {
		adjacent = append(adjacent, f+1)
	}

	for _, osq := range own.ToSquares() {
		for _, af := range adjacent {
			if osq.File() != af {
				continue
			}
			if c == board.White && osq.Rank() <= sq.Rank() {
				return false
			}
			if c == board.Black && osq.Rank() >= sq.Rank() {
				return false
			}
		}
	}
	return true
}

func isProtectedPawn(pos *board.Position, c board.Color, sq board.Square) bool {
	own := pos.Piece(c, board.Pawn)
	return board.PawnCaptureboard(c.Opponent(), board.BitMask(sq))&own != 0
}

// pawnAttacks implements step 6: pawns attacking enemy officers score a bonus scaled by
// whether that side is to move.
func pawnAttacks(pos *board.Position, c board.Color, sideToMove board.Color) int {
	mod := passiveAttackMod
	if c == sideToMove {
		mod = activeAttackMod
	}

	value := 0
	for _, sq := range pos.Piece(c, board.Pawn).ToSquares() {
		for _, t := range board.PawnCaptureboard(c, board.BitMask(sq)).ToSquares() {
			color, piece, ok := pos.Square(t)
			if !ok || color != c.Opponent() {
				continue
			}
			if w, found := attackWeight[piece]; found {
				value += w * mod
			}
		}
	}
	return value
}

// combinationBonus implements step 7, signs from White's perspective.
func combinationBonus(pos *board.Position) int {
	v := 0
	if pos.Piece(board.White, board.Bishop).PopCount() >= 2 {
		v += bishopPairBonus
	}
	if pos.Piece(board.Black, board.Bishop).PopCount() >= 2 {
		v -= bishopPairBonus
	}
	if pos.Piece(board.White, board.Knight).PopCount() >= 2 {
		v -= knightPairMalus
	}
	if pos.Piece(board.Black, board.Knight).PopCount() >= 2 {
		v += knightPairMalus
	}
	if pos.Piece(board.White, board.Rook).PopCount() >= 2 {
		v -= rookPairMalus
	}
	if pos.Piece(board.Black, board.Rook).PopCount() >= 2 {
		v += rookPairMalus
	}
	return v
}
