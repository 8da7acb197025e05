// Awalé Rules Engine
//
// Copyright (c) 2024, 2025  The go-awale authors
//
// This file is part of go-awale.
//
// go-awale is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-awale is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-awale. If not, see
// <http://www.gnu.org/licenses/>

package awale

// MoveResult is the discriminant returned by MakeMove
type MoveResult uint8

const (
	Continue MoveResult = iota
	GameOver
	NotYourTurn
	WrongSide
	EmptyHole
)

func (r MoveResult) String() string {
	switch r {
	case Continue:
		return "continue"
	case GameOver:
		return "game over"
	case NotYourTurn:
		return "not your turn"
	case WrongSide:
		return "invalid hole"
	case EmptyHole:
		return "empty hole"
	default:
		panic("Illegal move result")
	}
}

// Ok returns true if the move was accepted
func (r MoveResult) Ok() bool {
	return r == Continue || r == GameOver
}

// NewGame creates a fresh game between P0 and P1.  The board is a
// ring of 12 holes with 4 seeds each; holes 0..5 belong to player 0,
// 6..11 to player 1.  Player 0 moves first unless the caller
// randomizes the turn afterwards.
func NewGame(id uint64, p0, p1 string) *Game {
	g := &Game{
		Id:      id,
		Players: [2]string{p0, p1},
	}
	for i := range g.Board {
		g.Board[i] = InitSeeds
	}
	return g
}

// Legal returns Continue if PLAYER may play HOLE, or the reason the
// move would be rejected.  The board is left untouched.
func (g *Game) Legal(player Player, hole int) MoveResult {
	if g.Turn != player {
		return NotYourTurn
	}
	if !player.Owns(hole) {
		return WrongSide
	}
	if g.Board[hole] == 0 {
		return EmptyHole
	}
	return Continue
}

// MakeMove validates and executes a move by PLAYER at HOLE
// (0-indexed).  On success the move is appended to the history and
// the turn advances, unless the move emptied one side of the board,
// in which case the remaining seeds are collected and the final
// status is set.
func (g *Game) MakeMove(player Player, hole int) MoveResult {
	if g.Status.Over() {
		panic("Move on a finished game")
	}
	if r := g.Legal(player, hole); r != Continue {
		return r
	}

	// Sow the seeds counter-clockwise around the ring
	seeds := g.Board[hole]
	g.Board[hole] = 0
	pos := hole
	for ; seeds > 0; seeds-- {
		pos = (pos + 1) % Holes
		g.Board[pos]++
	}

	// Capture backwards from the landing hole while it is on the
	// opponent's side and holds 2 or 3 seeds
	for player.Opponent().Owns(pos) && (g.Board[pos] == 2 || g.Board[pos] == 3) {
		g.Scores[player] += g.Board[pos]
		g.Board[pos] = 0
		pos = (pos - 1 + Holes) % Holes
	}

	g.History = append(g.History, Move{Player: player, Hole: hole})

	if g.sideEmpty(0) || g.sideEmpty(1) {
		g.collect()
		return GameOver
	}

	g.Turn = g.Turn.Opponent()
	return Continue
}

// Forfeit ends the game with LOSER's opponent as the winner
func (g *Game) Forfeit(loser Player) {
	if loser == 0 {
		g.Status = P1_WON
	} else {
		g.Status = P0_WON
	}
}

// sideEmpty returns true if all six holes of PLAYER are empty
func (g *Game) sideEmpty(player Player) bool {
	for i := 0; i < PerSide; i++ {
		if g.Board[int(player)*PerSide+i] > 0 {
			return false
		}
	}
	return true
}

// collect distributes every remaining seed to its side's owner and
// derives the final status from the scores
func (g *Game) collect() {
	for i, n := range g.Board {
		g.Scores[i/PerSide] += n
		g.Board[i] = 0
	}

	switch {
	case g.Scores[0] > g.Scores[1]:
		g.Status = P0_WON
	case g.Scores[0] < g.Scores[1]:
		g.Status = P1_WON
	default:
		g.Status = DRAW
	}
}
