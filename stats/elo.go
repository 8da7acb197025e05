// Elo Ratings
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

package stats

import (
	"log"
	"math"
)

const (
	MAX_DIFF = 400
	EPS      = 0.0001
	K        = 20

	WIN  = 1.0
	DRAW = 0.5
	LOSS = 0.0
)

// rate returns the updated ratings of both players after a game with
// the given SCORE, taken from the first player's point of view.
// Expected scores follow
// https://de.wikipedia.org/wiki/Elo-Zahl#Erwartungswert
func rate(a, b, score float64) (float64, float64) {
	diff := math.Max(-MAX_DIFF, math.Min(b-a, MAX_DIFF))

	ea := 1 / (1 + math.Pow(10, diff/MAX_DIFF))
	eb := 1 / (1 + math.Pow(10, -diff/MAX_DIFF))

	if math.Abs((ea+eb)-1) > EPS {
		log.Printf("Numerical instability detected: %f + %f = %f != 1.0",
			ea, eb, ea+eb)
		return a, b
	}

	return a + K*(score-ea), b + K*((1-score)-eb)
}
