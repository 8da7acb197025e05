// Elo Rating Tests
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
	"math"
	"testing"
)

func TestRate(t *testing.T) {
	for i, test := range []struct {
		a, b, score float64
		na, nb      float64
	}{
		// Between equals, a win moves half of K
		{1000, 1000, WIN, 1010, 990},
		{1000, 1000, LOSS, 990, 1010},
		{1000, 1000, DRAW, 1000, 1000},
	} {
		na, nb := rate(test.a, test.b, test.score)
		if math.Abs(na-test.na) > EPS || math.Abs(nb-test.nb) > EPS {
			t.Errorf("(%d) Expected %f/%f, got %f/%f",
				i, test.na, test.nb, na, nb)
		}
	}
}

// The favourite gains less from a win than the underdog would
func TestRateFavourite(t *testing.T) {
	na, _ := rate(1200, 1000, WIN)
	nu, _ := rate(1000, 1200, WIN)

	if na-1200 >= nu-1000 {
		t.Errorf("Favourite gained %f, underdog %f", na-1200, nu-1000)
	}
	if na <= 1200 {
		t.Errorf("A win may never lose points (%f)", na)
	}
}

// Rating is redistributed, never created
func TestRateConserves(t *testing.T) {
	for _, score := range []float64{WIN, DRAW, LOSS} {
		for _, d := range []float64{0, 100, 300, 500, 1000} {
			na, nb := rate(1000+d, 1000, score)
			if math.Abs((na+nb)-(2000+d)) > EPS {
				t.Errorf("Rating sum changed by %f",
					(na+nb)-(2000+d))
			}
		}
	}
}
