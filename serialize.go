// Game Serialization
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

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// String renders the game in the form carried by INFO messages.
// Clients parse this back with Parse to render the board locally, so
// the two functions have to stay in sync.
func (g *Game) String() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "===== Game %d =====\n", g.Id)
	fmt.Fprintf(&buf, "%s vs %s\n", g.Players[0], g.Players[1])
	fmt.Fprintf(&buf, "Scores: %s %d, %s %d\n",
		g.Players[0], g.Scores[0], g.Players[1], g.Scores[1])
	fmt.Fprint(&buf, "Board:")
	for _, n := range g.Board {
		fmt.Fprintf(&buf, " %d", n)
	}
	fmt.Fprintf(&buf, "\nTurn: %s", g.Players[g.Turn])

	return buf.String()
}

var errMalformed = errors.New("malformed game representation")

// Parse reconstitutes a game from its String form.  Only the fields
// present in the serialized representation are restored.
func Parse(repr string) (*Game, error) {
	lines := strings.Split(strings.TrimRight(repr, "\n"), "\n")
	if len(lines) != 5 {
		return nil, errMalformed
	}

	g := &Game{}

	_, err := fmt.Sscanf(lines[0], "===== Game %d =====", &g.Id)
	if err != nil {
		return nil, errMalformed
	}

	p0, p1, ok := strings.Cut(lines[1], " vs ")
	if !ok || p0 == "" || p1 == "" {
		return nil, errMalformed
	}
	g.Players = [2]string{p0, p1}

	var s0, s1 string
	_, err = fmt.Sscanf(lines[2], "Scores: %s %d, %s %d",
		&s0, &g.Scores[0], &s1, &g.Scores[1])
	if err != nil || s0 != p0 || s1 != p1 {
		return nil, errMalformed
	}

	fields := strings.Fields(strings.TrimPrefix(lines[3], "Board:"))
	if len(fields) != Holes {
		return nil, errMalformed
	}
	for i, f := range fields {
		g.Board[i], err = strconv.Atoi(f)
		if err != nil || g.Board[i] < 0 {
			return nil, errMalformed
		}
	}

	next := strings.TrimPrefix(lines[4], "Turn: ")
	switch next {
	case p0:
		g.Turn = 0
	case p1:
		g.Turn = 1
	default:
		return nil, errMalformed
	}

	return g, nil
}
