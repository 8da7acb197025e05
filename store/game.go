// Game State Files
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

package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go-awale"
)

// gameFile is <games>/game_<id>.dat, a single pipe-delimited record:
//
//	id|p0|p1|score0|score1|turn|b0|...|b11|mover|hole|mover|hole|...
//
// The trailing mover/hole pairs are the move history in play order.
func (s *Store) gameFile(id uint64) string {
	return filepath.Join(s.games, fmt.Sprintf("game_%d.dat", id))
}

// SaveGame writes the full state of G, replacing any previous version
func (s *Store) SaveGame(g *awale.Game) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%d|%s|%s|%d|%d|%d",
		g.Id, g.Players[0], g.Players[1],
		g.Scores[0], g.Scores[1], g.Turn)
	for _, n := range g.Board {
		fmt.Fprintf(&buf, "|%d", n)
	}
	for _, m := range g.History {
		fmt.Fprintf(&buf, "|%d|%d", m.Player, m.Hole)
	}

	return os.WriteFile(s.gameFile(g.Id), buf.Bytes(), 0644)
}

// parseGame destructs a single pipe-delimited game record
func parseGame(line string) (*awale.Game, error) {
	fields := strings.Split(strings.TrimSpace(line), "|")
	// id, two names, two scores, turn, twelve holes, then an even
	// number of mover/hole pairs
	if len(fields) < 6+awale.Holes || (len(fields)-6-awale.Holes)%2 != 0 {
		return nil, fmt.Errorf("truncated game record (%d fields)", len(fields))
	}

	g := &awale.Game{}

	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return nil, err
	}
	g.Id = id
	g.Players = [2]string{fields[1], fields[2]}

	num := func(s string) (n int) {
		if err == nil {
			n, err = strconv.Atoi(s)
		}
		return
	}
	g.Scores[0] = num(fields[3])
	g.Scores[1] = num(fields[4])
	g.Turn = awale.Player(num(fields[5]))
	for i := 0; i < awale.Holes; i++ {
		g.Board[i] = num(fields[6+i])
	}

	// Each history entry is read into its own pair of variables;
	// the board and turn fields above are never touched again.
	for i := 6 + awale.Holes; i < len(fields); i += 2 {
		mover := num(fields[i])
		hole := num(fields[i+1])
		g.History = append(g.History, awale.Move{
			Player: awale.Player(mover),
			Hole:   hole,
		})
	}
	if err != nil {
		return nil, err
	}
	if g.Turn != 0 && g.Turn != 1 {
		return nil, fmt.Errorf("invalid turn %d", g.Turn)
	}
	if g.Scores[0] < 0 || g.Scores[1] < 0 {
		return nil, fmt.Errorf("negative score")
	}
	for i, n := range g.Board {
		if n < 0 {
			return nil, fmt.Errorf("negative seed count in hole %d", i)
		}
	}
	for _, m := range g.History {
		if (m.Player != 0 && m.Player != 1) || m.Hole < 0 || m.Hole >= awale.Holes {
			return nil, fmt.Errorf("invalid history entry %d|%d", m.Player, m.Hole)
		}
	}

	// The status is not part of the record.  A completed game has
	// had its board collected into the scores, which is how we
	// recognise it on reload.
	empty := true
	for _, n := range g.Board {
		if n != 0 {
			empty = false
		}
	}
	if empty && len(g.History) > 0 {
		switch {
		case g.Scores[0] > g.Scores[1]:
			g.Status = awale.P0_WON
		case g.Scores[0] < g.Scores[1]:
			g.Status = awale.P1_WON
		default:
			g.Status = awale.DRAW
		}
	}

	return g, nil
}

// LoadGames reads every game_*.dat file in the games directory and
// returns the reconstituted games together with the highest id seen.
// Files that fail to parse are skipped.
func (s *Store) LoadGames() (games []*awale.Game, maxId uint64, err error) {
	entries, err := os.ReadDir(s.games)
	if err != nil {
		return nil, 0, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "game_") || !strings.HasSuffix(name, ".dat") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.games, name))
		if err != nil {
			awale.Debug.Printf("Skipping %s: %s", name, err)
			continue
		}
		g, err := parseGame(string(data))
		if err != nil {
			awale.Debug.Printf("Skipping %s: %s", name, err)
			continue
		}

		if g.Id > maxId {
			maxId = g.Id
		}
		games = append(games, g)
	}

	return games, maxId, nil
}
