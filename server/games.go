// Active Game Table
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

package server

import (
	"context"
	"errors"
	"math/rand"
	"sort"

	"go-awale"
)

var (
	ErrNoGame         = errors.New("game not found")
	ErrNotParticipant = errors.New("you are not a participant of this game")
	ErrGameOver       = errors.New("game is already over")
	ErrNotHost        = errors.New("you are not the host of this game")
	ErrOwnGame        = errors.New("you cannot watch your own game")
	ErrWatching       = errors.New("you are already watching this game")
	ErrNotWatching    = errors.New("you are not watching this game")
	ErrPrivateGame    = errors.New("game is private and you are not a friend of the players")
	ErrWatchersFull   = errors.New("too many watchers")
)

// CreateGame publishes a new game between P0 and P1 under a
// previously allocated id.  The first mover is randomized.  The
// returned snapshot is a copy; WARN carries a persistence failure,
// which does not undo the in-memory game.
func (st *State) CreateGame(id uint64, p0, p1 string) (snapshot *awale.Game, warn error) {
	g := awale.NewGame(id, p0, p1)
	g.Turn = awale.Player(rand.Intn(2))

	st.gmu.Lock()
	st.games[id] = g
	snapshot = g.Copy()
	st.gmu.Unlock()

	return snapshot, st.Store.SaveGame(snapshot)
}

// Game returns a consistent copy of the game with the given id
func (st *State) Game(id uint64) (*awale.Game, error) {
	st.gmu.Lock()
	defer st.gmu.Unlock()

	g, ok := st.games[id]
	if !ok {
		return nil, ErrNoGame
	}
	return g.Copy(), nil
}

// Games returns copies of all known games, ordered by id
func (st *State) Games() []*awale.Game {
	st.gmu.Lock()
	games := make([]*awale.Game, 0, len(st.games))
	for _, g := range st.games {
		games = append(games, g.Copy())
	}
	st.gmu.Unlock()

	sort.Slice(games, func(i, j int) bool {
		return games[i].Id < games[j].Id
	})
	return games
}

// Move executes a move by NAME in the given game.  The move itself
// is serialized by the game mutex, so the returned snapshot is the
// exact state every other observer will see next.  A game that just
// ended is dropped from the active table; its file stays on disk.
func (st *State) Move(name string, id uint64, hole int) (snapshot *awale.Game, res awale.MoveResult, warn, err error) {
	st.gmu.Lock()
	g, ok := st.games[id]
	if !ok {
		st.gmu.Unlock()
		return nil, 0, nil, ErrNoGame
	}
	if g.Status.Over() {
		st.gmu.Unlock()
		return nil, 0, nil, ErrGameOver
	}
	player, ok := g.Side(name)
	if !ok {
		st.gmu.Unlock()
		return nil, 0, nil, ErrNotParticipant
	}

	res = g.MakeMove(player, hole)
	if res == awale.GameOver {
		delete(st.games, id)
	}
	snapshot = g.Copy()
	st.gmu.Unlock()

	if !res.Ok() {
		return snapshot, res, nil, nil
	}

	warn = st.Store.SaveGame(snapshot)
	if res == awale.GameOver && st.Stats != nil {
		st.Stats.RecordGame(context.Background(), snapshot)
	}
	return snapshot, res, warn, nil
}

// Forfeit ends the game with NAME as the loser.  The game stays in
// the active table so that its info and history remain reachable;
// further moves are rejected by the status check.
func (st *State) Forfeit(name string, id uint64) (snapshot *awale.Game, warn, err error) {
	st.gmu.Lock()
	g, ok := st.games[id]
	if !ok {
		st.gmu.Unlock()
		return nil, nil, ErrNoGame
	}
	if g.Status.Over() {
		st.gmu.Unlock()
		return nil, nil, ErrGameOver
	}
	player, ok := g.Side(name)
	if !ok {
		st.gmu.Unlock()
		return nil, nil, ErrNotParticipant
	}

	g.Forfeit(player)
	snapshot = g.Copy()
	st.gmu.Unlock()

	warn = st.Store.SaveGame(snapshot)
	if st.Stats != nil {
		st.Stats.RecordGame(context.Background(), snapshot)
	}
	return snapshot, warn, nil
}

// SetVisibility makes a game public or private.  Only the first
// mover (the host) may change it.
func (st *State) SetVisibility(name string, id uint64, public bool) error {
	st.gmu.Lock()
	defer st.gmu.Unlock()

	g, ok := st.games[id]
	if !ok {
		return ErrNoGame
	}
	if g.Players[0] != name {
		return ErrNotHost
	}
	g.Public = public
	return nil
}

// Watch subscribes NAME to board updates of the given game.
// Participants cannot watch their own game, and a private game is
// only watchable by a friend of at least one participant.  The
// friend check reads user files, so it runs between the two locked
// phases rather than under the game mutex.
func (st *State) Watch(name string, id uint64) error {
	st.gmu.Lock()
	g, ok := st.games[id]
	if !ok {
		st.gmu.Unlock()
		return ErrNoGame
	}
	if _, participant := g.Side(name); participant {
		st.gmu.Unlock()
		return ErrOwnGame
	}
	if g.Watching(name) {
		st.gmu.Unlock()
		return ErrWatching
	}
	public, players := g.Public, g.Players
	st.gmu.Unlock()

	if !public &&
		!st.Store.IsFriend(players[0], name) &&
		!st.Store.IsFriend(players[1], name) {
		return ErrPrivateGame
	}

	st.gmu.Lock()
	defer st.gmu.Unlock()
	g, ok = st.games[id]
	if !ok {
		return ErrNoGame
	}
	if g.Watching(name) {
		return ErrWatching
	}
	if len(g.Watchers) >= awale.MaxWatchers {
		return ErrWatchersFull
	}
	g.Watchers = append(g.Watchers, name)
	return nil
}

// Unwatch removes NAME from the watcher list
func (st *State) Unwatch(name string, id uint64) error {
	st.gmu.Lock()
	defer st.gmu.Unlock()

	g, ok := st.games[id]
	if !ok {
		return ErrNoGame
	}
	for i, w := range g.Watchers {
		if w == name {
			g.Watchers = append(g.Watchers[:i], g.Watchers[i+1:]...)
			return nil
		}
	}
	return ErrNotWatching
}
