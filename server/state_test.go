// Shared State Tests
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
	"path/filepath"
	"testing"

	"go-awale"
	"go-awale/conf"
	"go-awale/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	msgs []*awale.Message
}

func (c *fakeConn) Send(m *awale.Message) error {
	c.msgs = append(c.msgs, m)
	return nil
}

func testState(t *testing.T) *State {
	t.Helper()

	dir := t.TempDir()
	fs, err := store.Open(filepath.Join(dir, "users"), filepath.Join(dir, "games"))
	require.NoError(t, err)

	st, err := MakeState(&conf.Conf{
		Proto: conf.ProtoConf{Clients: 4},
	}, fs, nil)
	require.NoError(t, err)
	return st
}

func TestClaimRelease(t *testing.T) {
	st := testState(t)

	require.NoError(t, st.Claim("alice", &fakeConn{}))
	assert.ErrorIs(t, st.Claim("alice", &fakeConn{}), ErrNameTaken)
	assert.True(t, st.Online("alice"))

	require.NoError(t, st.Claim("bob", &fakeConn{}))
	require.NoError(t, st.Claim("carol", &fakeConn{}))
	require.NoError(t, st.Claim("dave", &fakeConn{}))
	assert.ErrorIs(t, st.Claim("eve", &fakeConn{}), ErrServerFull)

	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, st.Names())

	st.Release("alice")
	assert.False(t, st.Online("alice"))
	require.NoError(t, st.Claim("eve", &fakeConn{}))
}

func TestSendToAndBroadcast(t *testing.T) {
	st := testState(t)

	a, b := &fakeConn{}, &fakeConn{}
	require.NoError(t, st.Claim("alice", a))
	require.NoError(t, st.Claim("bob", b))

	assert.True(t, st.SendTo("bob", &awale.Message{Data: "hi"}))
	assert.False(t, st.SendTo("nobody", &awale.Message{Data: "hi"}))
	require.Len(t, b.msgs, 1)
	assert.Equal(t, "hi", b.msgs[0].Data)

	st.Broadcast(&awale.Message{Data: "all"}, "bob")
	assert.Len(t, a.msgs, 1)
	assert.Len(t, b.msgs, 1)
}

func TestMatch(t *testing.T) {
	st := testState(t)

	_, queued := st.Match("alice")
	assert.True(t, queued)

	// Repeating the request keeps the same slot
	_, queued = st.Match("alice")
	assert.True(t, queued)

	opponent, queued := st.Match("bob")
	assert.False(t, queued)
	assert.Equal(t, "alice", opponent)

	// The slot is free again
	_, queued = st.Match("carol")
	assert.True(t, queued)

	// Disconnecting the waiter clears the slot
	st.Release("carol")
	_, queued = st.Match("dave")
	assert.True(t, queued)
}

func TestChallenges(t *testing.T) {
	st := testState(t)

	id := st.AddChallenge("alice", "bob")
	id2 := st.AddChallenge("alice", "carol")
	assert.NotEqual(t, id, id2)

	// Only the challenged user may take it
	_, ok := st.TakeChallenge(id, "carol")
	assert.False(t, ok)

	ch, ok := st.TakeChallenge(id, "bob")
	require.True(t, ok)
	assert.Equal(t, Challenge{Challenger: "alice", Challenged: "bob", Id: id}, ch)

	// A taken challenge is gone
	_, ok = st.TakeChallenge(id, "bob")
	assert.False(t, ok)
}

func TestCreateAndMove(t *testing.T) {
	st := testState(t)

	g, warn := st.CreateGame(st.NextId(), "alice", "bob")
	require.NoError(t, warn)
	assert.Equal(t, [2]string{"alice", "bob"}, g.Players)
	assert.Contains(t, []awale.Player{0, 1}, g.Turn)

	// The new game was persisted immediately
	games, _, err := st.Store.LoadGames()
	require.NoError(t, err)
	assert.Len(t, games, 1)

	_, _, _, err = st.Move("carol", g.Id, 0)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, _, _, err = st.Move("alice", 99, 0)
	assert.ErrorIs(t, err, ErrNoGame)

	mover := g.Players[g.Turn]
	hole := int(g.Turn) * awale.PerSide
	snap, res, warn, err := st.Move(mover, g.Id, hole)
	require.NoError(t, err)
	require.NoError(t, warn)
	assert.Equal(t, awale.Continue, res)
	assert.Zero(t, snap.Board[hole])
	assert.Len(t, snap.History, 1)

	// Moving twice in a row is rejected without mutation
	snap2, res, _, err := st.Move(mover, g.Id, hole+1)
	require.NoError(t, err)
	assert.Equal(t, awale.NotYourTurn, res)
	assert.Equal(t, snap.Board, snap2.Board)
}

// A move that finishes the game drops it from the active table and
// leaves its final state on disk.
func TestGameOverRemoved(t *testing.T) {
	st := testState(t)

	g := awale.NewGame(7, "alice", "bob")
	g.Board = [awale.Holes]int{0, 0, 0, 0, 0, 1, 2, 2, 2, 2, 2, 2}
	st.games[7] = g

	snap, res, warn, err := st.Move("alice", 7, 5)
	require.NoError(t, err)
	require.NoError(t, warn)
	assert.Equal(t, awale.GameOver, res)
	assert.Equal(t, awale.P1_WON, snap.Status)

	_, err = st.Game(7)
	assert.ErrorIs(t, err, ErrNoGame)

	games, _, err := st.Store.LoadGames()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, awale.P1_WON, games[0].Status)
}

// Forfeited games keep their slot in the active table so that their
// info stays reachable, but no further moves are accepted.
func TestForfeitGame(t *testing.T) {
	st := testState(t)

	g, _ := st.CreateGame(st.NextId(), "alice", "bob")

	_, _, err := st.Forfeit("carol", g.Id)
	assert.ErrorIs(t, err, ErrNotParticipant)

	snap, warn, err := st.Forfeit("bob", g.Id)
	require.NoError(t, err)
	require.NoError(t, warn)
	assert.Equal(t, awale.P0_WON, snap.Status)

	assert.Len(t, st.Games(), 1)

	_, _, _, err = st.Move("alice", g.Id, 0)
	assert.ErrorIs(t, err, ErrGameOver)

	_, _, err = st.Forfeit("alice", g.Id)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestVisibility(t *testing.T) {
	st := testState(t)

	g, _ := st.CreateGame(st.NextId(), "alice", "bob")

	assert.ErrorIs(t, st.SetVisibility("bob", g.Id, true), ErrNotHost)
	assert.ErrorIs(t, st.SetVisibility("alice", 99, true), ErrNoGame)
	require.NoError(t, st.SetVisibility("alice", g.Id, true))

	got, err := st.Game(g.Id)
	require.NoError(t, err)
	assert.True(t, got.Public)
}

func TestWatch(t *testing.T) {
	st := testState(t)

	require.NoError(t, st.Store.SaveUser(&awale.User{
		Name:     "alice",
		Password: "pw",
		Friends:  []string{"carol"},
	}))
	require.NoError(t, st.Store.SaveUser(&awale.User{
		Name:     "bob",
		Password: "pw",
	}))

	g, _ := st.CreateGame(st.NextId(), "alice", "bob")

	assert.ErrorIs(t, st.Watch("alice", g.Id), ErrOwnGame)
	assert.ErrorIs(t, st.Watch("carol", 99), ErrNoGame)

	// The game is private; carol is in alice's friend list,
	// dave is in nobody's
	require.NoError(t, st.Watch("carol", g.Id))
	assert.ErrorIs(t, st.Watch("carol", g.Id), ErrWatching)
	assert.ErrorIs(t, st.Watch("dave", g.Id), ErrPrivateGame)

	// Public games are open to everyone
	require.NoError(t, st.SetVisibility("alice", g.Id, true))
	require.NoError(t, st.Watch("dave", g.Id))

	got, err := st.Game(g.Id)
	require.NoError(t, err)
	assert.True(t, got.Watching("carol"))
	assert.True(t, got.Watching("dave"))

	require.NoError(t, st.Unwatch("carol", g.Id))
	assert.ErrorIs(t, st.Unwatch("carol", g.Id), ErrNotWatching)
}

// Reloading the store skips finished games but keeps counting from
// the highest id ever used.
func TestReload(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.Open(filepath.Join(dir, "users"), filepath.Join(dir, "games"))
	require.NoError(t, err)

	ongoing := awale.NewGame(3, "alice", "bob")
	require.NoError(t, fs.SaveGame(ongoing))

	finished := awale.NewGame(8, "carol", "dave")
	finished.Board = [awale.Holes]int{}
	finished.Scores = [2]int{25, 23}
	finished.History = []awale.Move{{Player: 0, Hole: 0}}
	require.NoError(t, fs.SaveGame(finished))

	st, err := MakeState(&conf.Conf{
		Proto: conf.ProtoConf{Clients: 4},
	}, fs, nil)
	require.NoError(t, err)

	require.Len(t, st.Games(), 1)
	_, err = st.Game(3)
	assert.NoError(t, err)

	assert.Equal(t, uint64(9), st.NextId())
}
