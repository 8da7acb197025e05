// Client Session Tests
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

package proto

import (
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"go-awale"
	"go-awale/conf"
	"go-awale/server"
	"go-awale/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState(t *testing.T) *server.State {
	t.Helper()

	dir := t.TempDir()
	fs, err := store.Open(filepath.Join(dir, "users"), filepath.Join(dir, "games"))
	require.NoError(t, err)

	st, err := server.MakeState(&conf.Conf{
		Proto: conf.ProtoConf{Clients: 4},
	}, fs, nil)
	require.NoError(t, err)
	return st
}

// peer is the client end of an in-process session
type peer struct {
	conn net.Conn
	in   chan awale.Message
}

func attach(t *testing.T, c net.Conn) *peer {
	t.Helper()
	t.Cleanup(func() { c.Close() })

	p := &peer{conn: c, in: make(chan awale.Message, 32)}
	go func() {
		for {
			var m awale.Message
			if err := Decode(c, &m); err != nil {
				close(p.in)
				return
			}
			p.in <- m
		}
	}()
	return p
}

func connect(t *testing.T, st *server.State) *peer {
	t.Helper()

	c, s := net.Pipe()
	MakeClient(s, st)
	return attach(t, c)
}

func (p *peer) send(t *testing.T, m awale.Message) {
	t.Helper()
	require.NoError(t, Encode(p.conn, &m))
}

func (p *peer) next(t *testing.T) awale.Message {
	t.Helper()
	select {
	case m, ok := <-p.in:
		if !ok {
			t.Fatal("Connection was closed")
		}
		return m
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for a message")
	}
	panic("unreachable")
}

// expect asserts the kind of the next message and that its payload
// contains TEXT, ignoring the styling escapes around it
func (p *peer) expect(t *testing.T, kind awale.Kind, text string) awale.Message {
	t.Helper()
	m := p.next(t)
	assert.Equal(t, kind, m.Kind)
	assert.Contains(t, m.Data, text)
	return m
}

// signup walks a fresh user through the account creation dialogue
func signup(t *testing.T, st *server.State, name string) *peer {
	t.Helper()

	p := connect(t, st)
	p.send(t, awale.Message{Kind: awale.TEXT, Username: name})
	p.expect(t, awale.SERVER, "Create Password: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: "secret"})
	p.expect(t, awale.SERVER, "Biography: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: "test account"})
	p.expect(t, awale.SERVER, "Connection successful")
	p.expect(t, awale.SERVER, "Welcome")
	return p
}

func TestSignupAndCommands(t *testing.T) {
	st := testState(t)
	p := signup(t, st, "alice")

	p.send(t, awale.Message{Kind: awale.TEXT, Username: "alice", Data: "/list"})
	m := p.expect(t, awale.SERVER, "Connected clients:")
	assert.Contains(t, m.Data, "alice")

	p.send(t, awale.Message{Kind: awale.TEXT, Username: "alice", Data: "/info alice"})
	m = p.expect(t, awale.SERVER, "Username: alice")
	assert.Contains(t, m.Data, "Biography: ")
	assert.Contains(t, m.Data, awale.Colorize("test account", awale.Italic))

	p.send(t, awale.Message{Kind: awale.TEXT, Username: "alice", Data: "/bio something new"})
	p.expect(t, awale.SERVER, "Biography updated successfully.")

	user, err := st.Store.LoadUser("alice")
	require.NoError(t, err)
	assert.Equal(t, "something new", user.Bio)

	p.send(t, awale.Message{Kind: awale.TEXT, Username: "alice", Data: "/nonsense"})
	p.expect(t, awale.SERVER, "Unknown command.")
}

func TestPasswordCheck(t *testing.T) {
	st := testState(t)

	p := signup(t, st, "alice")
	p.send(t, awale.Message{Kind: awale.EXIT})
	require.Eventually(t, func() bool {
		return !st.Online("alice")
	}, time.Second, 10*time.Millisecond)

	p = connect(t, st)
	p.send(t, awale.Message{Kind: awale.TEXT, Username: "alice"})
	p.expect(t, awale.SERVER, "Password: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: "wrong"})
	p.expect(t, awale.SERVER, "Incorrect password. Try again: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: "secret"})
	p.expect(t, awale.SERVER, "Connection successful")
}

func TestInvalidNames(t *testing.T) {
	st := testState(t)

	for _, name := range []string{"", "has space", "na/me", "köln"} {
		p := connect(t, st)
		p.send(t, awale.Message{Kind: awale.TEXT, Username: name})
		m := p.next(t)
		assert.Equal(t, awale.EXIT, m.Kind, "name %q", name)
		assert.Contains(t, m.Data, "Invalid username")
	}
}

func TestNameTaken(t *testing.T) {
	st := testState(t)
	signup(t, st, "alice")

	p := connect(t, st)
	p.send(t, awale.Message{Kind: awale.TEXT, Username: "alice"})
	m := p.next(t)
	assert.Equal(t, awale.EXIT, m.Kind)
	assert.Contains(t, m.Data, "already taken")
}

func TestBroadcastChat(t *testing.T) {
	st := testState(t)

	alice := signup(t, st, "alice")
	bob := signup(t, st, "bob")
	alice.expect(t, awale.SERVER, "has connected.")

	bob.send(t, awale.Message{Kind: awale.TEXT, Username: "bob", Data: "hello there"})
	m := alice.next(t)
	assert.Equal(t, awale.TEXT, m.Kind)
	assert.Equal(t, "bob", m.Username)
	assert.Equal(t, "hello there", m.Data)

	alice.send(t, awale.Message{Kind: awale.TEXT, Username: "alice", Data: "/mp bob psst"})
	m = bob.next(t)
	assert.Equal(t, awale.PRIVATE, m.Kind)
	assert.Equal(t, "alice", m.Username)
	assert.Equal(t, "psst", m.Data)
}

func TestChallengeGame(t *testing.T) {
	st := testState(t)

	alice := signup(t, st, "alice")
	bob := signup(t, st, "bob")
	alice.expect(t, awale.SERVER, "has connected.")

	alice.send(t, awale.Message{Kind: awale.TEXT, Username: "alice", Data: "/challenge bob"})
	m := bob.next(t)
	assert.Equal(t, awale.TEXT, m.Kind)
	assert.Contains(t, m.Data, "You have been challenged by alice.")
	assert.Contains(t, m.Data, "/accept 1")
	alice.expect(t, awale.SERVER, "Challenge sent.")

	bob.send(t, awale.Message{Kind: awale.TEXT, Username: "bob", Data: "/accept 1"})
	alice.expect(t, awale.TEXT, "Game 1 started")
	start := alice.expect(t, awale.INFO, "===== Game 1 =====")
	bob.expect(t, awale.TEXT, "Game 1 started")
	bob.expect(t, awale.INFO, "===== Game 1 =====")

	g, err := awale.Parse(start.Data)
	require.NoError(t, err)

	// Have whoever holds the turn play their first hole
	mover, other := alice, bob
	if g.Turn == 1 {
		mover, other = bob, alice
	}
	hole := int(g.Turn)*awale.PerSide + 1
	mover.send(t, awale.Message{
		Kind:     awale.TEXT,
		Username: g.Players[g.Turn],
		Data:     fmt.Sprintf("/move 1 %d", hole),
	})

	mover.expect(t, awale.TEXT, "Move executed")
	update := mover.expect(t, awale.INFO, "===== Game 1 =====")
	other.expect(t, awale.TEXT, "Move executed")
	other.expect(t, awale.INFO, "===== Game 1 =====")

	after, err := awale.Parse(update.Data)
	require.NoError(t, err)
	assert.Zero(t, after.Board[hole-1])
	assert.Equal(t, g.Turn.Opponent(), after.Turn)

	// Moving out of turn is rejected
	mover.send(t, awale.Message{
		Kind:     awale.TEXT,
		Username: g.Players[g.Turn],
		Data:     fmt.Sprintf("/move 1 %d", hole),
	})
	mover.expect(t, awale.SERVER, "Not your turn.")

	// A non-numeric hole argument is a usage error
	mover.send(t, awale.Message{
		Kind:     awale.TEXT,
		Username: g.Players[g.Turn],
		Data:     "/move 1 x",
	})
	mover.expect(t, awale.SERVER, "Usage: /move <game_id> <hole_number>")
}

func TestMatchmaking(t *testing.T) {
	st := testState(t)

	alice := signup(t, st, "alice")
	bob := signup(t, st, "bob")
	alice.expect(t, awale.SERVER, "has connected.")

	alice.send(t, awale.Message{Kind: awale.TEXT, Username: "alice", Data: "/match"})
	alice.expect(t, awale.TEXT, "matchmaking queue")

	bob.send(t, awale.Message{Kind: awale.TEXT, Username: "bob", Data: "/match"})
	alice.expect(t, awale.TEXT, "Match found!")
	alice.expect(t, awale.INFO, "===== Game 1 =====")
	bob.expect(t, awale.TEXT, "Match found!")
	bob.expect(t, awale.INFO, "===== Game 1 =====")
}

// Sessions over a real TCP connection behave like piped ones, and a
// listener on port 0 reports the port the system picked.
func TestListener(t *testing.T) {
	st := testState(t)

	l := StartListener(st, 0)
	t.Cleanup(l.Shutdown)
	require.NotZero(t, l.Port())

	c, err := net.Dial("tcp", fmt.Sprintf("localhost:%d", l.Port()))
	require.NoError(t, err)

	p := attach(t, c)
	p.send(t, awale.Message{Kind: awale.TEXT, Username: "alice"})
	p.expect(t, awale.SERVER, "Create Password: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: "secret"})
	p.expect(t, awale.SERVER, "Biography: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: ""})
	p.expect(t, awale.SERVER, "Connection successful")
	p.expect(t, awale.SERVER, "Welcome")
}

func TestServerFull(t *testing.T) {
	st := testState(t)
	for i := 0; i < 4; i++ {
		signup(t, st, fmt.Sprintf("user%d", i))
	}

	p := connect(t, st)
	p.send(t, awale.Message{Kind: awale.TEXT, Username: "late"})
	p.expect(t, awale.SERVER, "Create Password: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: "pw"})
	p.expect(t, awale.SERVER, "Biography: ")
	p.send(t, awale.Message{Kind: awale.TEXT, Data: ""})
	p.expect(t, awale.SERVER, "Connection successful")

	m := p.next(t)
	assert.Equal(t, awale.EXIT, m.Kind)
	assert.Contains(t, m.Data, "Server full.")
}
