// Common Types and Constants
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
	"errors"
	"fmt"
)

const (
	// Board geometry
	Holes     = 12
	PerSide   = 6
	InitSeeds = 4
	// Total number of seeds on a fresh board
	TotalSeeds = Holes * InitSeeds

	// Wire and storage limits
	MaxNameLen = 31
	MaxDataLen = 1023

	// Collection capacities
	MaxFriends  = 100
	MaxWatchers = 100
)

var (
	ErrFriendAlready = errors.New("already a friend")
	ErrFriendsFull   = errors.New("friend list is full")
)

type (
	Kind   uint32
	Player int
	Status uint8
)

// Message kinds as they appear on the wire
const (
	TEXT Kind = iota
	EXIT
	SERVER
	INFO
	PRIVATE
	GAME_CHAT
)

func (k Kind) String() string {
	switch k {
	case TEXT:
		return "text"
	case EXIT:
		return "exit"
	case SERVER:
		return "server"
	case INFO:
		return "info"
	case PRIVATE:
		return "private"
	case GAME_CHAT:
		return "game-chat"
	default:
		return fmt.Sprintf("unknown (%d)", uint32(k))
	}
}

// Valid returns true if K is a known message kind
func (k Kind) Valid() bool {
	return k <= GAME_CHAT
}

// Possible game states
const (
	ONGOING Status = iota
	P0_WON
	P1_WON
	DRAW
)

func (s Status) String() string {
	switch s {
	case ONGOING:
		return "ongoing"
	case P0_WON:
		return "player 0 won"
	case P1_WON:
		return "player 1 won"
	case DRAW:
		return "draw"
	default:
		panic(fmt.Sprintf("Illegal status: %d", s))
	}
}

// Over returns true unless the game is still being played
func (s Status) Over() bool {
	return s != ONGOING
}

// Message is the unit exchanged between client and server, in both
// directions.  Every message is transmitted as a fixed-size record,
// even when a field is unused.
type Message struct {
	Kind     Kind
	Username string
	Data     string
}

// User is a persistent profile, keyed by name
type User struct {
	Name     string
	Password string
	Bio      string
	Friends  []string
}

// IsFriend returns true iff NAME is on the friend list.  Friendship
// is unilateral: u having NAME as a friend implies nothing about the
// reverse direction.
func (u *User) IsFriend(name string) bool {
	for _, f := range u.Friends {
		if f == name {
			return true
		}
	}
	return false
}

// AddFriend appends NAME to the friend list
func (u *User) AddFriend(name string) error {
	if u.IsFriend(name) {
		return ErrFriendAlready
	}
	if len(u.Friends) >= MaxFriends {
		return ErrFriendsFull
	}
	u.Friends = append(u.Friends, name)
	return nil
}

// RemoveFriend deletes NAME from the friend list, compacting the
// remaining entries.  It reports whether NAME was present.
func (u *User) RemoveFriend(name string) bool {
	for i, f := range u.Friends {
		if f == name {
			u.Friends = append(u.Friends[:i], u.Friends[i+1:]...)
			return true
		}
	}
	return false
}

// Move records a single played move
type Move struct {
	Player Player
	Hole   int
}

// Game is an in-memory Awalé session.  All fields are guarded by the
// server's game mutex once the game has been published.
type Game struct {
	Id      uint64
	Players [2]string
	Board   [Holes]int
	Scores  [2]int
	Turn    Player
	Status  Status
	Public  bool
	History []Move

	Watchers []string
}

// Side returns the player number of NAME, or false if NAME is not a
// participant
func (g *Game) Side(name string) (Player, bool) {
	switch name {
	case g.Players[0]:
		return 0, true
	case g.Players[1]:
		return 1, true
	default:
		return 0, false
	}
}

// Opponent returns the other player
func (p Player) Opponent() Player {
	return 1 - p
}

// Owns returns true if HOLE is on P's side of the board
func (p Player) Owns(hole int) bool {
	return hole >= 0 && hole < Holes && hole/PerSide == int(p)
}

// Seeds counts every seed in play, on the board and in the scores
func (g *Game) Seeds() (total int) {
	for _, n := range g.Board {
		total += n
	}
	return total + g.Scores[0] + g.Scores[1]
}

// Watching returns true if NAME is subscribed to board updates
func (g *Game) Watching(name string) bool {
	for _, w := range g.Watchers {
		if w == name {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the game, safe to use after the game
// mutex has been released
func (g *Game) Copy() *Game {
	c := *g
	c.History = append([]Move(nil), g.History...)
	c.Watchers = append([]string(nil), g.Watchers...)
	return &c
}
