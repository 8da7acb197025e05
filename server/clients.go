// Client Registry and Matchmaking
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
	"errors"
	"sort"

	"go-awale"
)

var (
	ErrNameTaken  = errors.New("username is already taken")
	ErrServerFull = errors.New("server full")
)

// Claim registers NAME as online.  The claim fails if the name is
// held by another live session or if the client table is full.
func (st *State) Claim(name string, c Conn) error {
	st.cmu.Lock()
	defer st.cmu.Unlock()

	if _, ok := st.clients[name]; ok {
		return ErrNameTaken
	}
	if uint(len(st.clients)) >= st.Conf.Proto.Clients {
		return ErrServerFull
	}
	st.clients[name] = c
	return nil
}

// Release drops NAME from the online table.  If NAME was the
// matchmaking waiter, the slot is cleared as well.
func (st *State) Release(name string) {
	st.cmu.Lock()
	defer st.cmu.Unlock()

	delete(st.clients, name)
	if st.waiting == name {
		st.waiting = ""
	}
}

// Online reports whether NAME has a live session
func (st *State) Online(name string) bool {
	st.cmu.Lock()
	defer st.cmu.Unlock()
	_, ok := st.clients[name]
	return ok
}

// Names returns the connected usernames in a stable order
func (st *State) Names() []string {
	st.cmu.Lock()
	names := make([]string, 0, len(st.clients))
	for name := range st.clients {
		names = append(names, name)
	}
	st.cmu.Unlock()

	sort.Strings(names)
	return names
}

// SendTo delivers MSG to NAME, reporting whether a session was found.
// The connection reference is copied out under the lock so that the
// actual write never blocks other registry users.
func (st *State) SendTo(name string, msg *awale.Message) bool {
	st.cmu.Lock()
	c, ok := st.clients[name]
	st.cmu.Unlock()

	if !ok {
		return false
	}
	if err := c.Send(msg); err != nil {
		awale.Debug.Printf("Send to %s: %s", name, err)
	}
	return true
}

// Broadcast sends MSG to every connected client except EXCEPT
func (st *State) Broadcast(msg *awale.Message, except string) {
	st.cmu.Lock()
	conns := make([]Conn, 0, len(st.clients))
	for name, c := range st.clients {
		if name != except {
			conns = append(conns, c)
		}
	}
	st.cmu.Unlock()

	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			awale.Debug.Print(err)
		}
	}
}

// Match implements the one-slot matchmaking queue.  If nobody is
// waiting, NAME becomes the waiter and QUEUED is true.  Otherwise the
// waiter is dequeued and returned as the opponent.
func (st *State) Match(name string) (opponent string, queued bool) {
	st.cmu.Lock()
	defer st.cmu.Unlock()

	if st.waiting == "" || st.waiting == name {
		st.waiting = name
		return "", true
	}

	opponent = st.waiting
	st.waiting = ""
	return opponent, false
}
