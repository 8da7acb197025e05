// Shared State
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
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"

	"go-awale"
	"go-awale/conf"
	"go-awale/stats"
	"go-awale/store"
)

// Conn is the send side of a connected client.  Sessions implement
// it over TCP, the web interface over websockets.
type Conn interface {
	Send(*awale.Message) error
}

// Manager is a subsystem with its own lifecycle (TCP listener, web
// server, statistics database)
type Manager interface {
	fmt.Stringer
	Start()
	Shutdown()
}

// State owns every piece of shared mutable data in the server.  Each
// collection is guarded by its own mutex; when more than one has to
// be held, the acquisition order is clients, challenges, games.
type State struct {
	Conf  *conf.Conf
	Store *store.Store
	Stats *stats.DB

	// Online clients and the matchmaking waiter.  The waiter is
	// co-guarded by the client mutex because releasing a client
	// must also clear their matchmaking slot.
	cmu     sync.Mutex
	clients map[string]Conn
	waiting string

	// Pending challenges
	chmu       sync.Mutex
	challenges []Challenge

	// Active games and the id allocator
	gmu    sync.Mutex
	games  map[uint64]*awale.Game
	nextId uint64

	managers []Manager
	running  bool
}

// MakeState reloads all persisted games and prepares an empty client
// table.  Games that already have a final status stay on disk but
// are not returned to the active table.
func MakeState(c *conf.Conf, st *store.Store, db *stats.DB) (*State, error) {
	s := &State{
		Conf:    c,
		Store:   st,
		Stats:   db,
		clients: make(map[string]Conn),
		games:   make(map[uint64]*awale.Game),
		nextId:  1,
	}

	games, maxId, err := st.LoadGames()
	if err != nil {
		return nil, err
	}
	for _, g := range games {
		if g.Status.Over() {
			awale.Debug.Printf("Skipping finished game %d", g.Id)
			continue
		}
		s.games[g.Id] = g
		log.Printf("Loaded game %d (%s vs %s)",
			g.Id, g.Players[0], g.Players[1])
	}
	if maxId >= s.nextId {
		s.nextId = maxId + 1
	}

	return s, nil
}

// NextId hands out a fresh game id
func (st *State) NextId() uint64 {
	st.gmu.Lock()
	defer st.gmu.Unlock()
	id := st.nextId
	st.nextId++
	return id
}

// Register adds a manager to be started along with the server
func (st *State) Register(m Manager) {
	if st.running {
		panic(fmt.Sprintf("Late register: %#v", m))
	}
	st.managers = append(st.managers, m)
}

// Start launches all managers and blocks until an interrupt arrives,
// then shuts them down in reverse order
func (st *State) Start() {
	for _, m := range st.managers {
		awale.Debug.Printf("Starting %s", m)
		go m.Start()
	}
	st.running = true

	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	<-intr
	log.Println("Caught interrupt")

	done := make(chan struct{})
	go func() {
		for i := len(st.managers) - 1; i >= 0; i-- {
			m := st.managers[i]
			awale.Debug.Printf("Shutting %s down", m)
			m.Shutdown()
		}
		done <- struct{}{}
	}()

	select {
	case <-intr:
		log.Println("Forced shutdown")
	case <-done:
		log.Println("Shutting down regularly")
	}
}
