// TCP interface
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
	"log"
	"net"
	"strconv"
	"strings"

	"go-awale"
	"go-awale/server"
)

type Listener struct {
	st   *server.State
	conn net.Listener
	port uint16
}

func (*Listener) String() string {
	return "TCP Handler"
}

// Initialise a listener, unless it has already been initialised
func (t *Listener) init() {
	if t.conn != nil {
		return
	}

	var err error
	tcp := fmt.Sprintf(":%d", t.port)
	t.conn, err = net.Listen("tcp", tcp)
	if err != nil {
		log.Fatal(err)
	}
	if t.port == 0 {
		// Extract port number the operating system bound the listener
		// to, since port 0 is redirected to a "random" open port
		addr := t.conn.Addr().String()
		i := strings.LastIndexByte(addr, ':')
		if i == -1 && i+1 == len(addr) {
			log.Fatal("Invalid address ", addr)
		}
		port, err := strconv.ParseUint(addr[i+1:], 10, 16)
		if err != nil {
			log.Fatal("Unexpected error ", err)
		}
		t.port = uint16(port)
	}
}

func (t *Listener) Start() {
	t.init()

	awale.Debug.Printf("Accepting connections on :%d", t.port)
	for {
		conn, err := t.conn.Accept()
		if err != nil {
			break
		}
		MakeClient(conn, t.st)
	}
}

func (t *Listener) Port() uint16 {
	return t.port
}

func (t *Listener) Shutdown() {
	if err := t.conn.Close(); err != nil {
		log.Print(err)
	}
}

func MakeListener(st *server.State, port uint16) *Listener {
	return &Listener{st: st, port: port}
}

// StartListener binds the listener before returning, so the bound
// port can be read right away, and accepts in the background.
func StartListener(st *server.State, port uint16) *Listener {
	l := MakeListener(st, port)
	l.init()
	go l.Start()
	return l
}

// Prepare registers the TCP listener on the configured port
func Prepare(st *server.State) {
	st.Register(MakeListener(st, uint16(st.Conf.Proto.Port)))
}
