// Client Session Management
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
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"go-awale"
	"go-awale/server"
	"go-awale/store"
)

const welcome = `Welcome to the Awale server!
Type /help for a list of available commands.`

// client wraps a network connection into a session.  A session walks
// through username reception, authentication and the command loop,
// and releases its registry slot when the connection dies.
type client struct {
	st     *server.State
	iolock sync.Mutex // IO Lock
	rwc    io.ReadWriteCloser
	name   string
}

func MakeClient(rwc io.ReadWriteCloser, st *server.State) {
	go (&client{st: st, rwc: rwc}).handle()
}

// String will return a string representation for a client for
// internal use
func (cli *client) String() string {
	return fmt.Sprintf("%p (%q)", cli.rwc, cli.name)
}

// Send delivers MSG to the peer.  Writes are serialized so frames
// from concurrent sessions never interleave on one connection.
func (cli *client) Send(msg *awale.Message) error {
	cli.iolock.Lock()
	defer cli.iolock.Unlock()
	return Encode(cli.rwc, msg)
}

// recv reads the next frame into MSG.  It reports false on any I/O
// failure and on an EXIT message, the two ways a session ends.
func (cli *client) recv(msg *awale.Message) bool {
	if err := Decode(cli.rwc, msg); err != nil {
		if !errors.Is(err, io.EOF) {
			awale.Debug.Printf("%s: %s", cli, err)
		}
		return false
	}
	return msg.Kind != awale.EXIT
}

// reply sends a styled SERVER message
func (cli *client) reply(text string, styles ...string) {
	err := cli.Send(&awale.Message{
		Kind: awale.SERVER,
		Data: awale.Colorize(text, styles...),
	})
	if err != nil {
		awale.Debug.Printf("%s: %s", cli, err)
	}
}

func (cli *client) succeed(text string) { cli.reply(text, awale.SuccessStyle) }
func (cli *client) inform(text string)  { cli.reply(text, awale.InfoStyle) }
func (cli *client) fail(text string)    { cli.reply(text, awale.ErrorStyle) }

// exit tells the peer to hang up and gives the reason
func (cli *client) exit(reason string) {
	err := cli.Send(&awale.Message{Kind: awale.EXIT, Data: reason})
	if err != nil {
		awale.Debug.Printf("%s: %s", cli, err)
	}
}

// info sends an INFO message, used for board snapshots
func (cli *client) info(text string) {
	err := cli.Send(&awale.Message{Kind: awale.INFO, Data: text})
	if err != nil {
		awale.Debug.Printf("%s: %s", cli, err)
	}
}

func validName(name string) error {
	if len(name) == 0 || len(name) > awale.MaxNameLen {
		return fmt.Errorf("Invalid username. Must be between 1 and %d characters.",
			awale.MaxNameLen)
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return errors.New("Invalid username. Must be alphanumeric.")
		}
	}
	return nil
}

// login performs the username and authentication phases.  It returns
// false whenever the connection should be dropped without entering
// the command loop.
func (cli *client) login() bool {
	var msg awale.Message
	if !cli.recv(&msg) {
		return false
	}

	name := msg.Username
	if err := validName(name); err != nil {
		cli.exit(err.Error())
		return false
	}
	if cli.st.Online(name) {
		cli.exit(fmt.Sprintf("Username %s is already taken.", name))
		return false
	}

	user, err := cli.st.Store.LoadUser(name)
	switch {
	case err == nil:
		cli.inform("Password: ")
		if !cli.recv(&msg) {
			return false
		}
		for msg.Data != user.Password {
			cli.fail("Incorrect password. Try again: ")
			if !cli.recv(&msg) {
				return false
			}
		}
	case errors.Is(err, store.ErrNoUser):
		cli.inform("Create Password: ")
		if !cli.recv(&msg) {
			return false
		}
		user = &awale.User{Name: name, Password: msg.Data}

		cli.inform("Biography: ")
		if !cli.recv(&msg) {
			return false
		}
		user.Bio = msg.Data

		if err := cli.st.Store.SaveUser(user); err != nil {
			cli.exit("Error saving user data.")
			return false
		}
	default:
		cli.exit("Error loading user data.")
		return false
	}

	cli.reply("Connection successful", awale.SuccessStyle, awale.Bold)
	cli.name = name
	return true
}

// handle coordinates a session from accept to close
func (cli *client) handle() {
	if cli.rwc == nil {
		panic("No ReadWriteCloser")
	}
	defer cli.rwc.Close()

	if !cli.login() {
		return
	}

	switch err := cli.st.Claim(cli.name, cli); err {
	case nil:
	case server.ErrServerFull:
		cli.exit(awale.Colorize("Server full.", awale.ErrorStyle))
		return
	default:
		// Raced against a session that logged in with the
		// same name after our check
		cli.exit(fmt.Sprintf("Username %s is already taken.", cli.name))
		return
	}
	defer cli.st.Release(cli.name)

	log.Printf("%s has connected.", cli.name)
	cli.inform(welcome)
	cli.st.Broadcast(&awale.Message{
		Kind: awale.SERVER,
		Data: awale.Colorize(cli.name, awale.InfoStyle, awale.Bold) +
			" " + awale.Colorize("has connected.", awale.InfoStyle),
	}, cli.name)

	var msg awale.Message
	for cli.recv(&msg) {
		if strings.HasPrefix(msg.Data, "/") {
			if !cli.command(msg.Data) {
				break
			}
			continue
		}

		// Plain chat is relayed to everyone else, stamped
		// with the session name so clients cannot spoof it
		cli.st.Broadcast(&awale.Message{
			Kind:     awale.TEXT,
			Username: cli.name,
			Data:     msg.Data,
		}, cli.name)
	}

	log.Printf("%s has disconnected.", cli.name)
}
