// Flat-file Persistence
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
	"errors"
	"os"
)

// ErrNoUser is returned when a profile does not exist on disk
var ErrNoUser = errors.New("no such user")

// Store persists user profiles and game states as flat files, one
// file per record.  User files are newline-delimited, game files hold
// a single pipe-delimited line; both formats are shared with every
// other implementation of the protocol and must not change.
type Store struct {
	users string
	games string
}

// Open creates the storage directories if necessary
func Open(users, games string) (*Store, error) {
	for _, dir := range []string{users, games} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return &Store{users: users, games: games}, nil
}
