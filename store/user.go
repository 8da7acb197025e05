// User Profiles
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
	"bufio"
	"os"
	"path/filepath"

	"go-awale"
)

// userFile is <users>/<name>.dat: line 1 the password, line 2 the
// biography, every following line one friend
func (s *Store) userFile(name string) string {
	return filepath.Join(s.users, name+".dat")
}

// LoadUser reads the profile of NAME, or ErrNoUser if none exists
func (s *Store) LoadUser(name string) (*awale.User, error) {
	file, err := os.Open(s.userFile(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoUser
		}
		return nil, err
	}
	defer file.Close()

	u := &awale.User{Name: name}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, awale.MaxDataLen+1), awale.MaxDataLen+1)
	for line := 0; scanner.Scan(); line++ {
		text := scanner.Text()
		switch line {
		case 0:
			u.Password = text
		case 1:
			u.Bio = text
		default:
			if text == "" {
				continue
			}
			u.Friends = append(u.Friends, text)
		}
	}
	return u, scanner.Err()
}

// SaveUser writes the profile of U, replacing any previous version
func (s *Store) SaveUser(u *awale.User) error {
	file, err := os.Create(s.userFile(u.Name))
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	w.WriteString(u.Password)
	w.WriteByte('\n')
	w.WriteString(u.Bio)
	w.WriteByte('\n')
	for _, f := range u.Friends {
		w.WriteString(f)
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Exists reports whether a profile for NAME is on disk
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.userFile(name))
	return err == nil
}

// IsFriend returns true iff B is on A's friend list.  Missing
// profiles count as having no friends.
func (s *Store) IsFriend(a, b string) bool {
	u, err := s.LoadUser(a)
	if err != nil {
		return false
	}
	return u.IsFriend(b)
}
