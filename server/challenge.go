// Pending Challenges
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

// Challenge is a pending game offer.  The id is allocated when the
// challenge is issued so that both sides can refer to the future
// game before it exists.
type Challenge struct {
	Challenger string
	Challenged string
	Id         uint64
}

// AddChallenge records a new offer from CHALLENGER to CHALLENGED and
// returns the game id reserved for it
func (st *State) AddChallenge(challenger, challenged string) uint64 {
	id := st.NextId()

	st.chmu.Lock()
	st.challenges = append(st.challenges, Challenge{
		Challenger: challenger,
		Challenged: challenged,
		Id:         id,
	})
	st.chmu.Unlock()

	return id
}

// TakeChallenge atomically extracts the challenge matching both ID
// and the challenged user.  Accept and decline both consume the
// entry through this.
func (st *State) TakeChallenge(id uint64, challenged string) (Challenge, bool) {
	st.chmu.Lock()
	defer st.chmu.Unlock()

	for i, c := range st.challenges {
		if c.Id == id && c.Challenged == challenged {
			st.challenges = append(st.challenges[:i], st.challenges[i+1:]...)
			return c, true
		}
	}
	return Challenge{}, false
}
