// Web request handlers
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

package web

import (
	"context"
	"log"
	"net/http"
	"path"
	"strconv"
	"time"

	"go-awale"
	"go-awale/stats"
)

const DB_TIMEOUT = 20 * time.Second // arbitrary choice

// Generate the index page
func (s *web) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var top []stats.UserStats
	if s.st.Stats != nil {
		ctx, cancel := context.WithTimeout(context.Background(), DB_TIMEOUT)
		defer cancel()
		top = s.st.Stats.QueryTop(ctx, 10)
	}

	w.Header().Add("Content-Type", "text/html")
	w.Header().Add("Cache-Control", "max-age=60")
	err := tmpl.ExecuteTemplate(w, "index.tmpl", struct {
		Games  []*awale.Game
		Online []string
		Top    []stats.UserStats
	}{s.st.Games(), s.st.Names(), top})
	if err != nil {
		log.Print(err)
	}
}

// Generate a website to display a game
func (s *web) showGame(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(path.Base(r.URL.Path), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	g, err := s.st.Game(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !g.Public {
		http.Error(w, "Game is private", http.StatusForbidden)
		return
	}

	w.Header().Add("Content-Type", "text/html")
	err = tmpl.ExecuteTemplate(w, "show-game.tmpl", g)
	if err != nil {
		log.Print(err)
	}
}
