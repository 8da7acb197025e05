// Web interface manager
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
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"go-awale/server"
)

//go:embed *.tmpl
var html embed.FS

var (
	// Template manager
	tmpl *template.Template

	// Custom template functions
	funcs = template.FuncMap{
		"inc": func(i int) int {
			return i + 1
		},
	}
)

type web struct {
	st   *server.State
	mux  *http.ServeMux
	done chan struct{}
	srv  *http.Server
}

func (s *web) listen() {
	addr := fmt.Sprintf(":%d", s.st.Conf.Web.Port)
	log.Printf("Listening via HTTP on %s", addr)

	s.srv = &http.Server{Addr: addr, Handler: s.mux}
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Print(err)
	}
	close(s.done)
}

func (s *web) Start() {
	// Prepare HTTP Multiplexer
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/", s.index)
	s.mux.HandleFunc("/game/", s.showGame)
	s.mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /")
	})

	// Install the WebSocket handler
	if s.st.Conf.Web.WebSocket {
		log.Print("Accepting websocket connections on /socket")
		s.mux.HandleFunc("/socket", s.upgrader())
	}

	// Parse templates
	tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(html, "*.tmpl"))

	s.listen()
}

func (s *web) Shutdown() {
	if s.srv == nil {
		return
	}
	if err := s.srv.Shutdown(context.Background()); err != nil {
		log.Print(err)
	}
	<-s.done
}

func (*web) String() string { return "Web Server" }

// Prepare registers the web interface, unless it has been disabled
func Prepare(st *server.State) {
	if !st.Conf.Web.Enabled {
		return
	}

	st.Register(&web{st: st, done: make(chan struct{})})
}
