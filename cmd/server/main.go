// Entry point
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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go-awale"
	"go-awale/conf"
	"go-awale/proto"
	"go-awale/server"
	"go-awale/stats"
	"go-awale/store"
	"go-awale/web"
)

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load the configuration from disk (if available)
	config := conf.Load()
	awale.Debug.Println("Debug logging has been enabled")

	// Open the flat-file store for users and games
	st, err := store.Open(config.Store.Users, config.Store.Games)
	if err != nil {
		log.Fatal(err)
	}

	// Enable the statistics database
	db, err := stats.Open(config.Stats.File)
	if err != nil {
		log.Fatal(err)
	}

	state, err := server.MakeState(config, st, db)
	if err != nil {
		log.Fatal(err)
	}
	state.Register(db)

	// Enable the web interface
	web.Prepare(state)

	// Allow TCP connections
	proto.Prepare(state)

	// Launch the server
	state.Start()
}
