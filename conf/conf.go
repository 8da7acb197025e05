// Configuration
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

package conf

import (
	"flag"
	"io"
	"log"
	"os"

	"go-awale"

	"github.com/BurntSushi/toml"
)

const defconf = "awale.toml"

func init() {
	def := &defaultConfig

	flag.UintVar(&def.Proto.Port, "tcpport", def.Proto.Port,
		"Port to use for TCP connections")
	flag.UintVar(&def.Proto.Clients, "clients", def.Proto.Clients,
		"Maximum number of concurrent clients")

	flag.StringVar(&def.Store.Users, "users-dir", def.Store.Users,
		"Directory to store user profiles in")
	flag.StringVar(&def.Store.Games, "games-dir", def.Store.Games,
		"Directory to store game states in")

	flag.StringVar(&def.Stats.File, "db", def.Stats.File,
		"File to use for the statistics database")

	flag.BoolVar(&def.Web.Enabled, "web", def.Web.Enabled,
		"Enable the HTTP interface")
	flag.UintVar(&def.Web.Port, "wwwport", def.Web.Port,
		"Port to use for the HTTP server")
	flag.BoolVar(&def.Web.WebSocket, "websocket", def.Web.WebSocket,
		"Enable WebSocket connections")

	flag.BoolVar(&debug, "debug", debug, "Enable debug output")
	flag.BoolVar(&silent, "silent", silent, "Disable verbose output")
	flag.BoolVar(&dump, "dump-config", dump, "Dump configuration to standard output")
	flag.StringVar(&cfile, "conf", cfile, "Path to configuration file")
}

type ProtoConf struct {
	Port    uint `toml:"port"`
	Clients uint `toml:"clients"`
}

type StoreConf struct {
	Users string `toml:"users"`
	Games string `toml:"games"`
}

type StatsConf struct {
	File string `toml:"file"`
}

type WebConf struct {
	Enabled   bool `toml:"enabled"`
	Port      uint `toml:"port"`
	WebSocket bool `toml:"websocket"`
}

// Internal representation
type Conf struct {
	Proto ProtoConf `toml:"proto"`
	Store StoreConf `toml:"store"`
	Stats StatsConf `toml:"stats"`
	Web   WebConf   `toml:"web"`
}

// Configuration object used by default
var defaultConfig = Conf{
	Proto: ProtoConf{
		Port:    12345,
		Clients: 10,
	},
	Store: StoreConf{
		Users: "./users",
		Games: "./games",
	},
	Stats: StatsConf{
		File: "awale.db",
	},
	Web: WebConf{
		Enabled:   true,
		WebSocket: true,
		Port:      8080,
	},
}

var (
	debug  = false
	silent = false
	dump   = false
	cfile  = defconf
)

// Load the configuration, merging the file (if any) over the
// defaults and the command line flags over both
func Load() *Conf {
	c := defaultConfig

	file, err := os.Open(cfile)
	if err != nil {
		if !os.IsNotExist(err) || cfile != defconf {
			log.Fatal(err)
		}
	} else {
		defer file.Close()
		_, err := toml.NewDecoder(file).Decode(&c)
		if err != nil {
			log.Print(err)
			c = defaultConfig
		}
		// Flags write into defaultConfig, so any flag given on the
		// command line has to win back the fields the file just set.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "tcpport":
				c.Proto.Port = defaultConfig.Proto.Port
			case "clients":
				c.Proto.Clients = defaultConfig.Proto.Clients
			case "users-dir":
				c.Store.Users = defaultConfig.Store.Users
			case "games-dir":
				c.Store.Games = defaultConfig.Store.Games
			case "db":
				c.Stats.File = defaultConfig.Stats.File
			case "web":
				c.Web.Enabled = defaultConfig.Web.Enabled
			case "wwwport":
				c.Web.Port = defaultConfig.Web.Port
			case "websocket":
				c.Web.WebSocket = defaultConfig.Web.WebSocket
			}
		})
	}

	switch {
	case debug:
		awale.Debug.SetOutput(os.Stderr)
		log.Default().SetFlags(log.LstdFlags | log.Lshortfile)
		awale.Debug.Println("Debug logging has been enabled")
	case silent:
		log.Default().SetOutput(io.Discard)
	}

	// Dump the configuration onto standard output if requested
	if dump {
		err = c.Dump(os.Stdout)
		if err != nil {
			log.Fatalln("Failed to dump configuration:", err)
		}
		os.Exit(0)
	}

	return &c
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	return toml.NewEncoder(wr).Encode(c)
}
