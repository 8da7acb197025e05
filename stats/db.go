// Statistics Database
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

package stats

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"log"
	"path"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-awale"
)

//go:embed *.sql
var sql_dir embed.FS

// UserStats is the archived record of a single user
type UserStats struct {
	Name   string
	Games  uint64
	Wins   uint64
	Losses uint64
	Draws  uint64
	Rating float64
}

// DB archives finished games and maintains per-user tallies and Elo
// ratings.  The flat files under ./games/ remain the authoritative
// game state; this database only ever accumulates results.
type DB struct {
	read  *sql.DB
	write *sql.DB

	// The SQL statements are stored under ./*.sql and loaded on
	// startup.  QUERIES are handled by READ, COMMANDS by WRITE.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt

	shut chan struct{}
}

// Open connects to the database file, applies the pragmas and
// prepares all embedded statements
func Open(file string) (*DB, error) {
	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	db := &DB{
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		read:     read,
		write:    write,
		shut:     make(chan struct{}),
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
	} {
		awale.Debug.Printf("Run PRAGMA %v", pragma)
		if _, err = db.write.Exec("PRAGMA " + pragma + ";"); err != nil {
			return nil, err
		}
	}

	entries, err := sql_dir.ReadDir(".")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		base := entry.Name()
		data, err := fs.ReadFile(sql_dir, base)
		if err != nil {
			return nil, err
		}

		if strings.HasPrefix(base, "create-") {
			_, err = db.write.Exec(string(data))
			awale.Debug.Printf("Executed %v", base)
		} else {
			name := strings.TrimSuffix(path.Base(base), ".sql")
			if strings.HasPrefix(name, "select-") {
				db.queries[name], err = db.read.Prepare(string(data))
				awale.Debug.Printf("Registered query %v", name)
			} else {
				db.commands[name], err = db.write.Prepare(string(data))
				awale.Debug.Printf("Registered command %v", name)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if len(db.queries) == 0 {
		panic("No queries loaded")
	}

	return db, nil
}

// RecordGame archives the outcome of a finished game and updates the
// tallies and ratings of both participants
func (db *DB) RecordGame(ctx context.Context, g *awale.Game) {
	if !g.Status.Over() {
		return
	}

	tx, err := db.write.BeginTx(ctx, nil)
	if err != nil {
		log.Print(err)
		return
	}

	var score float64 // from player 0's point of view
	switch g.Status {
	case awale.P0_WON:
		score = WIN
	case awale.P1_WON:
		score = LOSS
	case awale.DRAW:
		score = DRAW
	}

	ratings := [2]float64{}
	for i, name := range g.Players {
		if _, err = tx.Stmt(db.commands["insert-user"]).ExecContext(ctx, name); err != nil {
			goto fail
		}
		if err = tx.Stmt(db.commands["get-rating"]).QueryRowContext(ctx, name).Scan(&ratings[i]); err != nil {
			goto fail
		}
	}

	{
		r0, r1 := rate(ratings[0], ratings[1], score)
		results := [2]struct {
			win, loss, draw int
			rating          float64
		}{
			{b2i(g.Status == awale.P0_WON), b2i(g.Status == awale.P1_WON), b2i(g.Status == awale.DRAW), r0},
			{b2i(g.Status == awale.P1_WON), b2i(g.Status == awale.P0_WON), b2i(g.Status == awale.DRAW), r1},
		}
		for i, name := range g.Players {
			res := results[i]
			_, err = tx.Stmt(db.commands["update-user"]).ExecContext(ctx,
				res.win, res.loss, res.draw, res.rating, name)
			if err != nil {
				goto fail
			}
		}

		_, err = tx.Stmt(db.commands["insert-game"]).ExecContext(ctx,
			g.Id, g.Players[0], g.Players[1],
			g.Scores[0], g.Scores[1], uint8(g.Status))
		if err != nil {
			goto fail
		}
	}

	if err = tx.Commit(); err != nil {
		log.Print(err)
	}
	return

fail:
	log.Print(err)
	if err = tx.Rollback(); err != nil {
		log.Print(err)
	}
}

// QueryUser returns the archived record of NAME, or nil if the user
// has never finished a game
func (db *DB) QueryUser(ctx context.Context, name string) *UserStats {
	u := UserStats{Name: name}
	err := db.queries["select-user"].QueryRowContext(ctx, name).Scan(
		&u.Games, &u.Wins, &u.Losses, &u.Draws, &u.Rating)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Print(err)
		}
		return nil
	}
	return &u
}

// QueryTop returns up to N users ordered by rating
func (db *DB) QueryTop(ctx context.Context, n int) (top []UserStats) {
	rows, err := db.queries["select-top"].QueryContext(ctx, n)
	if err != nil {
		log.Print(err)
		return nil
	}
	defer rows.Close()

	for rows.Next() {
		var u UserStats
		err = rows.Scan(&u.Name, &u.Games, &u.Wins, &u.Losses, &u.Draws, &u.Rating)
		if err != nil {
			log.Print(err)
			return
		}
		top = append(top, u)
	}
	if err = rows.Err(); err != nil {
		log.Print(err)
	}
	return
}

func (db *DB) Start() {
	tick := time.NewTicker(24 * time.Hour)
	defer tick.Stop()
	for {
		select {
		case <-db.shut:
			return
		case <-tick.C:
			// https://www.sqlite.org/pragma.html#pragma_optimize
			if _, err := db.write.Exec("PRAGMA optimize;"); err != nil {
				log.Print(err)
			}
		}
	}
}

func (db *DB) Shutdown() {
	close(db.shut)

	// https://www.sqlite.org/pragma.html#pragma_optimize
	if _, err := db.write.Exec("PRAGMA optimize;"); err != nil {
		log.Print(err)
	}
	if err := db.write.Close(); err != nil {
		log.Print(err)
	}
	if err := db.read.Close(); err != nil {
		log.Print(err)
	}
}

func (*DB) String() string { return "Statistics Database" }

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
