// Command Dispatch
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
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-awale"
	"go-awale/server"
)

const help = `/list - Shows the list of connected clients
/help - Shows this help message
/challenge <username> - Challenge another player to a game
/accept <game_id> - Accept a game challenge
/decline <game_id> - Decline a game challenge
/move <game_id> <hole_number> - Make a move in a specified game
/listgames - List all known games
/history <game_id> - Show the move history of a game
/gameinfo <game_id> - Get detailed information about a specific game
/forfeit <game_id> - Forfeit a game
/exit - Disconnect from the server
/watch <game_id> - Watch a game
/unwatch <game_id> - Stop watching a game
/info <username> - Get information about a user (his name and biography)
/match - Join the matchmaking queue
/visibility <game_id> <visibility> - Set the visibility of a game (0 for private, 1 for public)
/addfriend <username> - Add a user to your friends list
/removefriend <username> - Remove a user from your friends list
/getfriends - List your friends
/bio <biography> - Set your biography
/mp <username> <message> - Send a private message to a user
/chat <game_id> <message> - Send a message to the participants of a game
/stats [username] - Show a player's record and rating
/top [n] - Show the highest rated players`

// command interprets one slash command.  It returns false only for
// an orderly close request; every failure produces an error reply,
// never a disconnect.
func (cli *client) command(line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/exit":
		return false
	case "/help":
		cli.reply(awale.Colorize("Available commands:", awale.InfoStyle, awale.Bold) +
			"\n" + awale.Colorize(help, awale.InfoStyle))
	case "/list":
		var sb strings.Builder
		sb.WriteString("Connected clients:\n")
		for _, name := range cli.st.Names() {
			sb.WriteString(name)
			sb.WriteByte('\n')
		}
		cli.succeed(sb.String())
	case "/info":
		cli.userInfo(rest)
	case "/bio":
		cli.updateBio(rest)
	case "/addfriend":
		cli.addFriend(rest)
	case "/removefriend":
		cli.removeFriend(rest)
	case "/getfriends":
		cli.listFriends()
	case "/mp":
		cli.private(rest)
	case "/challenge":
		cli.challenge(rest)
	case "/accept":
		cli.accept(rest)
	case "/decline":
		cli.decline(rest)
	case "/match":
		cli.match()
	case "/move":
		cli.move(rest)
	case "/forfeit":
		cli.forfeit(rest)
	case "/listgames":
		cli.listGames()
	case "/gameinfo":
		cli.gameInfo(rest)
	case "/history":
		cli.history(rest)
	case "/visibility":
		cli.visibility(rest)
	case "/watch":
		cli.watch(rest)
	case "/unwatch":
		cli.unwatch(rest)
	case "/chat":
		cli.chat(rest)
	case "/stats":
		cli.playerStats(rest)
	case "/top":
		cli.topPlayers(rest)
	default:
		cli.fail("Unknown command.")
	}
	return true
}

func gameId(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	return id, err == nil
}

// notify sends a server announcement to NAME
func (cli *client) notify(name, text string) {
	cli.st.SendTo(name, &awale.Message{
		Kind:     awale.TEXT,
		Username: "Server",
		Data:     text,
	})
}

// announce sends a server announcement and a board snapshot to both
// participants of G
func (cli *client) announce(g *awale.Game, text string) {
	info := &awale.Message{Kind: awale.INFO, Data: g.String()}
	for _, p := range g.Players {
		cli.notify(p, text)
		cli.st.SendTo(p, info)
	}
}

func (cli *client) userInfo(name string) {
	user, err := cli.st.Store.LoadUser(name)
	if err != nil {
		cli.fail("User not found.")
		return
	}
	cli.inform(fmt.Sprintf("Username: %s\nBiography: %s",
		user.Name, awale.Colorize(user.Bio, awale.Italic)))
}

func (cli *client) updateBio(bio string) {
	user, err := cli.st.Store.LoadUser(cli.name)
	if err != nil {
		cli.fail("Failed to load user data.")
		return
	}
	user.Bio = bio
	if err := cli.st.Store.SaveUser(user); err != nil {
		cli.fail("Failed to save biography.")
		return
	}
	cli.succeed("Biography updated successfully.")
}

func (cli *client) addFriend(friend string) {
	if friend == cli.name {
		cli.fail("You cannot add yourself as a friend.")
		return
	}
	if !cli.st.Store.Exists(friend) {
		cli.fail("User not found.")
		return
	}
	user, err := cli.st.Store.LoadUser(cli.name)
	if err != nil {
		cli.fail("Failed to load user.")
		return
	}
	switch err := user.AddFriend(friend); {
	case errors.Is(err, awale.ErrFriendAlready):
		cli.fail("Already in your friends list.")
		return
	case errors.Is(err, awale.ErrFriendsFull):
		cli.fail("Friend list is full.")
		return
	}
	if err := cli.st.Store.SaveUser(user); err != nil {
		cli.fail("Failed to save user.")
		return
	}
	cli.succeed("Friend added successfully.")
}

func (cli *client) removeFriend(friend string) {
	if friend == cli.name {
		cli.fail("You cannot remove yourself as a friend.")
		return
	}
	if !cli.st.Store.Exists(friend) {
		cli.fail("User not found.")
		return
	}
	user, err := cli.st.Store.LoadUser(cli.name)
	if err != nil {
		cli.fail("Failed to load user.")
		return
	}
	if !user.RemoveFriend(friend) {
		cli.fail("Friend not found in your list.")
		return
	}
	if err := cli.st.Store.SaveUser(user); err != nil {
		cli.fail("Failed to save user.")
		return
	}
	cli.succeed("Friend removed successfully.")
}

func (cli *client) listFriends() {
	user, err := cli.st.Store.LoadUser(cli.name)
	if err != nil {
		cli.fail("Failed to load user.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Friends:\n")
	for _, f := range user.Friends {
		sb.WriteString(f)
		sb.WriteByte('\n')
	}
	cli.succeed(sb.String())
}

func (cli *client) private(args string) {
	receiver, text, ok := strings.Cut(args, " ")
	if !ok || receiver == "" {
		cli.fail("Usage: /mp <username> <message>")
		return
	}
	if receiver == cli.name {
		cli.fail("You can't send a message to yourself.")
		return
	}
	sent := cli.st.SendTo(receiver, &awale.Message{
		Kind:     awale.PRIVATE,
		Username: cli.name,
		Data:     text,
	})
	if !sent {
		cli.fail("User not found.")
	}
}

func (cli *client) challenge(target string) {
	if target == cli.name {
		cli.fail("You cannot challenge yourself.")
		return
	}
	if !cli.st.Online(target) {
		cli.fail("User not found.")
		return
	}

	id := cli.st.AddChallenge(cli.name, target)
	cli.notify(target, fmt.Sprintf(
		"You have been challenged by %s. Use /accept %d or /decline %d to respond.",
		cli.name, id, id))
	cli.succeed("Challenge sent.")
}

func (cli *client) accept(arg string) {
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	ch, ok := cli.st.TakeChallenge(id, cli.name)
	if !ok {
		cli.fail("No such challenge found.")
		return
	}

	g, warn := cli.st.CreateGame(id, ch.Challenger, ch.Challenged)
	if warn != nil {
		cli.fail("Failed to save game state.")
	}
	first := g.Players[g.Turn]
	cli.announce(g, fmt.Sprintf(
		"Game %d started between %s and %s. It's %s's turn.\n"+
			"%s, reply with /move %d <hole_number> to make your move.",
		g.Id, awale.Colorize(g.Players[0], awale.Bold),
		awale.Colorize(g.Players[1], awale.Bold), first, first, g.Id))
}

func (cli *client) decline(arg string) {
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	ch, ok := cli.st.TakeChallenge(id, cli.name)
	if !ok {
		cli.fail("No such challenge found.")
		return
	}
	cli.notify(ch.Challenger, fmt.Sprintf(
		"Your challenge to %s has been declined.", ch.Challenged))
	cli.succeed("Challenge declined.")
}

func (cli *client) match() {
	opponent, queued := cli.st.Match(cli.name)
	if queued {
		cli.notify(cli.name,
			"You are now in the matchmaking queue. Waiting for another player...")
		return
	}

	id := cli.st.NextId()
	g, warn := cli.st.CreateGame(id, opponent, cli.name)
	if warn != nil {
		cli.fail("Failed to save game state.")
	}
	first := g.Players[g.Turn]
	cli.announce(g, fmt.Sprintf(
		"Match found! Game %d started between %s and %s.\n"+
			"It's %s's turn.\n%s, reply with /move %d <hole_number> to make your move.",
		g.Id, g.Players[0], g.Players[1], first, first, g.Id))
}

func (cli *client) move(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		cli.fail("Usage: /move <game_id> <hole_number>")
		return
	}
	id, ok := gameId(fields[0])
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	hole, err := strconv.Atoi(fields[1])
	if err != nil {
		cli.fail("Usage: /move <game_id> <hole_number>")
		return
	}
	// From here onwards, holes are 0-indexed
	hole--

	g, res, warn, err := cli.st.Move(cli.name, id, hole)
	switch {
	case errors.Is(err, server.ErrNoGame):
		cli.fail("Game not found.")
		return
	case errors.Is(err, server.ErrGameOver):
		cli.fail("Game is already over.")
		return
	case errors.Is(err, server.ErrNotParticipant):
		cli.fail("You are not a participant of this game.")
		return
	}

	switch res {
	case awale.NotYourTurn:
		cli.fail("Not your turn.")
		return
	case awale.WrongSide:
		cli.fail("Not a hole you can select.")
		return
	case awale.EmptyHole:
		cli.fail("Selected hole is empty.")
		return
	}
	if warn != nil {
		cli.fail("Failed to save game state.")
	}

	if res == awale.GameOver {
		text := fmt.Sprintf("Game %d over. Scores - %s: %d, %s: %d.",
			g.Id, g.Players[0], g.Scores[0], g.Players[1], g.Scores[1])
		for _, p := range g.Players {
			cli.notify(p, text)
		}
		return
	}

	next := g.Players[g.Turn]
	cli.announce(g, fmt.Sprintf(
		"===== Game %d =====\n"+
			"Move executed (%s played hole %d). It's %s's turn.\n"+
			"%s, reply with /move %d <hole_number> to make your move.",
		g.Id, cli.name, hole+1, next, next, g.Id))

	info := &awale.Message{Kind: awale.INFO, Data: g.String()}
	for _, w := range g.Watchers {
		cli.st.SendTo(w, info)
	}
}

func (cli *client) forfeit(arg string) {
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	g, warn, err := cli.st.Forfeit(cli.name, id)
	switch {
	case errors.Is(err, server.ErrNoGame):
		cli.fail("Game not found.")
		return
	case errors.Is(err, server.ErrGameOver):
		cli.fail("Game is already over.")
		return
	case errors.Is(err, server.ErrNotParticipant):
		cli.fail("You are not a participant of this game.")
		return
	}
	if warn != nil {
		cli.fail("Failed to save game state.")
	}

	text := fmt.Sprintf("Game %d has been forfeited by %s.", g.Id, cli.name)
	for _, p := range g.Players {
		cli.notify(p, text)
	}
}

func (cli *client) listGames() {
	var sb strings.Builder
	sb.WriteString("Active Games:\n")
	for _, g := range cli.st.Games() {
		if _, ok := g.Side(cli.name); ok {
			sb.WriteString("[YOU] ")
		}
		fmt.Fprintf(&sb, "Game %d: %s vs %s (", g.Id, g.Players[0], g.Players[1])
		switch g.Status {
		case awale.ONGOING:
			sb.WriteString("ongoing")
		case awale.P0_WON:
			sb.WriteString(g.Players[0] + " won")
		case awale.P1_WON:
			sb.WriteString(g.Players[1] + " won")
		case awale.DRAW:
			sb.WriteString("draw")
		}
		sb.WriteString(")\n")
	}
	cli.reply(sb.String(), awale.GameStyle)
}

func (cli *client) gameInfo(arg string) {
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	g, err := cli.st.Game(id)
	if err != nil {
		cli.fail("Game not found.")
		return
	}
	cli.info(g.String())
}

func (cli *client) history(arg string) {
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	g, err := cli.st.Game(id)
	if err != nil {
		cli.fail("Game not found.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Move history for game %d:\n", g.Id)
	for _, m := range g.History {
		fmt.Fprintf(&sb, "%s played hole %d\n", g.Players[m.Player], m.Hole+1)
	}
	cli.notify(cli.name, sb.String())
}

func (cli *client) visibility(args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		cli.fail("Usage: /visibility <game_id> <visibility>")
		return
	}
	id, ok := gameId(fields[0])
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	if fields[1] != "0" && fields[1] != "1" {
		cli.fail("Visibility must be 0 or 1.")
		return
	}

	switch err := cli.st.SetVisibility(cli.name, id, fields[1] == "1"); {
	case errors.Is(err, server.ErrNoGame):
		cli.fail("Game not found.")
	case errors.Is(err, server.ErrNotHost):
		cli.fail("You are not the host of this game.")
	default:
		cli.succeed("Visibility updated.")
	}
}

func (cli *client) watch(arg string) {
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	switch err := cli.st.Watch(cli.name, id); {
	case errors.Is(err, server.ErrNoGame):
		cli.fail("Game not found.")
	case errors.Is(err, server.ErrOwnGame):
		cli.fail("You can't watch your own game.")
	case errors.Is(err, server.ErrWatching):
		cli.fail("You are already watching this game.")
	case errors.Is(err, server.ErrPrivateGame):
		cli.fail("You can't watch this game because it's private and you are not a friend of the players.")
	case errors.Is(err, server.ErrWatchersFull):
		cli.fail("Maximum number of watchers reached.")
	default:
		cli.succeed("You are now watching the game.")
	}
}

func (cli *client) unwatch(arg string) {
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	switch err := cli.st.Unwatch(cli.name, id); {
	case errors.Is(err, server.ErrNoGame):
		cli.fail("Game not found.")
	case errors.Is(err, server.ErrNotWatching):
		cli.fail("You are not watching this game.")
	default:
		cli.succeed("You are no longer watching the game.")
	}
}

func (cli *client) chat(args string) {
	arg, text, ok := strings.Cut(args, " ")
	if !ok {
		cli.fail("Usage: /chat <game_id> <message>")
		return
	}
	id, ok := gameId(arg)
	if !ok {
		cli.fail("Invalid game id.")
		return
	}
	g, err := cli.st.Game(id)
	if err != nil {
		cli.fail("Game not found.")
		return
	}
	if _, ok := g.Side(cli.name); !ok {
		cli.fail("You are not a participant of this game.")
		return
	}

	msg := &awale.Message{
		Kind:     awale.GAME_CHAT,
		Username: cli.name,
		Data:     text,
	}
	for _, p := range g.Players {
		cli.st.SendTo(p, msg)
	}
}

func (cli *client) playerStats(arg string) {
	if cli.st.Stats == nil {
		cli.fail("Statistics are not available.")
		return
	}
	name := arg
	if name == "" {
		name = cli.name
	}

	us := cli.st.Stats.QueryUser(context.Background(), name)
	if us == nil {
		cli.fail("No games on record.")
		return
	}
	cli.inform(fmt.Sprintf(
		"%s: %d games, %d wins, %d losses, %d draws. Rating: %.0f",
		us.Name, us.Games, us.Wins, us.Losses, us.Draws, us.Rating))
}

func (cli *client) topPlayers(arg string) {
	if cli.st.Stats == nil {
		cli.fail("Statistics are not available.")
		return
	}
	n := 10
	if arg != "" {
		var err error
		if n, err = strconv.Atoi(arg); err != nil || n < 1 {
			cli.fail("Usage: /top [n]")
			return
		}
	}

	var sb strings.Builder
	sb.WriteString("Top players:\n")
	for i, us := range cli.st.Stats.QueryTop(context.Background(), n) {
		fmt.Fprintf(&sb, "%2d. %s (%.0f)\n", i+1, us.Name, us.Rating)
	}
	cli.inform(sb.String())
}
