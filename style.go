// ANSI Styling for Server Replies
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

package awale

// Styling is a presentation concern: the escape codes are only ever
// prepended or appended to the payload of SERVER messages, never to
// the username or kind fields.  Clients that do not care may strip
// or ignore them.

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Italic = "\033[3m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

// Style mapping for the different classes of server replies
const (
	SuccessStyle = Green
	InfoStyle    = Cyan
	ErrorStyle   = Red
	GameStyle    = Yellow
)

// Colorize wraps TEXT in the given styles, closing them with a reset
func Colorize(text string, styles ...string) string {
	if len(styles) == 0 {
		return text
	}
	var out string
	for _, s := range styles {
		out += s
	}
	return out + text + Reset
}
