// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// shell reads commands until EOF or quit. A failing command is reported and
// the shell keeps going; nothing is retried.
func (a *app) shell(rl *readline.Instance) error {
	defer rl.Close()
	a.out = rl.Stdout()
	fmt.Fprintf(a.out, "Connected to %s. Type 'help' for commands.\n", a.dev)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quit := a.execLine(line, rl.Stderr()); quit {
			return nil
		}
	}
}

// execLine runs one shell line and reports whether the shell should exit.
func (a *app) execLine(line string, stderr io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch strings.ToLower(fields[0]) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprint(a.out, commandsHelp)
		fmt.Fprintln(a.out, "  quit                   leave the shell")
		return false
	}
	if err := a.run(fields); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "usage error, type 'help' for commands\n")
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
	}
	return false
}

func newReadline() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "usbrelay> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("get"),
			readline.PcItem("set"),
			readline.PcItem("on"),
			readline.PcItem("off"),
			readline.PcItem("show"),
			readline.PcItem("cycle"),
			readline.PcItem("help"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return rl, nil
}
