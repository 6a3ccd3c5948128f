package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
)

const (
	historyFile = ".propc_history"
	promptMain  = "propc> "
	promptCont  = "...... "
)

func main() {
	s := newSession(os.Stdout)
	for _, path := range os.Args[1:] {
		if _, err := s.exec(":load " + path); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	os.Exit(repl(s))
}

func repl(s *session) int {
	fmt.Println("propc shell, type :help for commands")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		if strings.HasPrefix(strings.TrimSpace(line), "<xml") {
			src, ok := readInline(ln, line)
			if !ok {
				return 0
			}
			if err := s.loadInline(src); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
			continue
		}

		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if quit {
			return 0
		}
	}
}

// readInline keeps prompting until the workspace element is closed.
func readInline(ln *liner.State, first string) (string, bool) {
	var b strings.Builder
	b.WriteString(first)
	for !inlineComplete(b.String()) {
		line, err := ln.Prompt(promptCont)
		if err != nil {
			return "", false
		}
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String(), true
}

func inlineComplete(src string) bool {
	trimmed := strings.TrimSpace(src)
	return strings.Contains(trimmed, "</xml>") || (strings.HasSuffix(trimmed, "/>") && strings.Count(trimmed, "<") == 1)
}
