// Command sudoku plays, generates, and solves classic 9x9 puzzles from the
// terminal. Games live in SQLite save slots; generated puzzles can be
// published to a shared PocketBase archive.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/duke-git/lancet/v2/slice"

	"sudoku_game_go/internal/generator"
)

func main() {
	logLevel := flag.String("loglevel", "info", "log level: debug, info, warn, error")
	flag.Usage = usage
	flag.Parse()

	setupLogging(*logLevel)

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "play":
		err = cmdPlay(args[1:])
	case "resume":
		err = cmdResume(args[1:])
	case "saves":
		err = cmdSaves(args[1:])
	case "generate":
		err = cmdGenerate(args[1:])
	case "solve":
		err = cmdSolve(args[1:])
	case "list":
		err = cmdList(args[1:])
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var programLevel = new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		programLevel.Set(slog.LevelDebug)
	case "info":
		programLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		programLevel.Set(slog.LevelWarn)
	case "error":
		programLevel.Set(slog.LevelError)
	default:
		fmt.Fprintf(os.Stderr, "unknown log level %q, defaulting to info\n", level)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel})
	slog.SetDefault(slog.New(handler))
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: sudoku [flags] <command> [command flags]

Commands:
  play      start a new game (or an archived puzzle with -archive)
  resume    continue a game from a save slot
  saves     show save slots and best times
  generate  generate puzzles, optionally uploading them to the archive
  solve     solve puzzles given as 81-character lines
  list      browse the puzzle archive

Difficulties: %s

Flags:
`, strings.Join(difficultyNames(), ", "))
	flag.PrintDefaults()
}

func difficultyNames() []string {
	return slice.Map(generator.Difficulties(), func(_ int, d generator.Difficulty) string {
		return d.String()
	})
}

func difficultyFlag(name string) (generator.Difficulty, error) {
	if !slice.Contain(difficultyNames(), name) {
		return 0, fmt.Errorf("unknown difficulty %q (valid: %s)", name, strings.Join(difficultyNames(), ", "))
	}
	return generator.ParseDifficulty(name)
}
