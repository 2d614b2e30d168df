package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"sudoku_game_go/internal/archive"
	"sudoku_game_go/internal/game"
	"sudoku_game_go/internal/store"
	"sudoku_game_go/internal/visualizer"
)

func cmdPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	difficulty := fs.String("difficulty", "medium", "puzzle difficulty")
	seed := fs.Int64("seed", 0, "generation seed, 0 picks one from the clock")
	dbPath := fs.String("db", "sudoku.db", "save database path")
	hints := fs.Int("hints", game.DefaultHintBudget, "hint budget, 0 disables hints")
	noCheck := fs.Bool("no-autocheck", false, "do not flag conflicting entries")
	archiveID := fs.String("archive", "", "play this archived puzzle instead of generating one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	budget := *hints
	if budget == 0 {
		budget = -1
	}
	opts := game.Options{
		Seed:             *seed,
		HintBudget:       budget,
		DisableAutoCheck: *noCheck,
	}

	var sess *game.Session
	if *archiveID != "" {
		client, err := archive.New(archive.ConfigFromEnv())
		if err != nil {
			return err
		}
		if err := client.Authorize(); err != nil {
			slog.Warn("proceeding unauthenticated", "error", err)
		}
		p, err := client.Get(*archiveID)
		if err != nil {
			return err
		}
		sess = game.NewSession(p, opts)
		slog.Info("fetched archived puzzle", "id", *archiveID, "difficulty", p.Difficulty)
	} else {
		d, err := difficultyFlag(*difficulty)
		if err != nil {
			return err
		}
		start := time.Now()
		sess, err = game.NewGame(d, opts)
		if err != nil {
			return err
		}
		slog.Info("generated puzzle", "difficulty", d, "duration", time.Since(start).Round(time.Millisecond))
	}

	st, err := store.New(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	return runGame(sess, st)
}

func cmdResume(args []string) error {
	fs := flag.NewFlagSet("resume", flag.ExitOnError)
	dbPath := fs.String("db", "sudoku.db", "save database path")
	slot := fs.Int("slot", store.AutosaveSlot, "slot to resume from")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.New(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	sg, err := st.Get(*slot)
	if errors.Is(err, store.ErrSlotEmpty) {
		return fmt.Errorf("nothing saved in slot %d", *slot)
	}
	if err != nil {
		return err
	}
	sess, err := game.DecodeSave(sg.Payload, game.Options{})
	if err != nil {
		return err
	}
	slog.Info("resumed game", "slot", *slot, "difficulty", sess.Difficulty(), "elapsed", sess.Elapsed().Round(time.Second))

	return runGame(sess, st)
}

func cmdSaves(args []string) error {
	fs := flag.NewFlagSet("saves", flag.ExitOnError)
	dbPath := fs.String("db", "sudoku.db", "save database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.New(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	saves, err := st.List()
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Println("no saved games")
	}
	for _, sg := range saves {
		label := strconv.Itoa(sg.Slot)
		if sg.Slot == store.AutosaveSlot {
			label = "auto"
		}
		fmt.Printf("slot %-4s %-7s %8s  saved %s\n",
			label, sg.Difficulty, sg.Elapsed.Round(time.Second), sg.SavedAt.Local().Format("2006-01-02 15:04"))
	}

	best, err := st.BestTimes()
	if err != nil {
		return err
	}
	if len(best) > 0 {
		fmt.Println("\nbest times:")
		for _, bt := range best {
			fmt.Printf("  %-7s %8s\n", bt.Difficulty, bt.Elapsed.Round(time.Second))
		}
	}
	return nil
}

const playHelp = `commands:
  R C D    enter digit D at row R, column C (1-9)
  n R C D  toggle pencil mark D at row R, column C
  c R C    clear a cell
  u / r    undo / redo
  h        preview a hint   h R C  fill a cell from the solution
  p        pause
  a        toggle conflict flagging
  v        toggle pencil-mark view
  s [N]    save to slot N (1-3, default 1)
  q        quit (progress autosaves)`

// runGame drives the interactive loop until the puzzle is solved or the
// player quits. Progress is autosaved to slot 0 after every command.
func runGame(sess *game.Session, st *store.Store) error {
	color := isatty.IsTerminal(os.Stdout.Fd())
	notes := false

	render(sess.Snapshot(), color, notes)
	fmt.Println("type ? for commands")

	scanner := bufio.NewScanner(os.Stdin)
	for sess.State() != game.StateWon {
		fmt.Print("> ")
		if !scanner.Scan() {
			autosave(st, sess)
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q", "quit":
			autosave(st, sess)
			return nil
		case "?", "help":
			fmt.Println(playHelp)
			continue
		case "v":
			notes = !notes
			render(sess.Snapshot(), color, notes)
			continue
		case "a":
			sess.SetAutoCheck(!sess.AutoCheck())
			fmt.Printf("conflict flagging %s\n", onOff(sess.AutoCheck()))
			continue
		case "s":
			slot, err := manualSaveSlot(fields)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := putSession(st, slot, sess); err != nil {
				fmt.Printf("save failed: %v\n", err)
				continue
			}
			fmt.Printf("saved to slot %d\n", slot)
			continue
		case "h":
			if len(fields) > 1 {
				break
			}
			cell, digit, err := sess.PeekHint()
			if err != nil {
				fmt.Println(err)
			} else {
				fmt.Printf("try %d at row %d, column %d\n", digit, cell.Row+1, cell.Col+1)
			}
			continue
		case "p":
			if _, err := sess.Pause(); err != nil {
				fmt.Println(err)
				continue
			}
			autosave(st, sess)
			fmt.Print("paused, press enter to resume")
			scanner.Scan()
			if _, err := sess.Resume(); err != nil {
				return err
			}
			render(sess.Snapshot(), color, notes)
			continue
		}

		snap, err := applyCommand(sess, fields)
		if err != nil {
			fmt.Println(err)
			continue
		}
		autosave(st, sess)
		render(snap, color, notes)
	}

	return finishGame(sess, st)
}

// applyCommand translates one input line into a session command. Rows and
// columns are 1-based on the way in.
func applyCommand(sess *game.Session, fields []string) (game.Snapshot, error) {
	errUsage := errors.New("unrecognized command, type ? for help")

	switch fields[0] {
	case "u":
		return sess.Undo()
	case "r":
		return sess.Redo()
	case "h":
		nums, err := parseInts(fields[1:], 2)
		if err != nil {
			return sess.Snapshot(), errUsage
		}
		return sess.UseHint(nums[0]-1, nums[1]-1)
	case "c":
		nums, err := parseInts(fields[1:], 2)
		if err != nil {
			return sess.Snapshot(), errUsage
		}
		return sess.ClearCell(nums[0]-1, nums[1]-1)
	case "n":
		nums, err := parseInts(fields[1:], 3)
		if err != nil {
			return sess.Snapshot(), errUsage
		}
		return sess.ToggleNote(nums[0]-1, nums[1]-1, nums[2])
	}

	nums, err := parseInts(fields, 3)
	if err != nil {
		return sess.Snapshot(), errUsage
	}
	return sess.EnterValue(nums[0]-1, nums[1]-1, nums[2])
}

func parseInts(fields []string, want int) ([]int, error) {
	if len(fields) != want {
		return nil, fmt.Errorf("want %d numbers", want)
	}
	nums := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		nums[i] = n
	}
	return nums, nil
}

func render(snap game.Snapshot, color, notes bool) {
	g := snap.Grid
	viz := visualizer.NewVisualizer(&g)
	viz.Color = color
	viz.Notes = notes
	viz.SetConflicts(snap.Conflicts)
	viz.Print()

	fmt.Printf("%s  elapsed %s  hints %d\n",
		snap.Difficulty, snap.Elapsed.Round(time.Second), snap.HintsLeft)
	if len(snap.Conflicts) > 0 {
		cells := make([]string, len(snap.Conflicts))
		for i, c := range snap.Conflicts {
			cells[i] = fmt.Sprintf("(%d,%d)", c.Row+1, c.Col+1)
		}
		fmt.Printf("conflicts with %s\n", strings.Join(cells, " "))
	}
}

func finishGame(sess *game.Session, st *store.Store) error {
	snap := sess.Snapshot()
	fmt.Printf("\nSolved! %s on %s.\n", snap.Elapsed.Round(time.Second), snap.Difficulty)

	improved, err := st.RecordWin(snap.Difficulty, snap.Elapsed)
	if err != nil {
		slog.Warn("could not record the win", "error", err)
	} else if improved {
		fmt.Println("New best time!")
	}

	// A finished game has no business lingering in the autosave slot.
	if err := st.Delete(store.AutosaveSlot); err != nil && !errors.Is(err, store.ErrSlotEmpty) {
		slog.Warn("could not clear the autosave", "error", err)
	}
	return nil
}

// manualSaveSlot reads the slot argument of the s command. Slot 0 belongs
// to the autosave, so manual saves only go to the numbered slots.
func manualSaveSlot(fields []string) (int, error) {
	if len(fields) < 2 {
		return 1, nil
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, errors.New("usage: s [slot]")
	}
	if n < 1 || n > store.MaxSlot {
		return 0, fmt.Errorf("save slot must be 1..%d; slot 0 is the autosave", store.MaxSlot)
	}
	return n, nil
}

func putSession(st *store.Store, slot int, sess *game.Session) error {
	payload, err := sess.EncodeSave()
	if err != nil {
		return err
	}
	return st.Put(slot, payload, store.Meta{
		SessionID:  sess.ID(),
		Difficulty: sess.Difficulty(),
		Elapsed:    sess.Elapsed(),
	})
}

func autosave(st *store.Store, sess *game.Session) {
	if err := putSession(st, store.AutosaveSlot, sess); err != nil {
		slog.Warn("autosave failed", "error", err)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
