// Package archive publishes generated puzzles to a shared PocketBase
// collection and fetches them back for play.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/habibrosyad/pocketbase-go-sdk"
	"github.com/joho/godotenv"

	"sudoku_game_go/internal/generator"
	"sudoku_game_go/internal/grid"
	"sudoku_game_go/internal/rules"
)

var (
	ErrNotFound    = errors.New("no archived puzzle with that id")
	ErrDuplicateID = errors.New("puzzle id already archived")
)

// DefaultCollection is the PocketBase collection puzzles are stored in.
const DefaultCollection = "puzzles"

const (
	maxIDLen      = 15
	uploadRetries = 4
)

// Config carries the PocketBase connection settings.
type Config struct {
	URL        string
	Email      string
	Password   string
	Collection string
}

// ConfigFromEnv reads the PocketBase settings from the environment, loading
// a .env file first when one is present.
func ConfigFromEnv() Config {
	// A missing .env just means the process environment is used as-is.
	_ = godotenv.Load()
	cfg := Config{
		URL:        os.Getenv("POCKETBASE_URL"),
		Email:      os.Getenv("POCKETBASE_EMAIL"),
		Password:   os.Getenv("POCKETBASE_PASSWORD"),
		Collection: os.Getenv("POCKETBASE_COLLECTION"),
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	return cfg
}

// Entry is the listing view of an archived puzzle.
type Entry struct {
	ID         string
	Difficulty generator.Difficulty
	Clues      int
	Created    string
}

// puzzlePayload is the JSON blob stored in the record's puzzle field. The
// seed lives here rather than in a flat column so it survives as an exact
// int64 instead of a JSON float.
type puzzlePayload struct {
	Givens   [][]int `json:"givens"`
	Solution [][]int `json:"solution"`
	Seed     int64   `json:"seed"`
}

// Client talks to one PocketBase collection.
type Client struct {
	pb         *pocketbase.Client
	collection string
	log        *slog.Logger
}

// New builds a client for the configured PocketBase instance. It does not
// authorize; call Authorize before uploading.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("archive: no PocketBase URL configured")
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}
	return &Client{
		pb:         pocketbase.NewClient(cfg.URL, pocketbase.WithSuperuserEmailPassword(cfg.Email, cfg.Password)),
		collection: collection,
		log:        slog.Default().With(slog.String("component", "archive")),
	}, nil
}

// Authorize authenticates against PocketBase with the configured superuser
// credentials.
func (c *Client) Authorize() error {
	if err := c.pb.Authorize(); err != nil {
		return fmt.Errorf("archive authorization failed: %w", err)
	}
	return nil
}

// KeepAuthorized refreshes the auth token until ctx is cancelled. Superuser
// tokens expire, so long batch runs need the refresh.
func (c *Client) KeepAuthorized(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.pb.Authorize(); err != nil {
					c.log.Warn("re-authorization failed", "error", err)
				}
			}
		}
	}()
}

// NewID returns a short record id derived from a fresh UUID.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// Upload stores a generated puzzle under the given id. Transient failures
// are retried with exponential backoff; client errors are not.
func (c *Client) Upload(id string, p generator.Puzzle) error {
	if id == "" || len(id) > maxIDLen {
		return fmt.Errorf("invalid id %q: must be 1..%d characters", id, maxIDLen)
	}
	exists, err := c.Exists(id)
	if err != nil {
		return fmt.Errorf("check id %s: %w", id, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}

	body, err := json.Marshal(puzzlePayload{
		Givens:   p.Givens.ValueRows(),
		Solution: p.Solution.ValueRows(),
		Seed:     p.Seed,
	})
	if err != nil {
		return fmt.Errorf("marshal puzzle: %w", err)
	}
	data := map[string]any{
		"id":         id,
		"puzzle":     string(body),
		"difficulty": p.Difficulty.String(),
		"clues":      p.Givens.FilledCount(),
	}

	op := func() error {
		if _, err := c.pb.Create(c.collection, data); err != nil {
			if clientError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uploadRetries)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("upload %s: %w", id, err)
	}
	return nil
}

// Get fetches an archived puzzle, ready to hand to a new session. A record
// that decodes to an inconsistent board is refused.
func (c *Client) Get(id string) (generator.Puzzle, error) {
	record, err := c.pb.One(c.collection, id)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return generator.Puzzle{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return generator.Puzzle{}, fmt.Errorf("load %s: %w", id, err)
	}
	return puzzleFromRecord(id, record)
}

// List pages through the archive, newest first. An empty difficulty lists
// every difficulty. The second return is the total match count.
func (c *Client) List(page, perPage int, difficulty string) ([]Entry, int, error) {
	var filters string
	if difficulty != "" {
		d, err := generator.ParseDifficulty(difficulty)
		if err != nil {
			return nil, 0, err
		}
		filters = fmt.Sprintf("difficulty = %q", d.String())
	}

	params := pocketbase.ParamsList{
		Page:    page,
		Size:    perPage,
		Sort:    "-created",
		Filters: filters,
	}
	result, err := c.pb.List(c.collection, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list puzzles: %w", err)
	}

	entries := make([]Entry, 0, len(result.Items))
	for _, record := range result.Items {
		entries = append(entries, entryFromRecord(record))
	}
	return entries, result.TotalItems, nil
}

// Exists reports whether a record with the id is already archived.
func (c *Client) Exists(id string) (bool, error) {
	_, err := c.pb.One(c.collection, id)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// puzzleFromRecord decodes a collection record into a playable puzzle.
// The stored solution must be solved and every given must sit on it;
// an inconsistent record never reaches a session.
func puzzleFromRecord(id string, record map[string]any) (generator.Puzzle, error) {
	raw, _ := record["puzzle"].(string)
	var body puzzlePayload
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return generator.Puzzle{}, fmt.Errorf("record %s: malformed puzzle: %w", id, err)
	}
	givens, err := grid.FromValueRows(body.Givens)
	if err != nil {
		return generator.Puzzle{}, fmt.Errorf("record %s: givens: %w", id, err)
	}
	solution, err := grid.FromValueRows(body.Solution)
	if err != nil {
		return generator.Puzzle{}, fmt.Errorf("record %s: solution: %w", id, err)
	}
	if !rules.IsSolved(&solution) {
		return generator.Puzzle{}, fmt.Errorf("record %s: stored solution is not solved", id)
	}
	for r := 0; r < grid.Size; r++ {
		for col := 0; col < grid.Size; col++ {
			v := givens.Cells[r][col].Value
			if v == 0 {
				continue
			}
			if v != solution.Cells[r][col].Value {
				return generator.Puzzle{}, fmt.Errorf("record %s: given at row %d, col %d disagrees with the solution", id, r, col)
			}
			givens.Cells[r][col].Fixed = true
		}
	}

	d, err := generator.ParseDifficulty(fmt.Sprintf("%v", record["difficulty"]))
	if err != nil {
		return generator.Puzzle{}, fmt.Errorf("record %s: %w", id, err)
	}
	return generator.Puzzle{
		Givens:     givens,
		Solution:   solution,
		Difficulty: d,
		Seed:       body.Seed,
	}, nil
}

func entryFromRecord(record map[string]any) Entry {
	var e Entry
	e.ID, _ = record["id"].(string)
	if s, ok := record["difficulty"].(string); ok {
		if d, err := generator.ParseDifficulty(s); err == nil {
			e.Difficulty = d
		}
	}
	if f, ok := record["clues"].(float64); ok {
		e.Clues = int(f)
	}
	e.Created, _ = record["created"].(string)
	return e
}

// clientError matches PocketBase 4xx responses, which will not succeed on
// retry.
func clientError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "400") || strings.Contains(msg, "403") || strings.Contains(msg, "404")
}
