package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	historyFile = "history.json"

	// MaxHistory is the number of prompts kept; older entries are dropped.
	MaxHistory = 100
)

// HistoryEntry is one prompt submitted to the generator.
type HistoryEntry struct {
	Prompt string    `json:"prompt"`
	Model  string    `json:"model"`
	At     time.Time `json:"at"`
}

// LoadHistory loads prompt history from a target .uigen/history.json,
// oldest first. Returns nil, nil if no history exists.
// If overrideDir is non-empty, it is used instead of the default location.
func (m *Manager) LoadHistory(overrideDir string) ([]HistoryEntry, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, historyFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}

	return entries, nil
}

// AppendHistory adds entry to the history file, trimming it to MaxHistory.
func (m *Manager) AppendHistory(entry HistoryEntry, overrideDir string) error {
	if entry.Prompt == "" {
		return errors.New("cannot record empty prompt")
	}

	entries, err := m.LoadHistory(overrideDir)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > MaxHistory {
		entries = entries[len(entries)-MaxHistory:]
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, historyFile), data, 0o600); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}

	return nil
}

// ClearHistory removes the history file. Returns nil if it doesn't exist.
func (m *Manager) ClearHistory(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, historyFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing history: %w", err)
	}

	return nil
}
