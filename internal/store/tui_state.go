package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state for restoring the last screen on relaunch.
//
// Callers should tolerate missing/invalid data: a corrupt file reads as the default state.
type TUIState struct {
	Version int `json:"version"`

	// Filter is the last search text typed into the task filter.
	Filter string `json:"filter,omitempty"`

	// SelectedTaskID is restored as the cursor position when the task still exists.
	SelectedTaskID string `json:"selectedTaskId,omitempty"`
}

// StateDir scopes TUI state files to a directory (normally the config dir).
type StateDir struct {
	Dir string
}

func (s StateDir) path() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s StateDir) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s StateDir) SaveTUIState(st *TUIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(s.path(), b, 0o600)
}
