package update

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

type sessionState struct {
	UserID string `json:"user_id"`
}

func (m *Model) persistSessionState() error {
	if strings.TrimSpace(m.stateFilePath) == "" {
		return nil
	}
	dir := filepath.Dir(m.stateFilePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(sessionState{UserID: m.UserID}, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.stateFilePath + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.stateFilePath)
}

func loadSessionState(path string) (sessionState, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return sessionState{}, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return sessionState{}, nil
		}
		return sessionState{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return sessionState{}, nil
	}
	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return sessionState{}, err
	}
	state.UserID = strings.TrimSpace(state.UserID)
	return state, nil
}
