// Package auth stores and loads the credentials extracted from a browser session.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNoCredentials is returned when the credential file does not exist.
	ErrNoCredentials = errors.New("no credentials found; run 'slacker login' first")
	// ErrTeamNotFound is returned when the requested team has no stored token.
	ErrTeamNotFound = errors.New("team not found in credential file")
)

// Credentials is the token and session cookie pair shared by every API call.
// Both fields are read-only once loaded.
type Credentials struct {
	Token  string
	Cookie string
}

// TeamEntry holds the token and workspace URL for one signed-in team.
type TeamEntry struct {
	Token string `json:"token"`
	URL   string `json:"url,omitempty"`
}

// File is the on-disk credential format: one browser session cookie shared by
// every team, plus a token per team.
type File struct {
	Cookie      string               `json:"cookie"`
	DefaultTeam string               `json:"default_team,omitempty"`
	Teams       map[string]TeamEntry `json:"teams"`
}

// Load reads the credential file at path.
func Load(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, ErrNoCredentials
		}
		return f, fmt.Errorf("read credential file: %w", err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse credential file: %w", err)
	}
	return f, nil
}

// Save writes the credential file at path with owner-only permissions.
func Save(f File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create credential dir: %w", err)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

// Credentials returns the token and cookie pair for the given team, or for the
// default team (falling back to the only stored team) when team is empty.
func (f File) Credentials(team string) (Credentials, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		team = f.DefaultTeam
	}
	if team == "" && len(f.Teams) == 1 {
		for name := range f.Teams {
			team = name
		}
	}
	entry, ok := f.Teams[team]
	if !ok {
		return Credentials{}, fmt.Errorf("%w: %q", ErrTeamNotFound, team)
	}
	if strings.TrimSpace(entry.Token) == "" || strings.TrimSpace(f.Cookie) == "" {
		return Credentials{}, ErrNoCredentials
	}
	return Credentials{Token: entry.Token, Cookie: f.Cookie}, nil
}

// WorkspaceURL returns the stored workspace URL for the given team, without a
// trailing slash, or empty when unknown.
func (f File) WorkspaceURL(team string) string {
	team = strings.TrimSpace(team)
	if team == "" {
		team = f.DefaultTeam
	}
	if team == "" && len(f.Teams) == 1 {
		for name := range f.Teams {
			team = name
		}
	}
	return strings.TrimRight(f.Teams[team].URL, "/")
}
