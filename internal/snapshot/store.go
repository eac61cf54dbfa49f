package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store persists the most recent snapshot of a session. The last snapshot
// written wins.
type Store interface {
	// Save replaces the stored snapshot
	Save(ctx context.Context, snap GameSnapshot) error
	// Load returns the stored snapshot, or nil if there is none
	Load(ctx context.Context) (*GameSnapshot, error)
	// Delete removes the stored snapshot. Deleting nothing is not an error.
	Delete(ctx context.Context) error
}

// NopStore keeps nothing
type NopStore struct{}

func (NopStore) Save(context.Context, GameSnapshot) error { return nil }
func (NopStore) Load(context.Context) (*GameSnapshot, error) { return nil, nil }
func (NopStore) Delete(context.Context) error { return nil }

// Marshal encodes a snapshot as indented JSON
func Marshal(snap GameSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a snapshot and rejects versions newer than this build
// understands
func Unmarshal(data []byte) (*GameSnapshot, error) {
	var snap GameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.Version > Version {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", snap.Version, Version)
	}
	return &snap, nil
}
