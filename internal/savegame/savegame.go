// Package savegame converts engine snapshots to and from the persisted JSON
// document and its base64 export code.
package savegame

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/space-colonies/internal/economy"
)

// Version is written into every document.
const Version = 2

var (
	// ErrEmpty is returned when there is nothing to decode.
	ErrEmpty = errors.New("savegame: empty payload")
	// ErrMalformed wraps every decoding failure.
	ErrMalformed = errors.New("savegame: malformed payload")
)

// Document is the JSON shape of a save. Unknown fields are ignored and
// missing ones decode to zero values.
type Document struct {
	Version             int                      `json:"version"`
	Catalog             string                   `json:"catalog,omitempty"`
	Resources           map[string]ResourceEntry `json:"resources"`
	Upgrades            []LevelEntry             `json:"upgrades"`
	PrestigeUpgrades    []LevelEntry             `json:"prestigeUpgrades"`
	PrestigePoints      int64                    `json:"prestigePoints"`
	SpentPrestigePoints int64                    `json:"spentPrestigePoints"`
	Lifetime            Lifetime                 `json:"lifetime"`
	LastOnline          Timestamp                `json:"lastOnline,omitzero"`
}

type ResourceEntry struct {
	Amount         float64 `json:"amount"`
	TotalEarned    float64 `json:"totalEarned"`
	LifetimeEarned float64 `json:"lifetimeEarned"`
}

type LevelEntry struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

type Lifetime struct {
	TotalClicks   int64     `json:"totalClicks"`
	PrestigeCount int       `json:"prestigeCount"`
	StartTime     Timestamp `json:"startTime,omitzero"`
}

// FromSnapshot converts an engine snapshot to a document.
func FromSnapshot(s economy.Snapshot) Document {
	doc := Document{
		Version:             Version,
		Catalog:             s.Catalog,
		Resources:           make(map[string]ResourceEntry, len(s.Resources)),
		Upgrades:            make([]LevelEntry, 0, len(s.Upgrades)),
		PrestigeUpgrades:    make([]LevelEntry, 0, len(s.PrestigeUpgrades)),
		PrestigePoints:      s.PrestigePoints,
		SpentPrestigePoints: s.SpentPrestigePoints,
		Lifetime: Lifetime{
			TotalClicks:   s.TotalClicks,
			PrestigeCount: s.PrestigeCount,
			StartTime:     Timestamp{s.StartTime},
		},
		LastOnline: Timestamp{s.LastOnline},
	}
	for id, r := range s.Resources {
		doc.Resources[id] = ResourceEntry(r)
	}
	for _, u := range s.Upgrades {
		doc.Upgrades = append(doc.Upgrades, LevelEntry(u))
	}
	for _, p := range s.PrestigeUpgrades {
		doc.PrestigeUpgrades = append(doc.PrestigeUpgrades, LevelEntry(p))
	}
	return doc
}

// Snapshot converts a document back to an engine snapshot.
func (d Document) Snapshot() economy.Snapshot {
	s := economy.Snapshot{
		Catalog:             d.Catalog,
		Resources:           make(map[string]economy.ResourceState, len(d.Resources)),
		PrestigePoints:      d.PrestigePoints,
		SpentPrestigePoints: d.SpentPrestigePoints,
		TotalClicks:         d.Lifetime.TotalClicks,
		PrestigeCount:       d.Lifetime.PrestigeCount,
		StartTime:           d.Lifetime.StartTime.Time,
		LastOnline:          d.LastOnline.Time,
	}
	for id, r := range d.Resources {
		s.Resources[id] = economy.ResourceState(r)
	}
	for _, u := range d.Upgrades {
		s.Upgrades = append(s.Upgrades, economy.LevelEntry(u))
	}
	for _, p := range d.PrestigeUpgrades {
		s.PrestigeUpgrades = append(s.PrestigeUpgrades, economy.LevelEntry(p))
	}
	return s
}

// Marshal encodes a snapshot as JSON.
func Marshal(s economy.Snapshot) ([]byte, error) {
	data, err := json.Marshal(FromSnapshot(s))
	if err != nil {
		return nil, fmt.Errorf("savegame: cannot marshal: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON save.
func Unmarshal(data []byte) (economy.Snapshot, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return economy.Snapshot{}, ErrEmpty
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return economy.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc.Snapshot(), nil
}

// Encode produces the export code: base64 of the JSON document.
func Encode(s economy.Snapshot) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode parses an export code. Surrounding whitespace is ignored.
func Decode(code string) (economy.Snapshot, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return economy.Snapshot{}, ErrEmpty
	}
	data, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return economy.Snapshot{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return Unmarshal(data)
}

// Timestamp is written as RFC 3339 with nanoseconds and its UTC offset.
// Version 1 documents stored unix milliseconds; those still decode, in UTC.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts an RFC 3339 string or a number of unix milliseconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || data[0] == '"' {
		return t.Time.UnmarshalJSON(data)
	}
	if string(data) == "null" {
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if ms > 0 {
		t.Time = time.UnixMilli(ms).UTC()
	}
	return nil
}
