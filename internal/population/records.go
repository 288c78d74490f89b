// Package population loads agent and location records and builds the
// simulation entities from them.
package population

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LocationRecord is one JSONL line of a locations file.
type LocationRecord struct {
	UUID             int64    `json:"uuid"`
	Type             string   `json:"type"`
	Degree           int      `json:"degree"`
	Nodes            int      `json:"nodes"`
	Transmissibility *float32 `json:"transmissibility,omitempty"`
}

// AgentRecord is one JSONL line of an agents file.
type AgentRecord struct {
	UUID               int64    `json:"uuid"`
	InitialHealthState string   `json:"initial_health_state,omitempty"`
	Locations          []int64  `json:"locations"`
	Susceptibility     *float32 `json:"susceptibility,omitempty"`
	SymptomFactor      *float32 `json:"symptom_factor,omitempty"`
}

const maxLine = 4 << 20

// readJSONL decodes one T per non-blank line. Lines starting with '#' are
// comments.
func readJSONL[T any](r io.Reader, what string) ([]T, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	var out []T
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		var v T
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", what, line, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", what, err)
	}
	return out, nil
}

// ReadLocations parses JSONL location records.
func ReadLocations(r io.Reader) ([]LocationRecord, error) {
	return readJSONL[LocationRecord](r, "locations")
}

// ReadAgents parses JSONL agent records.
func ReadAgents(r io.Reader) ([]AgentRecord, error) {
	return readJSONL[AgentRecord](r, "agents")
}

// ReadLocationsFile opens path and calls ReadLocations.
func ReadLocationsFile(path string) ([]LocationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLocations(f)
}

// ReadAgentsFile opens path and calls ReadAgents.
func ReadAgentsFile(path string) ([]AgentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadAgents(f)
}

// WriteJSONL writes records one per line.
func WriteJSONL[T any](w io.Writer, records []T) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
