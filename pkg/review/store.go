package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/user/reelsort/pkg/ports"
)

// Store is the durable filename to decision mapping.
// Every Record rewrites the whole file atomically.
type Store struct {
	fs        ports.FileSystem
	path      string
	logger    ports.Logger
	decisions map[string]ports.Decision
}

// OpenStore loads the mapping at path. A missing file is an empty mapping.
func OpenStore(fsys ports.FileSystem, path string, logger ports.Logger) (*Store, error) {
	s := &Store{
		fs:        fsys,
		path:      path,
		logger:    logger.WithComponent("store"),
		decisions: make(map[string]ports.Decision),
	}

	data, err := fsys.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("No decision file at %s, starting empty", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read decisions: %w", err)
	}

	decisions, err := decodeDecisions(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrMalformedMapping, path, err)
	}
	s.decisions = decisions
	s.logger.Debug("Loaded %d decisions from %s", len(decisions), path)
	return s, nil
}

func decodeDecisions(data []byte) (map[string]ports.Decision, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("expected a JSON object")
	}

	decisions := make(map[string]ports.Decision, len(raw))
	for name, value := range raw {
		d, err := ports.ParseDecision(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		decisions[name] = d
	}
	return decisions, nil
}

// Path returns the location of the decision file.
func (s *Store) Path() string { return s.path }

// Has reports whether name has a recorded decision.
func (s *Store) Has(name string) bool {
	_, ok := s.decisions[name]
	return ok
}

// Get returns the recorded decision for name.
func (s *Store) Get(name string) (ports.Decision, bool) {
	d, ok := s.decisions[name]
	return d, ok
}

// Len returns the number of recorded decisions.
func (s *Store) Len() int { return len(s.decisions) }

// Names returns the recorded filenames in order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.decisions))
	for name := range s.decisions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Record sets the decision for name and persists the mapping.
// On failure the in-memory mapping is left as it was.
func (s *Store) Record(name string, d ports.Decision) error {
	if !d.Valid() {
		return fmt.Errorf("record %s: unknown decision %q", name, d)
	}

	previous, existed := s.decisions[name]
	s.decisions[name] = d

	if err := s.save(); err != nil {
		if existed {
			s.decisions[name] = previous
		} else {
			delete(s.decisions, name)
		}
		return err
	}
	return nil
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.decisions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode decisions: %w", err)
	}
	data = append(data, '\n')
	if err := s.fs.WriteFile(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
