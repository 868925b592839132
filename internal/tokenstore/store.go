// Package tokenstore is the flat JSON file cache of token lists, keyed by
// (protocol, chain id).
//
// Reads always re-load from disk so concurrent processes and admin
// refreshes are picked up immediately; no in-memory cache is retained
// between calls. Writes are plain read-modify-write with last-writer-wins
// semantics; refreshes are rare, manual, and idempotent, so the store
// does not take a file lock.
package tokenstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/logging"
)

// fileData is the on-disk shape: protocol -> chainId (decimal string) -> tokens.
type fileData map[string]map[string][]domain.Token

// Store reads and writes the token cache file.
type Store struct {
	path string
	log  *logging.Logger
}

// New creates a store backed by the file at path. The file does not need
// to exist yet; an empty store is returned until the first refresh.
func New(path string, log *logging.Logger) *Store {
	return &Store{path: path, log: log.Sub("tokenstore")}
}

// Get returns the token list for a protocol and chain. A missing file or
// missing key yields an empty slice, not an error.
func (s *Store) Get(protocol string, chainID int64) ([]domain.Token, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}
	byChain, ok := data[protocol]
	if !ok {
		return nil, nil
	}
	return byChain[strconv.FormatInt(chainID, 10)], nil
}

// Update replaces the token list for one (protocol, chain) key and writes
// the whole file back.
func (s *Store) Update(protocol string, chainID int64, tokens []domain.Token) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	if data[protocol] == nil {
		data[protocol] = make(map[string][]domain.Token)
	}
	data[protocol][strconv.FormatInt(chainID, 10)] = tokens
	return s.save(data)
}

func (s *Store) load() (fileData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn().Str("path", s.path).Msg("token store file not found, starting empty")
			return fileData{}, nil
		}
		return nil, fmt.Errorf("reading token store: %w", err)
	}
	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing token store: %w", err)
	}
	if data == nil {
		data = fileData{}
	}
	return data, nil
}

func (s *Store) save(data fileData) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating token store dir: %w", err)
		}
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token store: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing token store: %w", err)
	}
	return nil
}
