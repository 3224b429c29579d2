// Package auth stores per-domain authentication material: Netscape cookie
// files or username/password pairs, one kind per domain at a time.
package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"oxyget/internal/entity"
	"oxyget/internal/errs"
)

const (
	dirName   = "auth"
	indexFile = "auth.json"
	passFile  = "pass.json"
	cookieExt = ".cookie"
)

// Store keeps the auth index in memory and the material on disk under
// <config root>/auth.
type Store struct {
	mu    sync.Mutex
	dir   string
	log   *slog.Logger
	index map[string]entity.AuthKind
	creds map[string]entity.Credentials
}

// New opens or initializes the auth directory.
func New(log *slog.Logger, configRoot string) (*Store, error) {
	s := &Store{
		dir:   filepath.Join(configRoot, dirName),
		log:   log.With(slog.String("package", "auth")),
		index: make(map[string]entity.AuthKind),
		creds: make(map[string]entity.Credentials),
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create auth dir: %w", err)
	}

	if err := readJSON(filepath.Join(s.dir, indexFile), &s.index); err != nil {
		return nil, fmt.Errorf("load auth index: %w", err)
	}

	if err := readJSON(filepath.Join(s.dir, passFile), &s.creds); err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	return s, nil
}

// SaveCookie stores a cookie file for the domain, replacing any stored
// credentials for it.
func (s *Store) SaveCookie(domain string, data []byte) error {
	domain = normalize(domain)
	if domain == "" {
		return errs.ErrInvalidURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.cookiePath(domain), data, 0o600); err != nil {
		return fmt.Errorf("write cookie file: %w", err)
	}

	delete(s.creds, domain)
	s.index[domain] = entity.AuthCookie

	if err := s.persist(); err != nil {
		return err
	}

	s.log.Info("cookie saved", slog.String("domain", domain))

	return nil
}

// SaveCredentials stores a username/password pair for the domain, replacing
// any stored cookie file for it.
func (s *Store) SaveCredentials(domain string, creds entity.Credentials) error {
	domain = normalize(domain)
	if domain == "" {
		return errs.ErrInvalidURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := removeIfExists(s.cookiePath(domain)); err != nil {
		return fmt.Errorf("remove cookie file: %w", err)
	}

	s.creds[domain] = creds
	s.index[domain] = entity.AuthCredentials

	if err := s.persist(); err != nil {
		return err
	}

	s.log.Info("credentials saved", slog.String("domain", domain), slog.Any("credentials", creds))

	return nil
}

// CookiePath reports the cookie file path for the domain, if one is stored.
func (s *Store) CookiePath(domain string) (string, bool) {
	domain = normalize(domain)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index[domain] != entity.AuthCookie {
		return "", false
	}

	return s.cookiePath(domain), true
}

// Credentials reports the stored username/password pair for the domain, if
// one is stored.
func (s *Store) Credentials(domain string) (entity.Credentials, bool) {
	domain = normalize(domain)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index[domain] != entity.AuthCredentials {
		return entity.Credentials{}, false
	}

	return s.creds[domain], true
}

// Delete removes whatever material is stored for the domain.
func (s *Store) Delete(domain string) error {
	domain = normalize(domain)

	s.mu.Lock()
	defer s.mu.Unlock()

	kind, ok := s.index[domain]
	if !ok {
		return errs.ErrAuthEntryNotFound
	}

	if kind == entity.AuthCookie {
		if err := removeIfExists(s.cookiePath(domain)); err != nil {
			return fmt.Errorf("remove cookie file: %w", err)
		}
	}

	delete(s.creds, domain)
	delete(s.index, domain)

	if err := s.persist(); err != nil {
		return err
	}

	s.log.Info("auth entry deleted", slog.String("domain", domain), slog.String("kind", string(kind)))

	return nil
}

// List returns all stored entries sorted by domain.
func (s *Store) List() []entity.AuthEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]entity.AuthEntry, 0, len(s.index))
	for domain, kind := range s.index {
		entries = append(entries, entity.AuthEntry{Domain: domain, Kind: kind})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Domain < entries[j].Domain })

	return entries
}

func (s *Store) cookiePath(domain string) string {
	return filepath.Join(s.dir, domain+cookieExt)
}

// persist writes the index and credential files. Callers hold s.mu.
func (s *Store) persist() error {
	if err := writeJSON(filepath.Join(s.dir, indexFile), s.index); err != nil {
		return fmt.Errorf("write auth index: %w", err)
	}

	if err := writeJSON(filepath.Join(s.dir, passFile), s.creds); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}

	return nil
}

func normalize(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))

	return strings.TrimPrefix(domain, "www.")
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
