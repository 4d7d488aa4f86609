package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joy-dx/authnet/dto"
)

// storedToken is the on-disk form of one client's session.
type storedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	ClientID     string    `json:"client_id"`
}

// tokenFile holds sessions for several clients, keyed by client id.
type tokenFile struct {
	Tokens map[string]*storedToken `json:"tokens"`
}

// FileStore persists sessions in a JSON token file shared between processes.
// Writes take a lock file and replace the token file atomically.
type FileStore struct {
	path     string
	clientID string
}

func NewFileStore(path, clientID string) *FileStore {
	return &FileStore{path: path, clientID: clientID}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(ctx context.Context) (dto.TokenInfo, error) {
	tf, err := s.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dto.TokenInfo{}, dto.ErrNoSession
		}
		return dto.TokenInfo{}, err
	}
	st, ok := tf.Tokens[s.clientID]
	if !ok || st == nil || (st.AccessToken == "" && st.RefreshToken == "") {
		return dto.TokenInfo{}, dto.ErrNoSession
	}
	return dto.TokenInfo{
		AccessToken:  st.AccessToken,
		RefreshToken: st.RefreshToken,
		TokenType:    st.TokenType,
		Expiry:       st.ExpiresAt,
	}, nil
}

func (s *FileStore) Set(ctx context.Context, tok dto.TokenInfo) error {
	return s.update(ctx, func(tf *tokenFile) {
		tf.Tokens[s.clientID] = &storedToken{
			AccessToken:  tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			TokenType:    tok.TokenType,
			ExpiresAt:    tok.Expiry,
			ClientID:     s.clientID,
		}
	})
}

// Clear removes this client's entry and keeps the others.
func (s *FileStore) Clear(ctx context.Context) error {
	return s.update(ctx, func(tf *tokenFile) {
		delete(tf.Tokens, s.clientID)
	})
}

func (s *FileStore) load() (*tokenFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if tf.Tokens == nil {
		tf.Tokens = make(map[string]*storedToken)
	}
	return &tf, nil
}

func replaceableLoadErr(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, os.ErrNotExist) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func (s *FileStore) update(ctx context.Context, mutate func(tf *tokenFile)) (err error) {
	if dir := filepath.Dir(s.path); dir != "" {
		if mkErr := os.MkdirAll(dir, 0o700); mkErr != nil {
			return fmt.Errorf("create token directory: %w", mkErr)
		}
	}

	lock, err := acquireFileLock(ctx, s.path)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil && err == nil {
			err = fmt.Errorf("failed to release lock: %w", releaseErr)
		}
	}()

	// A missing or corrupt file is replaced rather than blocking every future
	// login. Any other read error leaves the file and its sessions alone.
	tf, loadErr := s.load()
	if loadErr != nil {
		if !replaceableLoadErr(loadErr) {
			return fmt.Errorf("failed to read token file: %w", loadErr)
		}
		tf = &tokenFile{Tokens: make(map[string]*storedToken)}
	}
	mutate(tf)

	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		if removeErr := os.Remove(tempFile); removeErr != nil {
			return fmt.Errorf("failed to rename temp file: %v; additionally failed to remove temp file: %w", err, removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
