package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// FileTokenSource refreshes tokens through an oauth2.Config and writes every
// new token back to a JSON file, so refreshes survive restarts.
type FileTokenSource struct {
	path string
	base oauth2.TokenSource

	mu   sync.Mutex
	last string
}

// NewFileTokenSource loads the token stored at path.
// A missing or unreadable token file is domain.ErrAuthRequired.
func NewFileTokenSource(ctx context.Context, cfg *oauth2.Config, path string) (*FileTokenSource, error) {
	tok, err := ReadToken(path)
	if err != nil {
		return nil, err
	}
	return &FileTokenSource{
		path: path,
		base: cfg.TokenSource(ctx, tok),
		last: tok.AccessToken,
	}, nil
}

// Token implements oauth2.TokenSource.
func (s *FileTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token: %v", domain.ErrAuthRequired, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := WriteToken(s.path, tok); err != nil {
			// The refreshed token is still usable for this process.
			logger.Warn("google: persist refreshed token: %v", err)
		} else {
			logger.Debug("google: refreshed token saved to %s", s.path)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

// ReadToken reads a JSON-encoded oauth2 token.
func ReadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read token %s: %v", domain.ErrAuthRequired, path, err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("%w: decode token %s: %v", domain.ErrAuthRequired, path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token %s is empty", domain.ErrAuthRequired, path)
	}
	return &tok, nil
}

// WriteToken writes tok atomically with owner-only permissions.
func WriteToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace token: %w", err)
	}
	return nil
}
