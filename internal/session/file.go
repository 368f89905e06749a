package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"ecommerce-storefront/internal/models"
)

// fileRecord is the on-disk shape: the two persisted keys in one document.
type fileRecord struct {
	AccessToken string          `json:"access_token,omitempty"`
	Cart        json.RawMessage `json:"cart,omitempty"`
}

// FileStore keeps the session in a single JSON file. Writes go through a
// temp file and rename so a crash never leaves a half-written record.
type FileStore struct {
	Path string
	Log  zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{Path: path, Log: log}
}

func (s *FileStore) Load() (Session, error) {
	sess := Session{Cart: []models.CartItem{}}

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return sess, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session file: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.Log.Warn().Err(err).Str("path", s.Path).Msg("malformed session file, starting empty")
		return sess, nil
	}
	sess.Token = rec.AccessToken

	if len(rec.Cart) > 0 {
		var cart []models.CartItem
		if err := json.Unmarshal(rec.Cart, &cart); err != nil {
			s.Log.Warn().Err(err).Msg("malformed persisted cart, starting empty")
		} else if cart != nil {
			sess.Cart = cart
		}
	}
	return sess, nil
}

func (s *FileStore) SaveToken(token string) error {
	return s.update(func(rec *fileRecord) {
		rec.AccessToken = token
	})
}

func (s *FileStore) ClearToken() error {
	return s.update(func(rec *fileRecord) {
		rec.AccessToken = ""
	})
}

func (s *FileStore) SaveCart(cart []models.CartItem) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return s.update(func(rec *fileRecord) {
		rec.Cart = data
	})
}

func (s *FileStore) ClearCart() error {
	return s.update(func(rec *fileRecord) {
		rec.Cart = nil
	})
}

// update reads the current record, applies fn and writes it back. A
// malformed existing record is discarded rather than propagated, same as
// on Load.
func (s *FileStore) update(fn func(*fileRecord)) error {
	var rec fileRecord
	if data, err := os.ReadFile(s.Path); err == nil {
		if err := json.Unmarshal(data, &rec); err != nil {
			s.Log.Warn().Err(err).Msg("discarding malformed session file on write")
			rec = fileRecord{}
		}
	}
	fn(&rec)

	out, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
