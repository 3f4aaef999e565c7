// Package cache stores encoded renders on disk so identical requests are not
// traced twice.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/dgraph-io/badger"
	"github.com/golang/glog"
	"golang.org/x/xerrors"
)

// ErrMiss is returned by Get when nothing is stored under the key
var ErrMiss = xerrors.New("render not cached")

const keyPrefix = "render/"

// Store is a badger-backed map from render keys to encoded images
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) the cache in dir
func Open(dir string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(glogLogger{}))
	if err != nil {
		return nil, xerrors.Errorf("while opening badger kv dir: %w", err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return xerrors.Errorf("while closing badger kv: %w", err)
	}
	return nil
}

// Get returns a copy of the data stored under key, or ErrMiss
func (s *Store) Get(key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if xerrors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrMiss
	} else if err != nil {
		return nil, xerrors.Errorf("while reading cache entry %s: %w", key, err)
	}
	return data, nil
}

// Put stores data under key, replacing any previous entry
func (s *Store) Put(key string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})
	if err != nil {
		return xerrors.Errorf("while writing cache entry %s: %w", key, err)
	}
	return nil
}

// Key identifies a render by everything that changes its pixels: the scene
// description, the image size, the sampling settings (except the worker
// count) and the output format.
func Key(sceneYAML []byte, width, height int, config renderer.SamplingConfig, format string) string {
	h := sha256.New()
	h.Write(sceneYAML)
	fmt.Fprintf(h, "\x00%dx%d spp=%d depth=%d tile=%d seed=%d format=%s",
		width, height, config.SamplesPerPixel, config.MaxDepth, config.TileSize, config.Seed, format)
	return hex.EncodeToString(h.Sum(nil))
}

// glogLogger routes badger's logging into glog
type glogLogger struct{}

func (glogLogger) Errorf(format string, args ...interface{})   { glog.Errorf(format, args...) }
func (glogLogger) Warningf(format string, args ...interface{}) { glog.Warningf(format, args...) }
func (glogLogger) Infof(format string, args ...interface{})    { glog.V(1).Infof(format, args...) }
func (glogLogger) Debugf(format string, args ...interface{})   { glog.V(3).Infof(format, args...) }
