// Package store persists the term to image association.
//
// Every backend re-reads persisted state on each call and keeps nothing
// across calls; atomicity of a single write is whatever the backing storage
// gives (a row upsert, a hash field write). No backend stores a zero image id.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// DefaultMetaKey names the per-term metadata entry and the Redis hash.
	DefaultMetaKey = "taxonomy_term_image"
	// DefaultOptionName names the legacy serialized mapping.
	DefaultOptionName = "custom_taxonomy_term_images"
)

// ErrZeroImage is returned by Set for image id zero, which means "no image".
var ErrZeroImage = errors.New("image id must be positive")

// Store maps a term to at most one image.
type Store interface {
	// Get returns the image associated with termID; ok is false when none is.
	Get(ctx context.Context, termID uint) (imageID uint, ok bool, err error)
	// GetMany returns the associations that exist among termIDs.
	GetMany(ctx context.Context, termIDs []uint) (map[uint]uint, error)
	// Set associates imageID with termID, replacing any previous image.
	Set(ctx context.Context, termID, imageID uint) error
	// Remove deletes the association of termID. Removing nothing is not an error.
	Remove(ctx context.Context, termID uint) error
}

// Options carries the collaborators and key names a backend may need.
type Options struct {
	DB         *gorm.DB
	Redis      redis.Cmdable
	MetaKey    string
	OptionName string
}

// New builds the backend named by kind: "meta", "option", "redis" or "memory".
func New(kind string, opts Options) (Store, error) {
	if opts.MetaKey == "" {
		opts.MetaKey = DefaultMetaKey
	}
	if opts.OptionName == "" {
		opts.OptionName = DefaultOptionName
	}

	switch kind {
	case "meta", "":
		if opts.DB == nil {
			return nil, errors.New("meta store requires a database")
		}
		return NewMetaStore(opts.DB, opts.MetaKey), nil
	case "option":
		if opts.DB == nil {
			return nil, errors.New("option store requires a database")
		}
		return NewOptionStore(opts.DB, opts.OptionName), nil
	case "redis":
		if opts.Redis == nil {
			return nil, errors.New("redis store requires a redis client")
		}
		return NewRedisStore(opts.Redis, opts.MetaKey), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
