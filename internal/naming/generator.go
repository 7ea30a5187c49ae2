// Package naming produces unique object names for stored image files.
package naming

import (
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/ksuid"
)

// Generator returns a fresh unique name on every call.
type Generator interface {
	Generate() (string, error)
}

// New returns the generator registered under kind.
func New(kind string) (Generator, error) {
	switch strings.ToLower(kind) {
	case "", "uuid":
		return UUIDGenerator{}, nil
	case "ulid":
		return ULIDGenerator{}, nil
	case "ksuid":
		return KSUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("unsupported name generator: %s", kind)
	}
}

// UUIDGenerator yields 32 lowercase hex characters (a v4 UUID without dashes).
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %w", err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

// ULIDGenerator yields lexicographically sortable ULIDs.
type ULIDGenerator struct{}

func (ULIDGenerator) Generate() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return strings.ToLower(id.String()), nil
}

// KSUIDGenerator yields K-sortable KSUIDs.
type KSUIDGenerator struct{}

func (KSUIDGenerator) Generate() (string, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate KSUID: %w", err)
	}
	return id.String(), nil
}

// ObjectKey joins prefix and a generated name, keeping the extension of
// originalName (".png" of "cat.PNG" is kept as ".PNG").
func ObjectKey(g Generator, prefix, originalName string) (string, error) {
	name, err := g.Generate()
	if err != nil {
		return "", err
	}
	name += filepath.Ext(filepath.Base(originalName))
	if prefix == "" {
		return name, nil
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name, nil
}
