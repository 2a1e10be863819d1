package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"CoinSight/internal/domain/models"
	"CoinSight/internal/service/ml"
	"CoinSight/pkg/cache"
	xhttp "CoinSight/pkg/http"
)

// FileArtifactStore loads model artifacts from a directory by naming
// convention. Artifacts are immutable once deployed, so the optional byte
// cache can never serve stale weights.
type FileArtifactStore struct {
	dir      string
	cache    cache.Service
	cacheTTL time.Duration
}

// NewFileArtifactStore creates a store rooted at dir. cacheSvc may be nil,
// in which case every request pays the full load cost.
func NewFileArtifactStore(dir string, cacheSvc cache.Service, ttl time.Duration) *FileArtifactStore {
	return &FileArtifactStore{dir: dir, cache: cacheSvc, cacheTTL: ttl}
}

// Path resolves the artifact file path for a (symbol, model id) pair.
func (s *FileArtifactStore) Path(symbol string, modelID int) string {
	return filepath.Join(s.dir, models.ArtifactFileName(symbol, modelID))
}

// Load reads and deserializes the artifact for the pair.
func (s *FileArtifactStore) Load(ctx context.Context, symbol string, modelID int) (*ml.Network, error) {
	data, err := s.readBytes(ctx, symbol, modelID)
	if err != nil {
		return nil, err
	}

	network, err := ml.Decode(data)
	if err != nil {
		return nil, xhttp.InternalErrorf("could not deserialize model %s", models.ArtifactFileName(symbol, modelID)).WithError(err)
	}
	return network, nil
}

func (s *FileArtifactStore) readBytes(ctx context.Context, symbol string, modelID int) ([]byte, error) {
	key := cache.Key("artifact", symbol, modelID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			return data, nil
		}
	}

	path := s.Path(symbol, modelID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, xhttp.BadRequestErrorf("model %s not found", models.ArtifactFileName(symbol, modelID)).WithCode("ERR_NOT_FOUND")
	}
	if err != nil {
		return nil, xhttp.InternalError("could not read model artifact").WithError(fmt.Errorf("read %s: %w", path, err))
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	return data, nil
}
