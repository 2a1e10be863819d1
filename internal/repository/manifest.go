package repository

import (
	"encoding/json"
	"os"

	"CoinSight/internal/domain/models"
	xhttp "CoinSight/pkg/http"
)

// JSONManifestReader reads the offline results manifest from disk on every
// lookup. The manifest is produced by the training pipeline; this system
// never writes it.
type JSONManifestReader struct {
	path string
}

func NewJSONManifestReader(path string) *JSONManifestReader {
	return &JSONManifestReader{path: path}
}

// Entry returns the manifest record for the pair. A missing manifest file
// and a missing key are client-correctable not-found conditions; anything
// else is a malformed manifest.
func (r *JSONManifestReader) Entry(symbol string, modelID int) (*models.ManifestEntry, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, xhttp.BadRequestError("results manifest not found").WithCode("ERR_NOT_FOUND")
	}
	if err != nil {
		return nil, xhttp.InternalError("could not read results manifest").WithError(err)
	}

	var manifest map[string]*models.ManifestEntry
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, xhttp.InternalError("malformed results manifest").WithError(err)
	}

	key := models.ModelKey(symbol, modelID)
	entry, ok := manifest[key]
	if !ok || entry == nil {
		return nil, xhttp.BadRequestErrorf("details for %s not found", key).WithCode("ERR_NOT_FOUND")
	}
	return entry, nil
}
