package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"CoreTaxSentiment/internal/domain"
)

// Artifact is the persisted topic model: parameters, topic terms and centroids.
type Artifact struct {
	CreatedAt      time.Time      `json:"createdAt"`
	EmbeddingModel string         `json:"embeddingModel"`
	Label          string         `json:"label"`
	Documents      int            `json:"documents"`
	Params         Options        `json:"params"`
	Topics         []domain.Topic `json:"topics"`
	Hierarchy      *Node          `json:"hierarchy,omitempty"`
}

// SaveArtifact writes a as indented JSON, creating parent directories.
func SaveArtifact(path string, a Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal topic model: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write topic model: %w", err)
	}
	return nil
}

// LoadArtifact reads a model saved by SaveArtifact.
func LoadArtifact(path string) (Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("read topic model: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return Artifact{}, fmt.Errorf("decode topic model: %w", err)
	}
	return a, nil
}
