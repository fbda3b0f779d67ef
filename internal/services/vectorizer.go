package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/logger"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
)

type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type profileVectorStore interface {
	AttachVector(ctx context.Context, id int, vector models.Vector) error
}

// ProfileVectorizer turns structured résumé data into the platform's
// fixed-dimension semantic vector. The embedding collaborator is external;
// the vectorizer owns canonicalization, dimension validation and caching.
// Re-embedding bumps the profile's vector version, it never mutates a
// matched profile in place.
type ProfileVectorizer struct {
	embedder  embedder
	profiles  profileVectorStore
	dimension int
	cache     *gocache.Cache
}

func NewProfileVectorizer(embedder embedder, profiles profileVectorStore, cfg config.MatchingConfig) *ProfileVectorizer {
	return &ProfileVectorizer{
		embedder:  embedder,
		profiles:  profiles,
		dimension: cfg.VectorDimension,
		cache:     gocache.New(30*time.Minute, time.Hour),
	}
}

func (v *ProfileVectorizer) Vectorize(ctx context.Context, profile *models.Profile) (models.Vector, error) {

	text := canonicalText(profile)

	contentHash := sha256.Sum256([]byte(text))
	cacheID := hex.EncodeToString(contentHash[:])
	if cached, found := v.cache.Get(cacheID); found {
		vector := cached.(models.Vector)
		return vector, v.profiles.AttachVector(ctx, profile.ID, vector)
	}

	values, err := v.embedder.Embed(ctx, text)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeEmbedAPI).
			Errorf("failed to embed profile %v: %v", profile.ID, err)
		return nil, err
	}

	if len(values) != v.dimension {
		return nil, models.NewValidation("profile_vector", len(values),
			fmt.Sprintf("embedder returned dimension %d, platform requires %d", len(values), v.dimension))
	}

	vector := models.Vector(values).Normalized()

	if err = v.cache.Add(cacheID, vector, gocache.DefaultExpiration); err != nil {
		log.Errorf("failed to cache profile vector: %v", err)
	}

	return vector, v.profiles.AttachVector(ctx, profile.ID, vector)
}

// canonicalText flattens the résumé into the deterministic text the
// embedding is computed over. Field order is fixed so identical résumé
// content always embeds identically.
func canonicalText(profile *models.Profile) string {

	var sb strings.Builder
	sb.WriteString(profile.Summary)

	if len(profile.Skills) > 0 {
		sb.WriteString("\nSkills: ")
		sb.WriteString(strings.Join(profile.SkillNames(), ", "))
	}

	for _, entry := range profile.Experience {
		sb.WriteString(fmt.Sprintf("\n%s at %s", entry.Title, entry.Company))
		for _, bullet := range entry.Bullets {
			sb.WriteString("\n- " + bullet)
		}
	}

	for _, education := range profile.Education {
		sb.WriteString(fmt.Sprintf("\n%s, %s", education.Degree, education.Institution))
	}

	if len(profile.Certifications) > 0 {
		sb.WriteString("\nCertifications: " + strings.Join(profile.Certifications, ", "))
	}

	return sb.String()
}
