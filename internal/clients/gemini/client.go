package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type Model string

const (
	//ModelTextEmbedding004 is the current general-purpose text embedding model
	ModelTextEmbedding004 Model = "text-embedding-004"
	//ModelEmbedding001 is the legacy embedding model kept for re-embedding old profiles
	ModelEmbedding001 Model = "embedding-001"
)

// Client wraps the Gemini embedding API behind the embedder contract the
// vectorizer consumes.
type Client struct {
	client            *genai.Client
	model             *genai.EmbeddingModel
	minuteRateLimiter *rate.Limiter
	dayRateLimiter    *rate.Limiter
}

func NewClient(ctx context.Context, apiKey string, model Model) (*Client, error) {

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	embeddingModel := client.EmbeddingModel(string(model))

	service := Client{
		client: client,
		model:  embeddingModel,
	}

	return &service, nil
}

func (c *Client) SetMinuteRateLimit(maxRequestsPerMinute float32) {
	c.minuteRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerMinute/60), 1)
}

func (c *Client) SetDayRateLimit(maxRequestsPerDay float32) {
	c.dayRateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerDay/86400), int(maxRequestsPerDay))
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {

	var values []float32
	var err error

	_, _, _ = lo.AttemptWhileWithDelay(3, 2*time.Second, func(i int, _ time.Duration) (error, bool) {
		if i > 0 {
			log.Warn("gemini api returned 500 error, retrying...")
		}
		values, err = c.waitAndEmbed(ctx, text)
		return err, isInternalError(err)
	})

	return values, err
}

func (c *Client) waitAndEmbed(ctx context.Context, text string) ([]float32, error) {

	limiters := []*rate.Limiter{c.minuteRateLimiter, c.dayRateLimiter}
	for _, limiter := range limiters {
		if limiter != nil {
			err := limiter.Wait(ctx)
			if err != nil {
				return nil, err
			}
		}
	}

	return c.tryEmbed(ctx, text)
}

func (c *Client) tryEmbed(ctx context.Context, text string) ([]float32, error) {

	response, err := c.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	if response.Embedding == nil || len(response.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response contains no values")
	}

	return response.Embedding.Values, nil
}

func isInternalError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "Error 500")
}
