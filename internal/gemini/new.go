package gemini

import (
	"context"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/caption-lens/internal/config"
	"github.com/nguyentantai21042004/caption-lens/internal/logger"
)

type implAnalyzer struct {
	apiKeys     []string
	model       string
	temperature float32
	timeout     time.Duration
	logger      logger.Logger
	newClient   clientFactory

	mu         sync.Mutex
	currentKey int
	clients    map[string]contentGenerator
}

// New creates an Analyzer that rotates through the configured Gemini API keys.
func New(cfg *config.Config, log logger.Logger) Analyzer {
	return newAnalyzer(cfg, log, newGenaiClient)
}

func newAnalyzer(cfg *config.Config, log logger.Logger, factory clientFactory) *implAnalyzer {
	return &implAnalyzer{
		apiKeys:     cfg.Gemini.APIKeys,
		model:       cfg.Gemini.Model,
		temperature: cfg.Gemini.Temperature,
		timeout:     cfg.Gemini.Timeout,
		logger:      log,
		newClient:   factory,
		clients:     make(map[string]contentGenerator),
	}
}

func newGenaiClient(ctx context.Context, apiKey string) (contentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}
