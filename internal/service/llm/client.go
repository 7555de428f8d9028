package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"docchat/internal/config"
)

// Streamer produces an ordered, finite sequence of completion fragments for a
// prompt. Handlers depend on this interface so tests can substitute a
// scripted implementation.
type Streamer interface {
	StreamComplete(ctx context.Context, prompt string, chunkFn func(string) error) error
}

// Client is the process-wide handle to the generative provider, constructed
// once at startup and injected into handlers.
type Client struct {
	chatModel model.ToolCallingChatModel
	logger    *zap.SugaredLogger
}

// NewClient builds the chat model for the configured provider. The credential
// must already be resolved; a rejected or missing credential fails here so
// the process never serves traffic without a working upstream.
func NewClient(ctx context.Context, cfg config.ProviderConfig, logger *zap.SugaredLogger) (*Client, error) {
	var chatModel model.ToolCallingChatModel
	var err error

	switch cfg.Name {
	case "gemini":
		client, cerr := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.APIKey,
		})
		if cerr != nil {
			return nil, fmt.Errorf("create gemini client: %w", cerr)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.Model,
		})
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		})
	case "claude":
		var baseURLPtr *string
		if cfg.BaseURL != "" {
			baseURLPtr = &cfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", cfg.Name, err)
	}

	return &Client{chatModel: chatModel, logger: logger}, nil
}

// StreamComplete submits the prompt as a single user message and forwards
// each fragment to chunkFn in generation order. The sequence is finite and
// not restartable; cancelling ctx stops consumption of the upstream stream.
// An error from chunkFn aborts the relay and is returned unchanged.
func (c *Client) StreamComplete(ctx context.Context, prompt string, chunkFn func(string) error) error {
	messages := []*schema.Message{
		{
			Role:    schema.User,
			Content: prompt,
		},
	}
	streamReader, err := c.chatModel.Stream(ctx, messages)
	if err != nil {
		return fmt.Errorf("open model stream: %w", err)
	}
	defer streamReader.Close()

	for {
		chunk, err := streamReader.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("receive model chunk: %w", err)
		}
		if chunk.Content == "" {
			continue
		}
		if chunkFn != nil {
			if err := chunkFn(chunk.Content); err != nil {
				return err
			}
		}
	}
}
