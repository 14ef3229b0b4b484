package llm

import (
	"context"
	"errors"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/openai/openai-go/shared"
)

// Config describes how the model is called. Each OpenAI value carries its own
// copy so tests and callers can run differently configured sources side by side.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	// Streaming delivers the answer incrementally. When false the full answer
	// arrives as a single fragment.
	Streaming  bool
	MaxRetries int
}

// OpenAI implements TokenSource and Completer on the chat completions API.
type OpenAI struct {
	client openai.Client
	cfg    Config
}

// NewOpenAI constructs an OpenAI source.
func NewOpenAI(cfg Config) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}
}

// Stream opens a chat completion for messages.
func (o *OpenAI) Stream(ctx context.Context, messages []Message) (TokenStream, error) {
	params := o.params(messages, o.cfg.Model, o.cfg.Temperature)

	if !o.cfg.Streaming {
		completion, err := o.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, err
		}
		return &onceStream{text: firstContent(completion)}, nil
	}

	stream := o.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		return nil, err
	}
	return &chunkStream{stream: stream}, nil
}

// Complete runs a non-streaming completion and returns the assistant text.
func (o *OpenAI) Complete(ctx context.Context, messages []Message, opts CompleteOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = o.cfg.Model
	}
	params := o.params(messages, model, opts.Temperature)
	if opts.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	text := firstContent(completion)
	if text == "" {
		return "", errors.New("model returned an empty message")
	}
	return text, nil
}

func (o *OpenAI) params(messages []Message, model string, temperature float64) openai.ChatCompletionNewParams {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    out,
		Temperature: openai.Float(temperature),
	}
}

func firstContent(completion *openai.ChatCompletion) string {
	if completion == nil || len(completion.Choices) == 0 {
		return ""
	}
	return completion.Choices[0].Message.Content
}

type chunkStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *chunkStream) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if !s.stream.Next() {
			if err := s.stream.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}
}

func (s *chunkStream) Close() error {
	return s.stream.Close()
}

type onceStream struct {
	text string
	done bool
}

func (s *onceStream) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.done || s.text == "" {
		return "", io.EOF
	}
	s.done = true
	return s.text, nil
}

func (s *onceStream) Close() error { return nil }
