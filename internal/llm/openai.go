package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"newsroom/internal/retry"
)

// OpenAIClient calls the OpenAI Chat Completions and Audio Transcriptions APIs.
type OpenAIClient struct {
	model           openai.ChatModel
	transcribeModel openai.AudioModel
	maxAttempts     int
	client          *openai.Client
}

const (
	defaultChatTimeout       = 90 * time.Second
	defaultTranscribeTimeout = 2 * time.Minute
	defaultChatTemperature   = 0.2
	retryBase                = 500 * time.Millisecond
)

// NewOpenAIClient builds a client with defaults against api.openai.com.
// maxAttempts <= 1 disables retries so inference failures surface immediately.
func NewOpenAIClient(apiKey string, model openai.ChatModel, transcribeModel openai.AudioModel, maxAttempts int) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	if transcribeModel == "" {
		transcribeModel = "whisper-1"
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		model:           model,
		transcribeModel: transcribeModel,
		maxAttempts:     maxAttempts,
		client:          &cli,
	}, nil
}

func (c *OpenAIClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultTranscribeTimeout)
	defer cancel()

	var transcript string
	err := retry.Do(reqCtx, c.maxAttempts, retryBase, func() error {
		file, err := os.Open(audioPath)
		if err != nil {
			return err
		}
		defer file.Close()

		resp, err := c.client.Audio.Transcriptions.New(reqCtx, openai.AudioTranscriptionNewParams{
			File:           file,
			Model:          c.transcribeModel,
			ResponseFormat: openai.AudioResponseFormatJSON,
		})
		if err != nil {
			return err
		}
		transcript = strings.TrimSpace(resp.Text)
		if transcript == "" {
			return fmt.Errorf("openai: empty transcription")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return transcript, nil
}

func (c *OpenAIClient) DescribeImage(ctx context.Context, imagePath string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	dataURL, err := imageDataURL(imagePath)
	if err != nil {
		return "", err
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
						{
							OfImageURL: &openai.ChatCompletionContentPartImageParam{
								ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
									URL: dataURL,
								},
							},
						},
						{
							OfText: &openai.ChatCompletionContentPartTextParam{
								Text: "Describe this image in detail.",
							},
						},
					},
				},
			},
		},
	}
	return c.chat(reqCtx, messages)
}

func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()
	return c.chat(reqCtx, buildMessages(system, user))
}

func (c *OpenAIClient) chat(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	var content string
	err := retry.Do(ctx, c.maxAttempts, retryBase, func() error {
		resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:       c.model,
			Messages:    messages,
			Temperature: openai.Float(defaultChatTemperature),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return fmt.Errorf("openai: no choices returned")
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}

// imageDataURL reads the file and encodes it as a base64 data URL for the
// chat content part.
func imageDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := imageMIME(path)
	if mime == "" {
		return "", fmt.Errorf("unsupported image type: %s", filepath.Ext(path))
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
