package engine

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/ghost-hunter/internal/logger"
	"github.com/tatianab/ghost-hunter/internal/models"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/spectral_analysis.txt
var spectralAnalysisPrompt string

//go:embed prompts/splash_image.txt
var splashImagePrompt string

// SplashAspectRatio is the shape requested for the title image.
const SplashAspectRatio = "16:9"

var (
	// ErrOffline is returned by Offline for every call.
	ErrOffline = errors.New("oracle is offline: GEMINI_API_KEY is not set")
	// ErrNoContent means Gemini answered without a usable part.
	ErrNoContent = errors.New("no content returned from Gemini")
)

var (
	analysisTmpl = template.Must(template.New("spectral_analysis").Parse(spectralAnalysisPrompt))
	splashTmpl   = template.Must(template.New("splash_image").Parse(splashImagePrompt))
)

// Image is an encoded picture returned by the image model.
type Image struct {
	MIMEType string
	Data     []byte
}

// Engine asks Gemini for wave flavor text and the title image.
type Engine struct {
	client   *genai.Client
	analysis *genai.GenerativeModel
	image    *genai.GenerativeModel
}

func NewEngine(ctx context.Context, apiKey, analysisModel, imageModel string) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	analysis := client.GenerativeModel(analysisModel)
	analysis.ResponseMIMEType = "application/json"
	analysis.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"riskLevel": {Type: genai.TypeString},
			"strategy":  {Type: genai.TypeString},
			"lore":      {Type: genai.TypeString},
		},
		Required: []string{"riskLevel", "strategy", "lore"},
	}

	return &Engine{
		client:   client,
		analysis: analysis,
		image:    client.GenerativeModel(imageModel),
	}, nil
}

func (e *Engine) Close() {
	e.client.Close()
}

// SpectralAnalysis describes the given wave. Any failure, including a reply
// missing one of the three fields, is returned as an error.
func (e *Engine) SpectralAnalysis(ctx context.Context, wave int) (models.SpectralAnalysis, error) {
	prompt, err := render(analysisTmpl, struct{ Wave int }{Wave: wave})
	if err != nil {
		return models.SpectralAnalysis{}, err
	}

	resp, err := e.analysis.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.SpectralAnalysis{}, err
	}

	text, err := firstText(resp)
	if err != nil {
		return models.SpectralAnalysis{}, err
	}
	return parseAnalysis(text)
}

// SplashImage generates the title image. There is no retry.
func (e *Engine) SplashImage(ctx context.Context, prompt string) (*Image, error) {
	full, err := render(splashTmpl, struct{ Prompt, AspectRatio string }{prompt, SplashAspectRatio})
	if err != nil {
		return nil, err
	}

	resp, err := e.image.GenerateContent(ctx, genai.Text(full))
	if err != nil {
		return nil, err
	}
	return firstImage(resp)
}

// Offline stands in for Engine when no API key is configured.
type Offline struct{}

func (Offline) SpectralAnalysis(context.Context, int) (models.SpectralAnalysis, error) {
	return models.SpectralAnalysis{}, ErrOffline
}

func (Offline) SplashImage(context.Context, string) (*Image, error) {
	return nil, ErrOffline
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoContent
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini: %T", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

func firstImage(resp *genai.GenerateContentResponse) (*Image, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoContent
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return &Image{MIMEType: blob.MIMEType, Data: blob.Data}, nil
		}
	}
	return nil, ErrNoContent
}

// parseAnalysis accepts the JSON object the model was asked for, with or
// without a surrounding code fence. JSON is valid YAML, so one decoder
// covers both the schema-constrained reply and a chatty one.
func parseAnalysis(text string) (models.SpectralAnalysis, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var a models.SpectralAnalysis
	if err := yaml.Unmarshal([]byte(clean), &a); err != nil {
		return models.SpectralAnalysis{}, fmt.Errorf("failed to parse analysis: %w\nOutput was: %s", err, clean)
	}
	if !a.Complete() {
		logger.For("engine").WithField("output", clean).Debug("analysis is missing fields")
		return models.SpectralAnalysis{}, fmt.Errorf("analysis is missing fields: %+v", a)
	}
	return a, nil
}
