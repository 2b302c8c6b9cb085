package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name string
		text string
		risk string
	}{
		{
			name: "plain json",
			text: `{"riskLevel": "High", "strategy": "Aim low.", "lore": "The crypt stirs."}`,
			risk: "High",
		},
		{
			name: "fenced json",
			text: "```json\n{\"riskLevel\": \"Severe\", \"strategy\": \"Hold.\", \"lore\": \"Bells ring.\"}\n```",
			risk: "Severe",
		},
		{
			name: "bare fence",
			text: "```\n{\"riskLevel\": \"Low\", \"strategy\": \"Rest.\", \"lore\": \"Quiet.\"}\n```\n",
			risk: "Low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnalysis(tt.text)
			if err != nil {
				t.Fatalf("parseAnalysis failed: %v", err)
			}
			if a.RiskLevel != tt.risk || !a.Complete() {
				t.Errorf("Unexpected analysis: %+v", a)
			}
		})
	}
}

func TestParseAnalysisRejectsIncomplete(t *testing.T) {
	for _, text := range []string{
		`{"riskLevel": "High", "strategy": "Aim low."}`,
		`not json at all: [`,
		``,
	} {
		if a, err := parseAnalysis(text); err == nil {
			t.Errorf("Expected error for %q, got %+v", text, a)
		}
	}
}

func TestAnalysisPrompt(t *testing.T) {
	first, err := render(analysisTmpl, struct{ Wave int }{Wave: 1})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(first, "Wave 1") {
		t.Errorf("Expected wave number in prompt, got %s", first)
	}
	if strings.Contains(first, "grown stronger") {
		t.Errorf("Expected no escalation line on wave 1")
	}

	later, err := render(analysisTmpl, struct{ Wave int }{Wave: 4})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(later, "4 waves in a row") {
		t.Errorf("Expected escalation line on wave 4, got %s", later)
	}
}

func TestSplashPrompt(t *testing.T) {
	out, err := render(splashTmpl, struct{ Prompt, AspectRatio string }{"A graveyard.", SplashAspectRatio})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.HasPrefix(out, "A graveyard.") || !strings.Contains(out, "16:9") {
		t.Errorf("Unexpected splash prompt: %s", out)
	}
}

func TestFirstTextAndImage(t *testing.T) {
	empty := &genai.GenerateContentResponse{}
	if _, err := firstText(empty); !errors.Is(err, ErrNoContent) {
		t.Errorf("Expected ErrNoContent, got %v", err)
	}
	if _, err := firstImage(empty); !errors.Is(err, ErrNoContent) {
		t.Errorf("Expected ErrNoContent, got %v", err)
	}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("here you go"),
				genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
			}},
		}},
	}
	text, err := firstText(resp)
	if err != nil || text != "here you go" {
		t.Errorf("Unexpected text %q (%v)", text, err)
	}
	img, err := firstImage(resp)
	if err != nil {
		t.Fatalf("firstImage failed: %v", err)
	}
	if img.MIMEType != "image/png" || len(img.Data) != 4 {
		t.Errorf("Unexpected image: %+v", img)
	}

	textOnly := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Text("no picture")}}}},
	}
	if _, err := firstImage(textOnly); !errors.Is(err, ErrNoContent) {
		t.Errorf("Expected ErrNoContent for a text-only reply, got %v", err)
	}
}

func TestOffline(t *testing.T) {
	var o Offline
	if _, err := o.SpectralAnalysis(context.Background(), 1); !errors.Is(err, ErrOffline) {
		t.Errorf("Expected ErrOffline, got %v", err)
	}
	if img, err := o.SplashImage(context.Background(), "x"); img != nil || !errors.Is(err, ErrOffline) {
		t.Errorf("Expected nil image and ErrOffline, got %v, %v", img, err)
	}
}
