package magicapi

import (
	"encoding/json"
	"fmt"
	"strings"

	"lorastudio/internal/domain"
)

// curlInput mirrors submitInput but leaves out every default: the command
// reproduces exactly what the user picked.
type curlInput struct {
	Model             string   `json:"model,omitempty"`
	Frames            int      `json:"frames,omitempty"`
	Prompt            string   `json:"prompt"`
	ImageURL          string   `json:"image_url"`
	AspectRatio       string   `json:"aspect_ratio,omitempty"`
	Resolution        string   `json:"resolution,omitempty"`
	SampleSteps       *int     `json:"sample_steps,omitempty"`
	SampleGuideScale  *float64 `json:"sample_guide_scale,omitempty"`
	SampleShift       *int     `json:"sample_shift,omitempty"`
	NegativePrompt    string   `json:"negative_prompt,omitempty"`
	LoRAURL           string   `json:"lora_url,omitempty"`
	LoRAStrengthModel *float64 `json:"lora_strength_model,omitempty"`
	LoRAStrengthClip  *float64 `json:"lora_strength_clip,omitempty"`
}

// CurlCommand renders the submit call for req as a shell command. LoRA
// strengths are only included when a LoRA URL is set.
func CurlCommand(runURL, apiKey string, req domain.GenerationRequest) (string, error) {
	in := curlInput{
		Model:            req.Model,
		Frames:           req.Frames,
		Prompt:           req.Prompt,
		ImageURL:         req.ImageURL,
		AspectRatio:      req.AspectRatio,
		Resolution:       req.Resolution,
		SampleSteps:      req.SampleSteps,
		SampleGuideScale: req.SampleGuideScale,
		SampleShift:      req.SampleShift,
		NegativePrompt:   req.NegativePrompt,
	}
	if req.LoRAURL != "" {
		in.LoRAURL = req.LoRAURL
		in.LoRAStrengthModel = req.LoRAStrengthModel
		in.LoRAStrengthClip = req.LoRAStrengthClip
	}
	body, err := json.MarshalIndent(map[string]any{"input": in}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("magicapi: encode curl body: %w", err)
	}
	if runURL == "" {
		runURL = DefaultRunURL
	}
	var b strings.Builder
	fmt.Fprintf(&b, "curl -X POST %s \\\n", runURL)
	b.WriteString("  -H \"accept: application/json\" \\\n")
	b.WriteString("  -H \"Content-Type: application/json\" \\\n")
	fmt.Fprintf(&b, "  -H \"%s: %s\" \\\n", headerAPIKey, apiKey)
	fmt.Fprintf(&b, "  -d '%s'", shellQuoteSingle(string(body)))
	return b.String(), nil
}

// shellQuoteSingle escapes single quotes for use inside a '...' argument.
func shellQuoteSingle(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
