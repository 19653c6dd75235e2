package magicapi

import (
	"sort"

	"lorastudio/internal/domain"
)

const (
	DefaultModel             = "14b"
	DefaultFrames            = 33
	DefaultResolution        = "480p"
	DefaultAspectRatio       = "16:9"
	DefaultSampleSteps       = 30
	DefaultLoRAStrengthModel = 1.0
	DefaultLoRAStrengthClip  = 1.0
	DefaultLoRAURL           = "https://dtu1vvf8tvi89.cloudfront.net/wan/i2v_lora/zen_50_epochs.safetensors"
)

// Style is a named LoRA style preset.
type Style struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var stylePresets = map[string]string{
	"Wan Flat Color v2":      "https://dtu1vvf8tvi89.cloudfront.net/wan/i2v_lora/zen_50_epochs.safetensors",
	"360 Effect":             "https://dtu1vvf8tvi89.cloudfront.net/wan/i2v_lora/360_epoch20.safetensors",
	"Aging Effect":           "https://dtu1vvf8tvi89.cloudfront.net/wan/i2v_lora/aging_30_epochs.safetensors",
	"Baby Style":             "https://dtu1vvf8tvi89.cloudfront.net/wan/i2v_lora/baby_epoch_50.safetensors",
	"Wan Flat Color v2 (HF)": "https://huggingface.co/motimalu/wan-flat-color-v2/resolve/main/wan_flat_color_v2.safetensors",
}

// Styles lists the LoRA presets sorted by name.
func Styles() []Style {
	out := make([]Style, 0, len(stylePresets))
	for name, url := range stylePresets {
		out = append(out, Style{Name: name, URL: url})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolveStyle maps a preset name to its LoRA URL.
func ResolveStyle(name string) (string, bool) {
	url, ok := stylePresets[name]
	return url, ok
}

type submitRequest struct {
	Input submitInput `json:"input"`
}

type submitInput struct {
	Model             string   `json:"model"`
	Frames            int      `json:"frames"`
	Prompt            string   `json:"prompt"`
	ImageURL          string   `json:"image_url"`
	LoRAURL           string   `json:"lora_url,omitempty"`
	LoRAStrengthModel *float64 `json:"lora_strength_model,omitempty"`
	LoRAStrengthClip  *float64 `json:"lora_strength_clip,omitempty"`
	AspectRatio       string   `json:"aspect_ratio"`
	Resolution        string   `json:"resolution"`
	SampleSteps       int      `json:"sample_steps"`
	SampleGuideScale  *float64 `json:"sample_guide_scale,omitempty"`
	SampleShift       *int     `json:"sample_shift,omitempty"`
	NegativePrompt    string   `json:"negative_prompt,omitempty"`
}

type submitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type uploadResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

type statusResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	DelayTime     int64  `json:"delayTime"`
	ExecutionTime int64  `json:"executionTime"`
	Error         string `json:"error"`
	Output        *struct {
		Output []string `json:"output"`
	} `json:"output"`
}

func (r statusResponse) toDomain() *domain.JobStatus {
	st := &domain.JobStatus{
		ID:            r.ID,
		Status:        domain.NormalizeRemoteStatus(r.Status),
		Error:         r.Error,
		DelayTime:     r.DelayTime,
		ExecutionTime: r.ExecutionTime,
	}
	if r.Output != nil {
		st.Output = append([]string(nil), r.Output.Output...)
	}
	return st
}

// buildInput merges the caller's parameters over the default parameter set.
func buildInput(req domain.GenerationRequest) submitInput {
	strengthModel := DefaultLoRAStrengthModel
	strengthClip := DefaultLoRAStrengthClip
	in := submitInput{
		Model:             DefaultModel,
		Frames:            DefaultFrames,
		Prompt:            req.Prompt,
		ImageURL:          req.ImageURL,
		LoRAURL:           DefaultLoRAURL,
		LoRAStrengthModel: &strengthModel,
		LoRAStrengthClip:  &strengthClip,
		AspectRatio:       DefaultAspectRatio,
		Resolution:        DefaultResolution,
		SampleSteps:       DefaultSampleSteps,
		SampleGuideScale:  req.SampleGuideScale,
		SampleShift:       req.SampleShift,
		NegativePrompt:    req.NegativePrompt,
	}
	if req.Model != "" {
		in.Model = req.Model
	}
	if req.Frames != 0 {
		in.Frames = req.Frames
	}
	if req.LoRAURL != "" {
		in.LoRAURL = req.LoRAURL
	}
	if req.LoRAStrengthModel != nil {
		in.LoRAStrengthModel = req.LoRAStrengthModel
	}
	if req.LoRAStrengthClip != nil {
		in.LoRAStrengthClip = req.LoRAStrengthClip
	}
	if req.AspectRatio != "" {
		in.AspectRatio = req.AspectRatio
	}
	if req.Resolution != "" {
		in.Resolution = req.Resolution
	}
	if req.SampleSteps != nil {
		in.SampleSteps = *req.SampleSteps
	}
	return in
}
