package domain

import (
	"fmt"
	"strings"
)

// GenerationRequest carries everything needed to submit one image-to-video job.
// Optional numeric parameters are pointers so an unset value falls back to the
// service defaults instead of being sent as zero.
type GenerationRequest struct {
	ImageURL          string   `json:"image_url"`
	Prompt            string   `json:"prompt"`
	NegativePrompt    string   `json:"negative_prompt,omitempty"`
	Model             string   `json:"model,omitempty"`
	Resolution        string   `json:"resolution,omitempty"`
	AspectRatio       string   `json:"aspect_ratio,omitempty"`
	Frames            int      `json:"frames,omitempty"`
	LoRAURL           string   `json:"lora_url,omitempty"`
	LoRAStrengthModel *float64 `json:"lora_strength_model,omitempty"`
	LoRAStrengthClip  *float64 `json:"lora_strength_clip,omitempty"`
	SampleSteps       *int     `json:"sample_steps,omitempty"`
	SampleGuideScale  *float64 `json:"sample_guide_scale,omitempty"`
	SampleShift       *int     `json:"sample_shift,omitempty"`
}

const (
	MinLoRAStrength = 0.0
	MaxLoRAStrength = 2.0
	MinSampleSteps  = 1
	MaxSampleSteps  = 60
	MinGuideScale   = 0.0
	MaxGuideScale   = 10.0
	MinSampleShift  = 0
	MaxSampleShift  = 10
)

var (
	allowedFrames       = map[int]struct{}{17: {}, 33: {}, 49: {}, 65: {}, 81: {}}
	allowedResolutions  = map[string]struct{}{"480p": {}, "720p": {}}
	allowedAspectRatios = map[string]struct{}{"auto": {}, "16:9": {}, "9:16": {}, "1:1": {}}
	allowedModels       = map[string]struct{}{"1.3b": {}, "14b": {}}
)

// Clone returns a deep copy so the submitted request cannot be mutated afterwards.
func (r GenerationRequest) Clone() GenerationRequest {
	out := r
	out.LoRAStrengthModel = cloneFloat(r.LoRAStrengthModel)
	out.LoRAStrengthClip = cloneFloat(r.LoRAStrengthClip)
	out.SampleGuideScale = cloneFloat(r.SampleGuideScale)
	out.SampleSteps = cloneInt(r.SampleSteps)
	out.SampleShift = cloneInt(r.SampleShift)
	return out
}

// ValidatePrompt rejects empty or whitespace-only prompts.
func (r GenerationRequest) ValidatePrompt() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("%w: please enter a prompt", ErrValidation)
	}
	return nil
}

// Validate checks the prompt and every parameter that was set.
func (r GenerationRequest) Validate() error {
	if err := r.ValidatePrompt(); err != nil {
		return err
	}
	if m := strings.ToLower(strings.TrimSpace(r.Model)); m != "" {
		if _, ok := allowedModels[m]; !ok {
			return fmt.Errorf("%w: unsupported model %q", ErrValidation, r.Model)
		}
	}
	if r.Resolution != "" {
		if _, ok := allowedResolutions[r.Resolution]; !ok {
			return fmt.Errorf("%w: unsupported resolution %q", ErrValidation, r.Resolution)
		}
	}
	if r.AspectRatio != "" {
		if _, ok := allowedAspectRatios[r.AspectRatio]; !ok {
			return fmt.Errorf("%w: unsupported aspect ratio %q", ErrValidation, r.AspectRatio)
		}
	}
	if r.Frames != 0 {
		if _, ok := allowedFrames[r.Frames]; !ok {
			return fmt.Errorf("%w: unsupported frame count %d", ErrValidation, r.Frames)
		}
	}
	if err := checkFloatRange("lora_strength_model", r.LoRAStrengthModel, MinLoRAStrength, MaxLoRAStrength); err != nil {
		return err
	}
	if err := checkFloatRange("lora_strength_clip", r.LoRAStrengthClip, MinLoRAStrength, MaxLoRAStrength); err != nil {
		return err
	}
	if err := checkFloatRange("sample_guide_scale", r.SampleGuideScale, MinGuideScale, MaxGuideScale); err != nil {
		return err
	}
	if err := checkIntRange("sample_steps", r.SampleSteps, MinSampleSteps, MaxSampleSteps); err != nil {
		return err
	}
	return checkIntRange("sample_shift", r.SampleShift, MinSampleShift, MaxSampleShift)
}

func checkFloatRange(name string, v *float64, lo, hi float64) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return fmt.Errorf("%w: %s must be within [%g, %g], got %g", ErrValidation, name, lo, hi, *v)
	}
	return nil
}

func checkIntRange(name string, v *int, lo, hi int) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return fmt.Errorf("%w: %s must be within [%d, %d], got %d", ErrValidation, name, lo, hi, *v)
	}
	return nil
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
