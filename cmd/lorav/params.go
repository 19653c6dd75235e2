package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"lorastudio/internal/domain"
	"lorastudio/internal/providers/magicapi"
)

// paramFlags binds the generation parameters to command flags. Numeric
// parameters are only sent when their flag was given.
type paramFlags struct {
	prompt         string
	negativePrompt string
	model          string
	resolution     string
	aspectRatio    string
	frames         int
	loraURL        string
	style          string
	strengthModel  float64
	strengthClip   float64
	steps          int
	guideScale     float64
	shift          int
}

func (p *paramFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&p.prompt, "prompt", "p", "", "what should happen in the video")
	fs.StringVar(&p.negativePrompt, "negative", "", "what to avoid")
	fs.StringVar(&p.model, "model", "", "model variant: 1.3b or 14b (default 14b)")
	fs.StringVar(&p.resolution, "resolution", "", "480p or 720p (default 480p)")
	fs.StringVar(&p.aspectRatio, "aspect", "", "auto, 16:9, 9:16 or 1:1 (default 16:9)")
	fs.IntVar(&p.frames, "frames", 0, "17, 33, 49, 65 or 81 (default 33)")
	fs.StringVar(&p.loraURL, "lora-url", "", "LoRA weights URL")
	fs.StringVar(&p.style, "style", "", "LoRA style preset name (see the styles command)")
	fs.Float64Var(&p.strengthModel, "strength-model", magicapi.DefaultLoRAStrengthModel, "LoRA model strength [0,2]")
	fs.Float64Var(&p.strengthClip, "strength-clip", magicapi.DefaultLoRAStrengthClip, "LoRA clip strength [0,2]")
	fs.IntVar(&p.steps, "steps", magicapi.DefaultSampleSteps, "sampling steps [1,60]")
	fs.Float64Var(&p.guideScale, "guide-scale", 5, "guidance scale [0,10]")
	fs.IntVar(&p.shift, "shift", 3, "temporal shift [0,10]")
}

func (p *paramFlags) request(fs *pflag.FlagSet) (domain.GenerationRequest, error) {
	req := domain.GenerationRequest{
		Prompt:         p.prompt,
		NegativePrompt: p.negativePrompt,
		Model:          p.model,
		Resolution:     p.resolution,
		AspectRatio:    p.aspectRatio,
		Frames:         p.frames,
		LoRAURL:        p.loraURL,
	}
	if p.style != "" {
		if req.LoRAURL != "" {
			return req, fmt.Errorf("%w: --style and --lora-url are mutually exclusive", domain.ErrValidation)
		}
		url, ok := magicapi.ResolveStyle(p.style)
		if !ok {
			return req, fmt.Errorf("%w: unknown style %q", domain.ErrValidation, p.style)
		}
		req.LoRAURL = url
	}
	if fs.Changed("strength-model") {
		v := p.strengthModel
		req.LoRAStrengthModel = &v
	}
	if fs.Changed("strength-clip") {
		v := p.strengthClip
		req.LoRAStrengthClip = &v
	}
	if fs.Changed("steps") {
		v := p.steps
		req.SampleSteps = &v
	}
	if fs.Changed("guide-scale") {
		v := p.guideScale
		req.SampleGuideScale = &v
	}
	if fs.Changed("shift") {
		v := p.shift
		req.SampleShift = &v
	}
	return req, req.Validate()
}
