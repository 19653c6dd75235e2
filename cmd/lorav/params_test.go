package main

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"

	"lorastudio/internal/domain"
	"lorastudio/internal/providers/magicapi"
)

func parse(t *testing.T, args ...string) (domain.GenerationRequest, error) {
	t.Helper()
	var p paramFlags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	p.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return p.request(fs)
}

func TestRequestLeavesUnsetNumbersNil(t *testing.T) {
	req, err := parse(t, "--prompt", "a cat")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.SampleSteps != nil || req.SampleGuideScale != nil || req.SampleShift != nil || req.LoRAStrengthModel != nil {
		t.Fatalf("unset flags should stay nil: %+v", req)
	}
}

func TestRequestCarriesChangedFlags(t *testing.T) {
	req, err := parse(t, "-p", "a cat", "--steps", "45", "--shift", "0", "--style", "Aging Effect", "--strength-clip", "1.5", "--frames", "81")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.SampleSteps == nil || *req.SampleSteps != 45 {
		t.Fatalf("steps = %v", req.SampleSteps)
	}
	if req.SampleShift == nil || *req.SampleShift != 0 {
		t.Fatalf("shift = %v", req.SampleShift)
	}
	if req.LoRAStrengthClip == nil || *req.LoRAStrengthClip != 1.5 {
		t.Fatalf("strength clip = %v", req.LoRAStrengthClip)
	}
	want, _ := magicapi.ResolveStyle("Aging Effect")
	if req.LoRAURL != want || req.Frames != 81 {
		t.Fatalf("req = %+v", req)
	}
}

func TestRequestValidation(t *testing.T) {
	cases := [][]string{
		{"--prompt", " "},
		{"--prompt", "x", "--steps", "61"},
		{"--prompt", "x", "--frames", "30"},
		{"--prompt", "x", "--style", "Nope"},
		{"--prompt", "x", "--style", "Baby Style", "--lora-url", "https://x/w.safetensors"},
	}
	for _, args := range cases {
		if _, err := parse(t, args...); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%v: err = %v, want ErrValidation", args, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("truncate = %q", got)
	}
}
