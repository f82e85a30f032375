package llm

import (
	"context"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Apply folds a list of options over a default set.
func Apply(defaults Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

// LLMProvider is a single-shot completion backend. The summarizer is the only
// caller; it sends one self-contained prompt per session, so there is no chat
// history in the contract.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
