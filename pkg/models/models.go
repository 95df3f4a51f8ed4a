// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package models holds the compiled-in catalogue of DeepInfra model
// identifiers the proxy accepts and the OpenAI-style listing built from it.
package models

const (
	// OwnedBy is reported for every entry in the model listing.
	OwnedBy = "deepinfra"

	// DefaultModel fills requests that omit a model when the proxy runs in
	// default-model mode and no DEFAULT_MODEL is configured.
	DefaultModel = "deepseek-ai/DeepSeek-V3.1"
)

var allowed = []string{
	"deepseek-ai/DeepSeek-V3.1",
	"openai/gpt-oss-120b",
	"Qwen/Qwen3-Coder-480B-A35B-Instruct-Turbo",
	"zai-org/GLM-4.5",
	"moonshotai/Kimi-K2-Instruct",
	"allenai/olmOCR-7B-0725-FP8",
	"Qwen/Qwen3-235B-A22B-Thinking-2507",
	"Qwen/Qwen3-Coder-480B-A35B-Instruct",
	"zai-org/GLM-4.5-Air",
	"mistralai/Voxtral-Small-24B-2507",
	"mistralai/Voxtral-Mini-3B-2507",
	"deepseek-ai/DeepSeek-R1-0528-Turbo",
	"Qwen/Qwen3-235B-A22B-Instruct-2507",
	"Qwen/Qwen3-30B-A3B",
	"Qwen/Qwen3-32B",
	"Qwen/Qwen3-14B",
	"deepseek-ai/DeepSeek-V3-0324-Turbo",
	"bigcode/starcoder2-15b",
	"Phind/Phind-CodeLlama-34B-v2",
	"Gryphe/MythoMax-L2-13b",
	"openchat/openchat_3.5",
	"openai/whisper-tiny",
	"meta-llama/Llama-3.3-70B-Instruct",
}

// Set is an immutable collection of model identifiers. Membership is exact
// string equality.
type Set struct {
	ids   []string
	index map[string]struct{}
}

// NewSet builds a Set from ids, dropping duplicates while keeping the first
// occurrence's position.
func NewSet(ids ...string) *Set {
	s := &Set{
		ids:   make([]string, 0, len(ids)),
		index: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

var defaultSet = NewSet(allowed...)

// Default returns the compiled-in allowlist.
func Default() *Set {
	return defaultSet
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of models in the set.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the identifiers in declaration order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
