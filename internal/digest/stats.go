package digest

import (
	"math"
	"sort"
	"unicode/utf8"
)

// TokensPerRune is an approximation for token counting (4 chars per token).
const TokensPerRune = 4.0

// RunStats counts chunk outcomes for one document pass.
type RunStats struct {
	// Chunks is the number of chunks extracted from the document.
	Chunks int `json:"chunks"`
	// Unchanged chunks had the same hash as the previous run.
	Unchanged int `json:"unchanged"`
	// Filtered chunks changed bytes but not meaning.
	Filtered int `json:"filtered"`
	// Skipped chunks were new or changed but could not be embedded.
	Skipped int `json:"skipped"`
	// Summarized chunks got a model summary.
	Summarized int `json:"summarized"`
	// Placeholders are chunks whose summary failed and got placeholder text.
	Placeholders int `json:"placeholders"`
	// ChunkTokenStats describes estimated token counts across all chunks.
	ChunkTokenStats ChunkTokenStats `json:"chunk_token_stats"`
}

// ChunkTokenStats contains statistics about token counts in chunks.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

func (s *RunStats) record(o Outcome) {
	switch o {
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeFiltered:
		s.Filtered++
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeSummarized:
		s.Summarized++
	case OutcomePlaceholder:
		s.Placeholders++
	}
}

// EstimateTokens estimates the token count of text from its rune count.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / TokensPerRune))
}

// chunkTokenStats computes token statistics over chunk contents.
func chunkTokenStats(chunks []Chunk) ChunkTokenStats {
	counts := make([]int, 0, len(chunks))
	for _, c := range chunks {
		counts = append(counts, EstimateTokens(c.Content))
	}
	return computeTokenStats(counts)
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) ChunkTokenStats {
	if len(tokenCounts) == 0 {
		return ChunkTokenStats{}
	}

	sorted := make([]int, len(tokenCounts))
	copy(sorted, tokenCounts)
	sort.Ints(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkTokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
