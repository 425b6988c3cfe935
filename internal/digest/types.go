package digest

// Placeholder result fields used when the completion provider fails.
const (
	ErrorSummary = "Error: Failed to get summary from AI."
	ErrorActions = "No action items (AI error)."
)

// SummaryResult is the summary of one changed section.
type SummaryResult struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Actions string `json:"actions"`
}

// DocumentReport is the outcome of summarizing one document.
type DocumentReport struct {
	DocumentID string          `json:"document_id"`
	Title      string          `json:"title"`
	Results    []SummaryResult `json:"results"`
	Stats      RunStats        `json:"stats"`
}

// Outcome is what happened to a chunk during a pass.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeFiltered
	OutcomeSkipped
	OutcomeSummarized
	OutcomePlaceholder
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeFiltered:
		return "filtered"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSummarized:
		return "summarized"
	case OutcomePlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// changeRecord tracks one chunk through a single pass.
type changeRecord struct {
	title       string
	currentHash string
	priorHash   string
	hasPrior    bool
	embedding   []float32
}
