package concept

// Status tracks a concept's position in its lifecycle. A concept becomes
// terminal (success or error) exactly once, by exactly one pipeline task.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ScriptChunk is a fragment of the final script attributed to one source
// block. A resolved chunk carries the inclusive internal word-id range that
// reproduces it; absent indices are the explicit "unresolved" sentinel
// consumed by the fallback indexer, never an error.
type ScriptChunk struct {
	Text           string `json:"chunk_text"`
	SourceBlockID  string `json:"source_block_id"`
	StartWordIndex *int   `json:"start_word_index,omitempty"`
	EndWordIndex   *int   `json:"end_word_index,omitempty"`
}

// Resolved reports whether the chunk has been located in its source block.
func (c ScriptChunk) Resolved() bool {
	return c.StartWordIndex != nil && c.EndWordIndex != nil
}

// Resolve attaches the inclusive internal id range to the chunk.
func (c *ScriptChunk) Resolve(startID, endID int) {
	start, end := startID, endID
	c.StartWordIndex = &start
	c.EndWordIndex = &end
}

// MatchedBlock references a transcript block the matcher role attributed to a
// concept. Validated is set by the core after checking that the block exists
// and that the preview prefixes the block's actual text.
type MatchedBlock struct {
	BlockID   string `json:"block_id"`
	Preview   string `json:"block_preview"`
	Validated bool   `json:"is_validated"`
}

// CriterionScore is one rubric line of a script evaluation.
type CriterionScore struct {
	Name          string  `json:"name"`
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// Evaluation is the structured quality assessment produced by the evaluator
// role.
type Evaluation struct {
	OverallScore float64          `json:"overall_score"`
	Criteria     []CriterionScore `json:"criteria"`
	Summary      string           `json:"summary"`
}

// Recommendation is one actionable improvement suggestion for a script.
type Recommendation struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Concept is one candidate short-form idea. It is created by the generator
// role and mutated in place by its own pipeline task; no other task touches
// it.
type Concept struct {
	TitleID   string `json:"title_id"`
	Title     string `json:"title"`
	Logline   string `json:"logline"`
	Narrative string `json:"narrative_structure,omitempty"`

	MatchedBlocks         []MatchedBlock `json:"matched_blocks,omitempty"`
	MatchedBlocksDuration float64        `json:"matched_blocks_total_duration,omitempty"`

	Script       string        `json:"script,omitempty"`
	ScriptChunks []ScriptChunk `json:"script_chunks,omitempty"`

	Evaluation      *Evaluation      `json:"evaluation,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`

	Status       Status `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// UnresolvedChunks returns the indices of script chunks still lacking word
// indices after deterministic indexing.
func (c *Concept) UnresolvedChunks() []int {
	var unresolved []int
	for i, chunk := range c.ScriptChunks {
		if !chunk.Resolved() {
			unresolved = append(unresolved, i)
		}
	}
	return unresolved
}
