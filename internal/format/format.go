package format

import (
	"log/slog"
	"math"

	"reelsmith/internal/concept"
	"reelsmith/internal/logging"
	"reelsmith/internal/transcript"
)

// ResultChunk is one script chunk with its word range expressed in client
// ids. An index is null when the boundary word had no client id.
type ResultChunk struct {
	Text           string              `json:"chunk_text"`
	StartWordIndex transcript.ClientID `json:"start_word_index"`
	EndWordIndex   transcript.ClientID `json:"end_word_index"`
}

// Result is one concept in client-facing form. Error results carry only the
// identity fields and the error message; the remaining fields are populated
// for successful concepts.
type Result struct {
	Title        string         `json:"title"`
	TitleID      string         `json:"title_id"`
	Logline      string         `json:"logline"`
	Status       concept.Status `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`

	Script          *string                  `json:"script,omitempty"`
	DurationSeconds *float64                 `json:"duration_seconds,omitempty"`
	ChunkIndexLists [][]transcript.ClientID  `json:"chunk_index_lists,omitempty"`
	ScriptChunks    []ResultChunk            `json:"script_chunks,omitempty"`
	Evaluation      *concept.Evaluation      `json:"evaluation,omitempty"`
	Recommendations []concept.Recommendation `json:"recommendations,omitempty"`
}

const unknownErrorMessage = "An unknown error occurred."

// Formatter rehydrates pipeline output for the client.
type Formatter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Formatter {
	return &Formatter{logger: logging.NewComponentLogger(logger, "format")}
}

// Format converts every concept to its client shape. The full transcript is
// the dehydrated view that still contains every token, including synthetic
// spacing; idMap translates internal ids back to client ids.
func (f *Formatter) Format(concepts []*concept.Concept, full transcript.Transcript, idMap transcript.IDMap) []Result {
	positions := make(map[int]int, len(full.Words))
	for i, tok := range full.Words {
		positions[tok.ID] = i
	}

	results := make([]Result, 0, len(concepts))
	for _, item := range concepts {
		if item.Status == concept.StatusError {
			message := item.ErrorMessage
			if message == "" {
				message = unknownErrorMessage
			}
			results = append(results, Result{
				Title:        item.Title,
				TitleID:      item.TitleID,
				Logline:      item.Logline,
				Status:       concept.StatusError,
				ErrorMessage: message,
			})
			continue
		}
		results = append(results, f.formatSuccess(item, full, positions, idMap))
	}
	return results
}

func (f *Formatter) formatSuccess(item *concept.Concept, full transcript.Transcript, positions map[int]int, idMap transcript.IDMap) Result {
	var totalDuration float64
	chunkIndexLists := make([][]transcript.ClientID, 0, len(item.ScriptChunks))
	remappedChunks := make([]ResultChunk, 0, len(item.ScriptChunks))

	for _, chunk := range item.ScriptChunks {
		if !chunk.Resolved() {
			continue
		}
		startPos, startOK := positions[*chunk.StartWordIndex]
		endPos, endOK := positions[*chunk.EndWordIndex]
		if !startOK || !endOK || endPos < startPos {
			f.logger.Warn("resolved chunk has no transcript position",
				slog.Int("start_word_index", *chunk.StartWordIndex),
				slog.Int("end_word_index", *chunk.EndWordIndex))
			continue
		}

		slice := full.Words[startPos : endPos+1]
		remapped := make([]transcript.ClientID, 0, len(slice))
		for _, tok := range slice {
			if clientID, ok := idMap.Lookup(tok.ID); ok {
				remapped = append(remapped, clientID)
			}
		}
		chunkIndexLists = append(chunkIndexLists, remapped)

		totalDuration += slice[len(slice)-1].End - slice[0].Start

		startID, _ := idMap.Lookup(*chunk.StartWordIndex)
		endID, _ := idMap.Lookup(*chunk.EndWordIndex)
		remappedChunks = append(remappedChunks, ResultChunk{
			Text:           chunk.Text,
			StartWordIndex: startID,
			EndWordIndex:   endID,
		})
	}

	script := item.Script
	duration := math.Round(totalDuration*100) / 100
	return Result{
		Title:           item.Title,
		TitleID:         item.TitleID,
		Logline:         item.Logline,
		Status:          concept.StatusSuccess,
		Script:          &script,
		DurationSeconds: &duration,
		ChunkIndexLists: chunkIndexLists,
		ScriptChunks:    remappedChunks,
		Evaluation:      item.Evaluation,
		Recommendations: item.Recommendations,
	}
}
