package segment

import (
	"fmt"
	"strings"

	"reelsmith/internal/transcript"
)

// Block is a contiguous run of transcript tokens spoken by a single speaker.
// Word-type tokens in a block never exceed the segmenter's hard limit and all
// share one speaker; interleaved spacing tokens are carried along so the
// block's concatenated text reads naturally.
type Block struct {
	ID        string             `json:"block_id"`
	Speaker   string             `json:"speaker"`
	StartTime float64            `json:"start_time"`
	EndTime   float64            `json:"end_time"`
	Text      string             `json:"text"`
	Words     []transcript.Token `json:"words"`
}

// WordCount returns the number of word-type tokens in the block.
func (b Block) WordCount() int {
	count := 0
	for _, tok := range b.Words {
		if tok.IsWord() {
			count++
		}
	}
	return count
}

// Lookup builds a block-id index over the supplied blocks.
func Lookup(blocks []Block) map[string]Block {
	index := make(map[string]Block, len(blocks))
	for _, block := range blocks {
		index[block.ID] = block
	}
	return index
}

// Segmenter slices word streams into blocks using three ordered stopping
// rules: speaker change, soft limit plus sentence boundary, and hard limit.
type Segmenter struct {
	maxWords  int
	softLimit int
}

// NewSegmenter validates the limits and constructs a segmenter. The soft
// limit is the floor of maxWords*softRatio; once a block grows past it, the
// next sentence-ending token closes the block.
func NewSegmenter(maxWords int, softRatio float64) (*Segmenter, error) {
	if maxWords <= 0 {
		return nil, fmt.Errorf("segment: max words must be positive, got %d", maxWords)
	}
	return &Segmenter{
		maxWords:  maxWords,
		softLimit: int(float64(maxWords) * softRatio),
	}, nil
}

// Segment walks the textual transcript once and emits blocks in order.
// Empty input yields no blocks; runs without word tokens or with text that
// trims to nothing are discarded rather than emitted.
func (s *Segmenter) Segment(tr transcript.Transcript) []Block {
	words := tr.Words
	if len(words) == 0 {
		return nil
	}

	var blocks []Block
	counter := 0
	cursor := 0
	for cursor < len(words) {
		end := s.findBlockEnd(words, cursor)
		run := words[cursor : end+1]
		if block, ok := buildBlock(run, counter); ok {
			blocks = append(blocks, block)
			counter++
		}
		cursor = end + 1
	}
	return blocks
}

// findBlockEnd returns the inclusive index closing the block that starts at
// the cursor. The first matching rule wins; rule order is significant.
func (s *Segmenter) findBlockEnd(words []transcript.Token, start int) int {
	speaker, found := firstWordSpeaker(words, start)
	if !found {
		// Only non-word tokens remain; the tail forms one final run.
		return len(words) - 1
	}

	count := 0
	for i := start; i < len(words); i++ {
		tok := words[i]
		if !tok.IsWord() {
			continue
		}
		if tok.Speaker != speaker {
			return i - 1
		}
		count++
		if count > s.softLimit && endsSentence(tok.Text) {
			return absorbTrailingSpacing(words, i)
		}
		if count >= s.maxWords {
			return absorbTrailingSpacing(words, i)
		}
	}
	return len(words) - 1
}

func firstWordSpeaker(words []transcript.Token, start int) (string, bool) {
	for i := start; i < len(words); i++ {
		if words[i].IsWord() {
			return words[i].Speaker, true
		}
	}
	return "", false
}

func endsSentence(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasSuffix(trimmed, ".") ||
		strings.HasSuffix(trimmed, "?") ||
		strings.HasSuffix(trimmed, "!")
}

// absorbTrailingSpacing extends a limit-chosen boundary by one position when
// the next token is spacing, so trailing whitespace stays with the block it
// belongs to instead of orphaned at the start of the next one.
func absorbTrailingSpacing(words []transcript.Token, index int) int {
	if index+1 < len(words) && words[index+1].Type == transcript.TypeSpacing {
		return index + 1
	}
	return index
}

func buildBlock(run []transcript.Token, counter int) (Block, bool) {
	var firstWord *transcript.Token
	for i := range run {
		if run[i].IsWord() {
			firstWord = &run[i]
			break
		}
	}
	if firstWord == nil {
		return Block{}, false
	}

	var text strings.Builder
	for _, tok := range run {
		text.WriteString(tok.Text)
	}
	trimmed := strings.TrimSpace(text.String())
	if trimmed == "" {
		return Block{}, false
	}

	speaker := firstWord.Speaker
	if speaker == "" {
		speaker = "unknown"
	}

	tokens := make([]transcript.Token, len(run))
	copy(tokens, run)

	return Block{
		ID:        fmt.Sprintf("block_%03d", counter),
		Speaker:   speaker,
		StartTime: run[0].Start,
		EndTime:   run[len(run)-1].End,
		Text:      trimmed,
		Words:     tokens,
	}, true
}
