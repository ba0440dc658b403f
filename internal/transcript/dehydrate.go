package transcript

// Dehydrate converts a client transcript into the two internal views the
// pipeline works with, plus the id map required to reverse the conversion.
//
// The full view contains every token (words, pauses, spacing) renumbered with
// sequential integer ids; it is the lookup base for rehydration. The textual
// view drops pause tokens and stretches the surviving spacing tokens over the
// gaps the pauses left, keeping derived timing continuous for text-oriented
// consumers. One synthetic spacing token is inserted after every original
// token so downstream text concatenation is uniform regardless of how the
// client formatted its words.
func Dehydrate(raw RawTranscript) (textual, full Transcript, idMap IDMap) {
	idMap = make(IDMap)

	expanded := make([]Token, 0, len(raw.Words)*2)
	nextID := 0
	for _, item := range raw.Words {
		speaker := ""
		if item.Speaker != nil {
			speaker = *item.Speaker
		}

		tok := Token{
			ID:      nextID,
			Text:    item.Text,
			Start:   item.Start,
			End:     item.End,
			Type:    TokenType(item.Type),
			Speaker: speaker,
		}
		if len(item.ID) > 0 {
			idMap[nextID] = append(ClientID(nil), item.ID...)
		}
		expanded = append(expanded, tok)
		nextID++

		// Synthetic spacing inherits the end timestamp and speaker of the
		// token it follows. It gets an internal id but no id map entry.
		expanded = append(expanded, Token{
			ID:      nextID,
			Text:    " ",
			Start:   item.End,
			End:     item.End,
			Type:    TypeSpacing,
			Speaker: speaker,
		})
		nextID++
	}

	full = Transcript{Words: expanded}

	surviving := make([]Token, 0, len(expanded))
	for _, tok := range expanded {
		if tok.Type == TypePause {
			continue
		}
		surviving = append(surviving, tok)
	}
	// Close the gaps removed pauses left behind: each spacing token (except a
	// trailing one) extends to the start of the next surviving token.
	for i := range surviving {
		if surviving[i].Type == TypeSpacing && i < len(surviving)-1 {
			surviving[i].End = surviving[i+1].Start
		}
	}
	textual = Transcript{Words: surviving}

	return textual, full, idMap
}
