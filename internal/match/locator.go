package match

// Word is a normalized token carrying the internal id it resolves to.
type Word struct {
	ID   int
	Text string
}

// Span is the inclusive id range of a located sequence.
type Span struct {
	StartID int
	EndID   int
}

// Find locates the chunk word sequence inside the block word sequence and
// returns the internal ids bounding the first (leftmost) occurrence.
//
// Single-word chunks match on simple membership. For two or more words only
// the boundary pairs are compared: the chunk's first two words against the
// candidate window's head, and its last two against the window's tail.
// Interior words are deliberately not verified; if both boundary pairs recur
// elsewhere with different interior content this accepts a false positive,
// which downstream consumers tolerate in exchange for the linear scan.
func Find(chunk, block []Word) (Span, bool) {
	if len(chunk) == 0 || len(block) == 0 {
		return Span{}, false
	}

	if len(chunk) == 1 {
		for _, candidate := range block {
			if candidate.Text == chunk[0].Text {
				return Span{StartID: candidate.ID, EndID: candidate.ID}, true
			}
		}
		return Span{}, false
	}

	k := len(chunk)
	if k > len(block) {
		return Span{}, false
	}
	firstA, firstB := chunk[0].Text, chunk[1].Text
	lastA, lastB := chunk[k-2].Text, chunk[k-1].Text

	for i := 0; i+k <= len(block); i++ {
		if block[i].Text != firstA || block[i+1].Text != firstB {
			continue
		}
		j := i + k - 2
		if block[j].Text != lastA || block[j+1].Text != lastB {
			continue
		}
		return Span{StartID: block[i].ID, EndID: block[i+k-1].ID}, true
	}
	return Span{}, false
}
