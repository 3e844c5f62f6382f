package utils

// Chunk is a contiguous slice of a source text. Start and End are rune offsets
// into the source, End exclusive.
type Chunk struct {
	Text  string
	Start int
	End   int
}

// Overlap returns how many leading runes of c repeat the tail of prev.
func (c Chunk) Overlap(prev Chunk) int {
	if prev.End <= c.Start {
		return 0
	}
	return prev.End - c.Start
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitText splits text into chunks of at most chunkSize runes.
// When a cut would land mid-text it looks back up to lookback runes for a
// sentence terminator and cuts right after it; otherwise it cuts hard.
// Every chunk after the first starts overlap runes before the previous end.
// text must be valid UTF-8; invalid bytes come back as U+FFFD.
func SplitText(text string, chunkSize int, overlap int, lookback int) []Chunk {
	runes := []rune(text)
	totalLen := len(runes)

	if chunkSize <= 0 || totalLen <= chunkSize {
		return []Chunk{{Text: text, Start: 0, End: totalLen}}
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	if lookback < 0 {
		lookback = 0
	}

	chunks := make([]Chunk, 0, totalLen/(chunkSize-overlap)+1)
	start := 0
	for start < totalLen {
		end := start + chunkSize
		if end >= totalLen {
			end = totalLen
		} else if cut := sentenceCut(runes, start, end, lookback); cut > 0 {
			end = cut
		}

		chunks = append(chunks, Chunk{Text: string(runes[start:end]), Start: start, End: end})
		if end == totalLen {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// sentenceCut returns the offset just past the last terminator in
// (start, end) that lies within lookback runes of end, or -1.
func sentenceCut(runes []rune, start, end, lookback int) int {
	from := end - lookback
	if from < start {
		from = start
	}
	for i := end - 1; i >= from; i-- {
		if i > start && isSentenceTerminator(runes[i]) {
			return i + 1
		}
	}
	return -1
}
