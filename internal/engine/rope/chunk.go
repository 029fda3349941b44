package rope

import "unicode/utf8"

// Chunk size constants control the granularity of leaf storage.
const (
	// MinChunkSize is the size below which a leaf is merged with a neighbour
	// when the two meet during a concatenation.
	MinChunkSize = 128

	// MaxChunkSize is the nominal maximum bytes per leaf. A leaf may exceed
	// it by less than utf8.UTFMax bytes when a split point is moved to a rune
	// boundary.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred leaf size when building from text.
	TargetChunkSize = (MinChunkSize + MaxChunkSize) / 2
)

// splitIntoChunks cuts s into pieces of roughly TargetChunkSize bytes.
// Cuts prefer to land just after a newline and always land on a UTF-8
// boundary.
func splitIntoChunks(s string) []string {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []string{s}
	}

	chunks := make([]string, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		cut := chunkBoundary(s, TargetChunkSize)
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}
	return chunks
}

// chunkBoundary picks a cut point near target. A newline within a quarter
// of MinChunkSize of the target wins; otherwise the nearest rune start at or
// before target is used.
func chunkBoundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}

	window := MinChunkSize / 4
	hi := min(target+window, len(s))
	for i := target; i < hi; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	lo := max(target-window, 1)
	for i := target - 1; i >= lo; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	return runeBoundaryBefore(s, target)
}

// runeBoundaryBefore returns the largest rune start <= i, never 0 unless s
// begins with an invalid run longer than utf8.UTFMax.
func runeBoundaryBefore(s string, i int) int {
	j := i
	for j > 0 && i-j < utf8.UTFMax && !utf8.RuneStart(s[j]) {
		j--
	}
	if j == 0 || !utf8.RuneStart(s[j]) {
		return i
	}
	return j
}
