package present

const (
	NumberMin = 0
	NumberMax = 1000
)

// NumberCard is one number flashcard.
type NumberCard struct {
	Value int    `json:"value"`
	Words string `json:"words"`
}

// NormalizeRange swaps reversed bounds and clamps both into [NumberMin, NumberMax].
// adjusted reports whether the input had to be corrected.
func NormalizeRange(start, end int) (int, int, bool) {
	adjusted := false
	if end < start {
		start, end = end, start
		adjusted = true
	}
	if c := clamp(start); c != start {
		start = c
		adjusted = true
	}
	if c := clamp(end); c != end {
		end = c
		adjusted = true
	}
	return start, end, adjusted
}

// NumberCards builds the flashcards for a normalized [start, end] range.
func NumberCards(start, end int) []NumberCard {
	start, end, _ = NormalizeRange(start, end)
	cards := make([]NumberCard, 0, end-start+1)
	for i := start; i <= end; i++ {
		cards = append(cards, NumberCard{Value: i, Words: NumberToWords(i)})
	}
	return cards
}

func clamp(n int) int {
	if n < NumberMin {
		return NumberMin
	}
	if n > NumberMax {
		return NumberMax
	}
	return n
}
