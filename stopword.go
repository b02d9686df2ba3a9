package textscan

import "strings"

// stopWords is a fixed English stop-word list.
var stopWords = map[string]struct{}{}

func init() {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "did", "do", "does",
		"doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "herself",
		"him", "himself", "his", "how", "i", "if", "in", "into", "is", "it",
		"its", "itself", "me", "more", "most", "my", "myself", "no", "nor",
		"not", "of", "off", "on", "once", "only", "or", "other", "our", "ours",
		"ourselves", "out", "over", "own", "same", "she", "so", "some", "such",
		"than", "that", "the", "their", "theirs", "them", "themselves", "then",
		"there", "these", "they", "this", "those", "through", "to", "too",
		"under", "until", "up", "very", "was", "we", "were", "what", "when",
		"where", "which", "while", "who", "whom", "why", "with", "you", "your",
		"yours", "yourself", "yourselves",
	}
	for _, w := range words {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether word, lowercased, is in the stop-word set.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// A StopWordTokenizer is a WordTokenizer that skips stop words in both
// directions.
type StopWordTokenizer struct {
	WordTokenizer
}

// NewStopWordTokenizer returns a tokenizer over buffer that never
// yields stop words.
func NewStopWordTokenizer(buffer string, opts ...WordOption) *StopWordTokenizer {
	t := &StopWordTokenizer{}
	t.init(NewScanner(buffer), opts...)
	t.Stream = NewStream(t.Scanner(), t.nextToken, t.prevToken)
	return t
}

func (t *StopWordTokenizer) nextToken() (*WordToken, error) {
	for {
		tok, err := t.WordTokenizer.nextToken()
		if err != nil {
			return nil, err
		}
		if !IsStopWord(tok.Text) {
			return tok, nil
		}
	}
}

func (t *StopWordTokenizer) prevToken() (*WordToken, error) {
	for {
		tok, err := t.WordTokenizer.prevToken()
		if err != nil {
			return nil, err
		}
		if !IsStopWord(tok.Text) {
			return tok, nil
		}
	}
}
