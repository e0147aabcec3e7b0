package model

import (
	"time"
)

type PartOfSpeech string

const (
	Noun      PartOfSpeech = "noun"
	Verb      PartOfSpeech = "verb"
	Adjective PartOfSpeech = "adj"
	Adverb    PartOfSpeech = "adv"
)

// Source tags identify where a word came from. They are for debugging and
// telemetry only.
const (
	SourceWordOfDay        = "wordnik_wotd"
	SourceDatamuse         = "datamuse"
	SourceDatamuseFallback = "datamuse_fallback"
	SourceWordnikRandom    = "wordnik_random"
	SourceEmergency        = "emergency"
	SourceFallback         = "fallback"
)

// Relative ranking hints per source.
const (
	ScoreWordOfDay  = 1000
	ScoreRandom     = 800
	ScoreAssociated = 500
	ScoreEmergency  = 500
)

type Word struct {
	Text       string       `json:"text"`
	Type       PartOfSpeech `json:"type"`
	Score      int          `json:"score"`
	Source     string       `json:"source"`
	Definition string       `json:"definition,omitempty"`
}

// DailyWords is what gets cached for a day: the balanced selection and when it
// was computed.
type DailyWords struct {
	Words      []Word    `json:"words"`
	ComputedAt time.Time `json:"computedAt"`
}

// WordPool collects candidate words keyed by text. The first word stored for a
// given text wins.
type WordPool struct {
	words map[string]Word
	order []string
}

func NewWordPool() *WordPool {
	return &WordPool{words: make(map[string]Word)}
}

// Add stores w unless a word with the same text is already present. It
// reports whether w was added.
func (p *WordPool) Add(w Word) bool {
	if _, exists := p.words[w.Text]; exists {
		return false
	}
	p.words[w.Text] = w
	p.order = append(p.order, w.Text)
	return true
}

// AddAll adds every word and returns how many were new.
func (p *WordPool) AddAll(words []Word) int {
	added := 0
	for _, w := range words {
		if p.Add(w) {
			added++
		}
	}
	return added
}

func (p *WordPool) Contains(text string) bool {
	_, exists := p.words[text]
	return exists
}

func (p *WordPool) Len() int {
	return len(p.words)
}

// Words returns the pooled words in insertion order.
func (p *WordPool) Words() []Word {
	result := make([]Word, 0, len(p.order))
	for _, text := range p.order {
		result = append(result, p.words[text])
	}
	return result
}

// CountByType returns how many pooled words there are per part of speech.
func (p *WordPool) CountByType() map[PartOfSpeech]int {
	counts := make(map[PartOfSpeech]int)
	for _, w := range p.words {
		counts[w.Type]++
	}
	return counts
}
