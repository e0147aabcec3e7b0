package source

import (
	"github.com/etymograph/dailyverse/internal/model"
	"github.com/etymograph/dailyverse/internal/shuffle"
)

var emergencyWords = []model.Word{
	{Text: "light", Type: model.Noun, Score: model.ScoreEmergency, Source: model.SourceEmergency},
	{Text: "dream", Type: model.Noun, Score: model.ScoreEmergency, Source: model.SourceEmergency},
	{Text: "create", Type: model.Verb, Score: model.ScoreEmergency, Source: model.SourceEmergency},
	{Text: "wander", Type: model.Verb, Score: model.ScoreEmergency, Source: model.SourceEmergency},
	{Text: "gentle", Type: model.Adjective, Score: model.ScoreEmergency, Source: model.SourceEmergency},
	{Text: "bright", Type: model.Adjective, Score: model.ScoreEmergency, Source: model.SourceEmergency},
}

type Emergency struct {
	rnd *shuffle.Rand
}

func NewEmergency(rnd *shuffle.Rand) *Emergency {
	return &Emergency{rnd: rnd}
}

// Words returns up to count of the hard-coded words in random order.
func (s *Emergency) Words(count int) []model.Word {
	words := shuffle.Copy(s.rnd, emergencyWords)
	if count >= 0 && count < len(words) {
		words = words[:count]
	}
	return words
}
