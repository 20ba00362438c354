package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryKeepsOrderAndFiltersByTone(t *testing.T) {
	m := &Memory{}
	m.Emit(Entry{Week: 1, Day: 1, Tone: ToneMoney, Text: "rent paid"})
	m.Emit(Entry{Week: 1, Day: 2, Tone: ToneNegative, Text: "brawl"})
	m.Emit(Entry{Week: 1, Day: 3, Tone: ToneMoney, Text: "takings up"})

	assert.Len(t, m.Entries, 3)
	assert.Equal(t, "rent paid", m.Entries[0].Text)

	money := m.ByTone(ToneMoney)
	assert.Len(t, money, 2)
	assert.Equal(t, "takings up", money[1].Text)

	assert.Empty(t, m.ByTone(TonePositive))
}

func TestDiscardDropsEverything(t *testing.T) {
	var sink Sink = Discard{}
	sink.Emit(Entry{Tone: ToneInfo, Text: "nothing to see"})
}
