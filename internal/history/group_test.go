package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielflorianoo/VoiceCalc/internal/store"
)

func purchase(id, location string, amount float64, ts int64) store.Purchase {
	return store.Purchase{ID: id, Location: location, Amount: amount, Timestamp: ts}
}

func TestGroupByLocation(t *testing.T) {
	records := []store.Purchase{
		purchase("5", "Mercado", 90, 500),
		purchase("1", "Mercado", 100, 100),
		purchase("2", "Padaria", 8, 200),
		purchase("3", "Mercado", 120, 300),
		purchase("4", "Padaria", 9.5, 400),
		purchase("6", "Farmácia", 30, 50),
	}

	groups := GroupByLocation(records)
	require.Len(t, groups, 3)

	assert.Equal(t, "Mercado", groups[0].Location)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, 90.0, groups[0].LastAmount)
	assert.InDelta(t, 310.0, groups[0].TotalSpent, 1e-9)
	assert.Equal(t, []string{"1", "3", "5"}, ids(groups[0].Records))

	assert.Equal(t, "Padaria", groups[1].Location)
	assert.Equal(t, 9.5, groups[1].LastAmount)
	assert.InDelta(t, 17.5, groups[1].TotalSpent, 1e-9)

	assert.Equal(t, "Farmácia", groups[2].Location)
	assert.Equal(t, 1, groups[2].Count)

	// input must not be reordered
	assert.Equal(t, "5", records[0].ID)
}

func TestGroupRecent(t *testing.T) {
	g := GroupByLocation([]store.Purchase{
		purchase("a", "Feira", 10, 1),
		purchase("b", "Feira", 25, 2),
		purchase("c", "Feira", 15, 3),
		purchase("d", "Feira", 20, 4),
	})[0]

	recent := g.Recent(0)
	require.Len(t, recent, DefaultRecent)
	assert.Equal(t, "d", recent[0].ID)
	assert.Equal(t, "c", recent[1].ID)
	assert.Equal(t, "b", recent[2].ID)
	assert.False(t, recent[0].AboveLast)
	assert.False(t, recent[1].AboveLast)
	assert.True(t, recent[2].AboveLast)

	assert.Len(t, g.Recent(10), 4)
}

func TestGroupByLocationEmpty(t *testing.T) {
	assert.Empty(t, GroupByLocation(nil))
}

func ids(records []store.Purchase) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
