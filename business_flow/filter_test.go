package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klb1963/yachtpricer/models"
	"github.com/klb1963/yachtpricer/utils"
)

func testTargetYacht() models.Yacht {
	return models.Yacht{
		ID:           1,
		Name:         "Bavaria 46",
		HullType:     models.HullTypeMonohull,
		LengthFt:     46.0,
		BuildYear:    2019,
		Cabins:       4,
		Heads:        2,
		BaseLocation: "Split",
	}
}

func matchingCandidate() CompetitorCandidate {
	return CompetitorCandidate{
		Label:     "Oceanis 46.1",
		HullType:  utils.ToPtr("monohull"),
		LengthFt:  utils.ToPtr(46.5),
		Cabins:    utils.ToPtr(4),
		Heads:     utils.ToPtr(3),
		BuildYear: utils.ToPtr(2020),
		Marina:    utils.ToPtr("ACI Marina Split"),
		Price:     2900,
		Currency:  utils.EURCurrency,
	}
}

func TestFilterEnginePasses(t *testing.T) {
	engine := NewFilterEngine(testTargetYacht(), models.DefaultFilterConfig())

	t.Run("fully matching candidate accepted", func(t *testing.T) {
		result := engine.Passes(matchingCandidate())
		assert.True(t, result.Accepted)
		assert.Empty(t, result.Reasons)
	})

	t.Run("length boundary 43.0 accepted at 46 minus 3", func(t *testing.T) {
		c := matchingCandidate()
		c.LengthFt = utils.ToPtr(43.0)
		result := engine.Passes(c)
		assert.True(t, result.Accepted)
	})

	t.Run("length 42.9 rejected with length reason", func(t *testing.T) {
		c := matchingCandidate()
		c.LengthFt = utils.ToPtr(42.9)
		result := engine.Passes(c)
		assert.False(t, result.Accepted)
		assert.Contains(t, result.Reasons, ReasonLength)
	})

	t.Run("missing hull type is a mismatch", func(t *testing.T) {
		c := matchingCandidate()
		c.HullType = nil
		result := engine.Passes(c)
		assert.False(t, result.Accepted)
		assert.Contains(t, result.Reasons, ReasonHullType)
	})

	t.Run("hull type comparison is case-insensitive", func(t *testing.T) {
		c := matchingCandidate()
		c.HullType = utils.ToPtr("Monohull")
		result := engine.Passes(c)
		assert.True(t, result.Accepted)
	})

	t.Run("missing optional values skip their checks", func(t *testing.T) {
		c := matchingCandidate()
		c.LengthFt = nil
		c.Cabins = nil
		c.BuildYear = nil
		c.Marina = nil
		result := engine.Passes(c)
		assert.True(t, result.Accepted)
	})

	t.Run("all reasons collected without short-circuit in fixed order", func(t *testing.T) {
		c := matchingCandidate()
		c.HullType = utils.ToPtr("catamaran")
		c.LengthFt = utils.ToPtr(60.0)
		c.Cabins = utils.ToPtr(6)
		c.BuildYear = utils.ToPtr(2010)
		c.Marina = utils.ToPtr("Marina Kastela")
		result := engine.Passes(c)
		require.False(t, result.Accepted)
		assert.Equal(t, []string{ReasonHullType, ReasonLength, ReasonCabins, ReasonYear, ReasonLocation}, result.Reasons)
	})

	t.Run("cabin window inclusive at both edges", func(t *testing.T) {
		for _, cabins := range []int{3, 5} {
			c := matchingCandidate()
			c.Cabins = utils.ToPtr(cabins)
			assert.True(t, engine.Passes(c).Accepted)
		}
		c := matchingCandidate()
		c.Cabins = utils.ToPtr(6)
		result := engine.Passes(c)
		assert.False(t, result.Accepted)
		assert.Contains(t, result.Reasons, ReasonCabins)
	})

	t.Run("year window inclusive", func(t *testing.T) {
		c := matchingCandidate()
		c.BuildYear = utils.ToPtr(2017)
		assert.True(t, engine.Passes(c).Accepted)
		c.BuildYear = utils.ToPtr(2016)
		result := engine.Passes(c)
		assert.False(t, result.Accepted)
		assert.Contains(t, result.Reasons, ReasonYear)
	})

	t.Run("location substring is case-insensitive", func(t *testing.T) {
		c := matchingCandidate()
		c.Marina = utils.ToPtr("marina SPLIT gate 3")
		assert.True(t, engine.Passes(c).Accepted)
	})
}

func TestFilterEngineHeadsFloor(t *testing.T) {
	cfg := models.DefaultFilterConfig()
	cfg.HeadsMin = 1
	engine := NewFilterEngine(testTargetYacht(), cfg)

	t.Run("candidate below target heads rejected", func(t *testing.T) {
		c := matchingCandidate()
		c.Heads = utils.ToPtr(1)
		result := engine.Passes(c)
		assert.False(t, result.Accepted)
		assert.Contains(t, result.Reasons, ReasonHeads)
	})

	t.Run("candidate at target heads accepted", func(t *testing.T) {
		c := matchingCandidate()
		c.Heads = utils.ToPtr(2)
		assert.True(t, engine.Passes(c).Accepted)
	})

	t.Run("floor disabled when HeadsMin is zero", func(t *testing.T) {
		disabled := NewFilterEngine(testTargetYacht(), models.DefaultFilterConfig())
		c := matchingCandidate()
		c.Heads = utils.ToPtr(0)
		assert.True(t, disabled.Passes(c).Accepted)
	})
}

func TestFilterEngineDeterminism(t *testing.T) {
	engine := NewFilterEngine(testTargetYacht(), models.DefaultFilterConfig())
	c := matchingCandidate()
	c.LengthFt = utils.ToPtr(60.0)
	c.BuildYear = utils.ToPtr(2010)

	first := engine.Passes(c)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, engine.Passes(c))
	}
}
