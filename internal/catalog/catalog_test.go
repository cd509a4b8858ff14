package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	all := c.List()
	require.NotEmpty(t, all)

	total := 0
	for _, cat := range []Category{CategoryTrigger, CategoryAction, CategoryTransform} {
		group := c.ByCategory(cat)
		assert.NotEmpty(t, group, cat)
		total += len(group)
	}
	assert.Equal(t, len(all), total)

	schedule, ok := c.Get("schedule-trigger")
	require.True(t, ok)
	assert.Equal(t, CategoryTrigger, schedule.Category)
	require.Len(t, schedule.Fields, 1)
	assert.Equal(t, KindCron, schedule.Fields[0].Kind)
	assert.True(t, schedule.Fields[0].Required)

	merge, ok := c.Get("merge")
	require.True(t, ok)
	assert.NotNil(t, merge.Fields)

	_, ok = c.Get("teleport")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing type":     "- label: x\n  category: action\n",
		"unknown category": "- type: x\n  category: sink\n",
		"duplicate":        "- type: x\n  category: action\n- type: x\n  category: action\n",
		"not yaml list":    "type: x\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	c, err := Parse([]byte("- type: a\n  category: action\n- type: b\n  category: trigger\n"))
	require.NoError(t, err)

	list := c.List()
	list[0].Type = "mutated"

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Type)
	assert.Equal(t, "a", c.List()[0].Type)
}
