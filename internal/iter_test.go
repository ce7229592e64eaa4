package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"a": 1}
	b := map[string]int{"b": 2, "c": 3}

	got := map[string]int{}
	for key, val := range IterSeq2Concat(maps.All(a), maps.All(b)) {
		got[key] = val
	}

	assert.Equal(map[string]int{"a": 1, "b": 2, "c": 3}, got)

	count := 0
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSortedMap(t *testing.T) {
	assert := assert.New(t)

	var keys []int
	var vals []string
	for key, val := range IterSortedMap(map[int]string{120: "c", 100: "a", 113: "b"}) {
		keys = append(keys, key)
		vals = append(vals, val)
	}

	assert.Equal([]int{100, 113, 120}, keys)
	assert.Equal([]string{"a", "b", "c"}, vals)
}
