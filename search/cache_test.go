package search

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedCacheInsertIfRoom(t *testing.T) {
	c := NewBoundedCache(2)

	assert.True(t, c.Put("a", WholeText("a")))
	assert.True(t, c.Put("b", WholeText("b")))
	assert.False(t, c.Put("c", WholeText("c")))
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("c")
	assert.False(t, ok)

	// Existing entries are kept, never evicted or replaced.
	assert.True(t, c.Put("a", WholeText("changed")))
	text, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", text.All())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Put("c", WholeText("c")))
}

func TestBoundedCacheConcurrentPuts(t *testing.T) {
	c := NewBoundedCache(DefaultCacheSize)

	var wg sync.WaitGroup
	for i := range 500 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := fmt.Sprintf("doc-%d.pdf", i)
			c.Put(path, WholeText(path))
			c.Get(path)
		}()
	}
	wg.Wait()

	assert.Equal(t, DefaultCacheSize, c.Len())
}

func TestLRUCacheEvicts(t *testing.T) {
	c, err := NewLRUCache(2)
	require.NoError(t, err)

	c.Put("a", WholeText("a"))
	c.Put("b", WholeText("b"))
	c.Get("a")
	assert.True(t, c.Put("c", WholeText("c")))

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestNewCache(t *testing.T) {
	c, err := NewCache("", 0)
	require.NoError(t, err)
	assert.IsType(t, &BoundedCache{}, c)

	c, err = NewCache(PolicyLRU, 10)
	require.NoError(t, err)
	assert.IsType(t, &LRUCache{}, c)

	_, err = NewCache("random", 10)
	assert.Error(t, err)
}

func TestTextAll(t *testing.T) {
	text := PagedText([]string{"one", "two"})
	assert.Equal(t, "one\ntwo", text.All())
	assert.Equal(t, 2, text.PageCount())

	whole := WholeText("blob")
	assert.Equal(t, "blob", whole.All())
	assert.Equal(t, 0, whole.PageCount())
}
