package notify

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDrainClears(t *testing.T) {
	var q Queue
	q.Notify("created", Success)
	q.Notify("boom", Error)

	got := q.Drain()
	assert.Equal(t, []Message{{Text: "created", Kind: Success}, {Text: "boom", Kind: Error}}, got)
	assert.Empty(t, q.Drain())
}

func TestQueueConcurrentNotify(t *testing.T) {
	var q Queue
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Notify("x", Info)
		}()
	}
	wg.Wait()
	assert.Len(t, q.Drain(), 50)
}

func TestRecorderLast(t *testing.T) {
	var r Recorder
	_, ok := r.Last()
	assert.False(t, ok)

	r.Notify("one", Info)
	r.Notify("two", Success)
	last, ok := r.Last()
	require.True(t, ok)
	assert.Equal(t, Message{Text: "two", Kind: Success}, last)
	assert.Len(t, r.Messages(), 2)
}

func TestWriterFormatsKind(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Notify("Book deleted.", Success)
	w.Notify("nope", Error)
	assert.Equal(t, "success: Book deleted.\nerror: nope\n", buf.String())
}

func TestFuncAdapter(t *testing.T) {
	var seen []string
	n := Func(func(m string, k Kind) { seen = append(seen, k.String()+":"+m) })
	n.Notify("hi", Info)
	Discard.Notify("dropped", Error)
	assert.Equal(t, []string{"info:hi"}, seen)
}
