package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type book struct {
	id       int
	authorID int
}

type author struct {
	id   int
	name string
}

type child struct {
	id      int
	ownerID int
}

func bookID(b *book) int       { return b.id }
func bookAuthorID(b *book) int { return b.authorID }
func authorID(a *author) int   { return a.id }

// countingFetch records how it was called and returns rows in reverse order
type countingFetch struct {
	calls int
	keys  []int
	rows  map[int]*author
}

func (f *countingFetch) fetch(_ context.Context, ids []int) ([]*author, error) {
	f.calls++
	f.keys = append([]int(nil), ids...)
	out := make([]*author, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if a, ok := f.rows[ids[i]]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func TestResolveOne_SharedAuthorsSingleFetch(t *testing.T) {
	a1 := &author{id: 10, name: "A1"}
	a2 := &author{id: 20, name: "A2"}
	f := &countingFetch{rows: map[int]*author{10: a1, 20: a2}}

	books := []*book{{id: 1, authorID: 10}, {id: 2, authorID: 10}, {id: 3, authorID: 20}}

	res, err := ResolveOne(context.Background(), books, bookID, bookAuthorID, authorID, f.fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, f.calls)
	assert.ElementsMatch(t, []int{10, 20}, f.keys)
	assert.Len(t, res.Related, 3)
	assert.Same(t, a1, res.Related[1])
	assert.Same(t, a1, res.Related[2])
	assert.Same(t, a2, res.Related[3])
	assert.Empty(t, res.Orphans)
}

func TestResolveOne_ManyParentsOneDistinctKey(t *testing.T) {
	a := &author{id: 7}
	f := &countingFetch{rows: map[int]*author{7: a}}

	books := make([]*book, 0, 50)
	for i := 0; i < 50; i++ {
		books = append(books, &book{id: i, authorID: 7})
	}

	res, err := ResolveOne(context.Background(), books, bookID, bookAuthorID, authorID, f.fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, []int{7}, f.keys)
	assert.Len(t, res.Related, 50)
}

func TestResolveOne_OrphanOmitted(t *testing.T) {
	a1 := &author{id: 10}
	f := &countingFetch{rows: map[int]*author{10: a1}}

	orphan := &book{id: 2, authorID: 99}
	books := []*book{{id: 1, authorID: 10}, orphan}

	res, err := ResolveOne(context.Background(), books, bookID, bookAuthorID, authorID, f.fetch)
	require.NoError(t, err)

	assert.Len(t, res.Related, 1)
	_, present := res.Related[2]
	assert.False(t, present)
	assert.Equal(t, []*book{orphan}, res.Orphans)
}

func TestResolveOne_EmptyParentsSkipsFetch(t *testing.T) {
	f := &countingFetch{}

	res, err := ResolveOne(context.Background(), nil, bookID, bookAuthorID, authorID, f.fetch)
	require.NoError(t, err)

	assert.Equal(t, 0, f.calls)
	assert.Empty(t, res.Related)
}

func TestResolveOne_FetchError(t *testing.T) {
	boom := errors.New("boom")
	fetch := func(context.Context, []int) ([]*author, error) { return nil, boom }

	_, err := ResolveOne(context.Background(), []*book{{id: 1, authorID: 1}}, bookID, bookAuthorID, authorID, fetch)
	assert.ErrorIs(t, err, boom)
}

func TestResolveOne_DoesNotTouchParents(t *testing.T) {
	f := &countingFetch{rows: map[int]*author{10: {id: 10}}}
	b := &book{id: 1, authorID: 10}
	before := *b

	_, err := ResolveOne(context.Background(), []*book{b}, bookID, bookAuthorID, authorID, f.fetch)
	require.NoError(t, err)
	assert.Equal(t, before, *b)
}

func TestResolveMany_GroupsAndFillsEmpty(t *testing.T) {
	calls := 0
	fetch := func(_ context.Context, ids []int) ([]child, error) {
		calls++
		assert.Equal(t, []int{1, 2, 3}, ids)
		return []child{{id: 102, ownerID: 1}, {id: 201, ownerID: 2}, {id: 101, ownerID: 1}}, nil
	}

	out, err := ResolveMany(context.Background(), []int{1, 2, 3, 1}, func(c child) int { return c.ownerID }, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Len(t, out, 3)
	assert.Len(t, out[1], 2)
	assert.Len(t, out[2], 1)
	assert.NotNil(t, out[3])
	assert.Empty(t, out[3])
}

func TestResolveMany_EmptyInput(t *testing.T) {
	fetch := func(context.Context, []int) ([]child, error) {
		t.Fatal("fetch must not be called")
		return nil, nil
	}

	out, err := ResolveMany(context.Background(), nil, func(c child) int { return c.ownerID }, fetch)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDistinctKeys_KeepsFirstSeenOrder(t *testing.T) {
	got := DistinctKeys([]int{3, 1, 3, 2, 1}, func(i int) int { return i })
	assert.Equal(t, []int{3, 1, 2}, got)
}
