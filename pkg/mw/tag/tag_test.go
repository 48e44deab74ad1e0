package tag

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ib-77/mwutil/pkg/mw"
	"github.com/ib-77/mwutil/pkg/mw/flow"
)

type page struct {
	Path    string
	Content string
}

type capture struct {
	calls int
	err   error
	view  *page
}

func (c *capture) next(err error, view ...*page) {
	c.calls++
	c.err = err
	if len(view) > 0 {
		c.view = view[0]
	}
}

func TestTag_AnnotatesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	p := &page{Path: "abc.md"}
	c := &capture{}

	Must[*page]("stageName").Tag(boom, p, c.next)

	require.Equal(t, 1, c.calls)
	var tagged *mw.TaggedError[*page]
	require.ErrorAs(t, c.err, &tagged)
	assert.Equal(t, "stageName", tagged.Stage)
	assert.Same(t, p, tagged.View)
	assert.ErrorIs(t, c.err, boom)
	assert.Nil(t, c.view, "errors are forwarded without a view")
	assert.Equal(t, "stageName middleware error: boom", c.err.Error())
}

func TestTag_SuccessPassesView(t *testing.T) {
	t.Parallel()

	p := &page{}
	c := &capture{}
	Must[*page]("render").Tag(nil, p, c.next)

	assert.Equal(t, 1, c.calls)
	assert.NoError(t, c.err)
	assert.Same(t, p, c.view)
}

func TestTag_FirstTaggerWins(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	first, second := &page{Path: "a"}, &page{Path: "b"}

	c := &capture{}
	Must[*page]("preRender").Tag(boom, first, c.next)
	inner := c.err

	Must[*page]("postRender").Tag(inner, second, c.next)

	assert.Same(t, inner, c.err)
	stage, ok := mw.StageOf(c.err)
	assert.True(t, ok)
	assert.Equal(t, "preRender", stage)
}

func TestTag_DefaultRethrows(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tagger := Must[*page]("x")

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, boom)
		stage, _ := mw.StageOf(err)
		assert.Equal(t, "x", stage)
	}()
	tagger.Tag(boom, &page{}, nil)
}

func TestTag_NoNextOnSuccessIsNoop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		Must[*page]("x").Tag(nil, &page{}, nil)
	})
}

func TestTag_Policies(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	assert.NotPanics(t, func() {
		Must[*page]("x", OnUnhandled(Swallow)).Tag(boom, &page{}, nil)
	})

	var got error
	Must[*page]("x", OnUnhandled(func(err error) { got = err })).Tag(boom, &page{}, nil)
	assert.ErrorIs(t, got, boom)

	assert.Panics(t, func() {
		Must[*page]("x", OnUnhandled(nil)).Tag(boom, &page{}, nil)
	}, "a nil handler keeps the rethrow default")
}

func TestTag_LogPolicy(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	Must[*page]("postRender", OnUnhandled(Log[*page](logger))).
		Tag(errors.New("boom"), &page{Path: "abc.md"}, nil)

	out := buf.String()
	assert.Contains(t, out, `"stage":"postRender"`)
	assert.Contains(t, out, `"Path":"abc.md"`)
	assert.Contains(t, out, `"error":"postRender middleware error: boom"`)
	assert.Contains(t, out, `"message":"middleware error"`)
}

func TestNew_RejectsEmptyStage(t *testing.T) {
	t.Parallel()

	_, err := New[*page]("")
	assert.ErrorIs(t, err, ErrEmptyStage)

	_, err = HandleError[*page](&page{}, "", nil)
	assert.ErrorIs(t, err, ErrEmptyStage)

	assert.Panics(t, func() { Must[*page]("") })
}

func TestHandleError_BridgesBareError(t *testing.T) {
	t.Parallel()

	p := &page{Path: "abc.md"}
	c := &capture{}
	handle, err := HandleError[*page](p, "onFoo", c.next)
	require.NoError(t, err)

	handle(nil)
	assert.Equal(t, 1, c.calls)
	assert.Same(t, p, c.view)

	boom := errors.New("boom")
	handle(boom)
	assert.Equal(t, 2, c.calls)
	var tagged *mw.TaggedError[*page]
	require.ErrorAs(t, c.err, &tagged)
	assert.Equal(t, "onFoo", tagged.Stage)
	assert.Same(t, p, tagged.View)
}

func TestHandleError_DefaultFailFast(t *testing.T) {
	t.Parallel()

	handle, err := HandleError[*page](&page{}, "foo", nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() { handle(nil) })
	assert.Panics(t, func() { handle(errors.New("boom")) })
}

func TestWrap_TagsInsideSeries(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	ok := mw.Tee(func(_ context.Context, p *page) { p.Content += "a" })
	bad := mw.Try(func(context.Context, *page) error { return boom })

	fn := flow.MustSeries[*page](
		Must[*page]("first").Wrap(ok),
		Must[*page]("second").Wrap(bad),
		Must[*page]("third").Wrap(ok),
	)

	p := &page{}
	r := flow.Run(context.Background(), fn, p)

	require.True(t, r.IsFailure())
	stage, found := mw.StageOf(r.Err())
	assert.True(t, found)
	assert.Equal(t, "second", stage)
	assert.ErrorIs(t, r.Err(), boom)
	assert.Equal(t, "a", p.Content)
}

func TestWrap_TagsPanicInsideSeries(t *testing.T) {
	t.Parallel()

	ok := mw.Tee(func(_ context.Context, p *page) { p.Content += "a" })
	explode := func(context.Context, *page, mw.Next[*page]) { panic("boom") }

	fn := flow.MustSeries[*page](
		Must[*page]("first").Wrap(ok),
		Must[*page]("second").Wrap(explode),
		Must[*page]("third").Wrap(ok),
	)

	p := &page{}
	r := flow.Run(context.Background(), fn, p)

	require.True(t, r.IsFailure())
	stage, found := mw.StageOf(r.Err())
	assert.True(t, found)
	assert.Equal(t, "second", stage)

	var panicErr *mw.PanicError
	require.ErrorAs(t, r.Err(), &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
	assert.Equal(t, "a", p.Content)
}

func TestWrap_PanicWithoutNextUsesPolicy(t *testing.T) {
	t.Parallel()

	var got error
	tg := Must[*page]("render", OnUnhandled(func(err error) { got = err }))
	explode := func(context.Context, *page, mw.Next[*page]) { panic(errors.New("boom")) }

	assert.NotPanics(t, func() { tg.Wrap(explode)(context.Background(), &page{}, nil) })

	stage, found := mw.StageOf(got)
	assert.True(t, found)
	assert.Equal(t, "render", stage)
}

func TestWrap_PanicAfterNextIsLeftToCaller(t *testing.T) {
	t.Parallel()

	late := func(_ context.Context, _ *page, next mw.Next[*page]) {
		next(nil)
		panic("late")
	}

	c := &capture{}
	assert.PanicsWithValue(t, "late", func() {
		Must[*page]("late").Wrap(late)(context.Background(), &page{}, c.next)
	})
	assert.Equal(t, 1, c.calls)
	assert.NoError(t, c.err)
}

func TestWrap_KeepsResultView(t *testing.T) {
	t.Parallel()

	inc := mw.Map(func(_ context.Context, n int) (int, error) { return n + 1, nil })
	r := flow.Run(context.Background(), Must[int]("inc").Wrap(inc), 1)

	assert.True(t, r.IsSuccess())
	assert.Equal(t, 2, r.View())
}
