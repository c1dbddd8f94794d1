package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time { return c.t }

func newTestSessions(sub Submitter, max int, clock *manualClock) *WidgetSessions {
	return NewWidgetSessions(newTestMachine(VariantWidget, sub), testPresets, "ETH", 10*time.Minute, max, clock.now)
}

func TestWidgetSessions_Flow(t *testing.T) {
	clock := &manualClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	sub := &fakeSubmitter{out: Outcome{TxHash: "0xabc", ThankYou: "Thanks!"}}
	w := newTestSessions(sub, 10, clock)
	ctx := context.Background()

	v, err := w.Start(ctx, creatorID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "select_amount", v.State.State)
	assert.Equal(t, testPresets, v.Presets)
	assert.Equal(t, clock.t.Add(10*time.Minute), v.ExpiresAt)

	_, err = w.Dispatch(ctx, v.ID, ChoosePreset{Amount: "0.02"}, "alice")
	assert.ErrorIs(t, err, ErrPresetNotOffered)

	v, err = w.Dispatch(ctx, v.ID, ChoosePreset{Amount: "0.05"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "add_message", v.State.State)

	v, err = w.Dispatch(ctx, v.ID, SkipMessage{}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Send 0.05 ETH to alice", v.Subtitle)

	v, err = w.Dispatch(ctx, v.ID, Submit{TxHash: "0xabc"}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "error", v.State.State)
	assert.Equal(t, "Connect your wallet to tip", v.State.Error)

	v, err = w.Dispatch(ctx, v.ID, TryAgain{}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "select_amount", v.State.State)
	assert.Equal(t, creatorID, v.State.CreatorID)

	id, err := w.CreatorOf(v.ID)
	require.NoError(t, err)
	assert.Equal(t, creatorID, id)
}

func TestWidgetSessions_Expiry(t *testing.T) {
	clock := &manualClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	w := newTestSessions(&fakeSubmitter{}, 10, clock)

	v, err := w.Start(context.Background(), creatorID, "")
	require.NoError(t, err)

	clock.t = clock.t.Add(5 * time.Minute)
	_, err = w.Get(v.ID, "")
	require.NoError(t, err)

	clock.t = clock.t.Add(11 * time.Minute)
	_, err = w.Get(v.ID, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, w.Len())
}

func TestWidgetSessions_Bounded(t *testing.T) {
	clock := &manualClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	w := newTestSessions(&fakeSubmitter{}, 2, clock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := w.Start(ctx, creatorID, "")
		require.NoError(t, err)
	}
	_, err := w.Start(ctx, creatorID, "")
	assert.ErrorIs(t, err, ErrTooManySessions)

	clock.t = clock.t.Add(time.Hour)
	_, err = w.Start(ctx, creatorID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, w.Len())
}

type blockingSubmitter struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSubmitter) SubmitTip(context.Context, Submission) Outcome {
	close(b.entered)
	<-b.release
	return Outcome{TxHash: "0xabc"}
}

func TestWidgetSessions_ReadsDuringSubmit(t *testing.T) {
	sub := &blockingSubmitter{entered: make(chan struct{}), release: make(chan struct{})}
	w := newTestSessions(sub, 10, &manualClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)})
	ctx := context.Background()

	v, err := w.Start(ctx, creatorID, "alice")
	require.NoError(t, err)
	_, err = w.Dispatch(ctx, v.ID, ChoosePreset{Amount: "0.01"}, "alice")
	require.NoError(t, err)
	_, err = w.Dispatch(ctx, v.ID, SkipMessage{}, "alice")
	require.NoError(t, err)

	done := make(chan SessionView)
	go func() {
		out, _ := w.Dispatch(ctx, v.ID, Submit{FanAddress: "0x1", TxHash: "0xabc"}, "alice")
		done <- out
	}()
	<-sub.entered

	read := make(chan SessionView)
	go func() {
		got, _ := w.Get(v.ID, "alice")
		read <- got
	}()
	select {
	case got := <-read:
		assert.Equal(t, "confirm", got.State.State)
	case <-time.After(2 * time.Second):
		t.Fatal("Get blocked behind a pending submission")
	}
	id, err := w.CreatorOf(v.ID)
	require.NoError(t, err)
	assert.Equal(t, creatorID, id)

	close(sub.release)
	assert.Equal(t, "success", (<-done).State.State)

	got, err := w.Get(v.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "success", got.State.State)
}

func TestWidgetSessions_UnknownSession(t *testing.T) {
	w := newTestSessions(&fakeSubmitter{}, 0, &manualClock{t: time.Now()})
	_, err := w.Dispatch(context.Background(), "missing", Back{}, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestEventRequest(t *testing.T) {
	ev, err := EventRequest{Type: "Submit", FanAddress: "0x1", TxHash: "0xabc"}.Event()
	require.NoError(t, err)
	assert.Equal(t, Submit{FanAddress: "0x1", TxHash: "0xabc"}, ev)

	ev, err = EventRequest{Type: "enter_custom", Input: "0.3"}.Event()
	require.NoError(t, err)
	assert.Equal(t, EnterCustom{Input: "0.3"}, ev)

	_, err = EventRequest{Type: "explode"}.Event()
	assert.ErrorIs(t, err, ErrUnknownEvent)
}
