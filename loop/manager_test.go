package loop

import (
	"bytes"
	"log"
	"os"
	"testing"
)

type testHarness struct {
	m         *Manager
	live      *fakeBody
	spawned   []int
	despawned []int
}

func newTestHarness(capacity, durationTicks int) *testHarness {
	h := &testHarness{live: &fakeBody{}}
	h.m = NewManager(Settings{
		Capacity:          capacity,
		LoopDurationTicks: durationTicks,
		Spawn: func(id int) (Body, Interactor) {
			h.spawned = append(h.spawned, id)
			return &fakeBody{}, nil
		},
		Despawn: func(id int, b Body) {
			h.despawned = append(h.despawned, id)
		},
	})
	return h
}

// runLoop records one manual session of n frames.
func (h *testHarness) runLoop(n int) {
	h.m.StartNewLoop()
	for i := 0; i < n; i++ {
		h.m.Sample(Input{MoveX: 1}, h.live)
		h.m.Tick()
	}
	h.m.EndCurrentLoop()
}

func replayerIDs(m *Manager) []int {
	ids := []int{}
	for _, rp := range m.Replayers() {
		ids = append(ids, rp.ID())
	}
	return ids
}

func eventTypes(m *Manager) []string {
	types := []string{}
	for _, evt := range m.Events().Drain() {
		types = append(types, evt.Type)
	}
	return types
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestManagerSampleWhileIdleIsSilent(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	h := newTestHarness(2, 0)
	// one idle second at 60 TPS must not flood the log
	for i := 0; i < 60; i++ {
		h.m.Sample(Input{MoveX: 1}, h.live)
		h.m.Tick()
	}
	if buf.Len() != 0 {
		t.Fatalf("idle Sample should not log warnings, got:\n%s", buf.String())
	}

	// and the dropped samples must not leak into the next session
	h.m.StartNewLoop()
	h.m.Sample(Input{}, h.live)
	h.m.Tick()
	h.m.EndCurrentLoop()
	for _, evt := range h.m.Events().Drain() {
		if evt.Type == EventSessionEnded {
			if se := evt.Data.(SessionEnded); se.Frames != 1 {
				t.Fatalf("expected 1 recorded frame, got %d", se.Frames)
			}
		}
	}
}

func TestManagerCapacityEvictsOldest(t *testing.T) {
	// capacity 2, three loops of 10 frames: clone #1 is evicted
	h := newTestHarness(2, 0)
	for i := 0; i < 3; i++ {
		h.runLoop(10)
		if len(h.m.Replayers()) > 2 {
			t.Fatalf("capacity invariant violated: %d replayers", len(h.m.Replayers()))
		}
	}
	if got := replayerIDs(h.m); !equalInts(got, []int{2, 3}) {
		t.Fatalf("expected clones [2 3], got %v", got)
	}
	if !equalInts(h.despawned, []int{1}) {
		t.Fatalf("expected clone 1 released, got %v", h.despawned)
	}
}

func TestManagerAutomaticLoopBoundary(t *testing.T) {
	h := newTestHarness(4, 50)
	h.m.StartNewLoop()
	for i := 0; i < 50; i++ {
		h.m.Sample(Input{MoveX: 1}, h.live)
		h.m.Tick()
	}
	if h.m.Recording() {
		t.Fatalf("session should have auto-ended at 50 ticks")
	}
	if len(h.m.Replayers()) != 1 {
		t.Fatalf("expected exactly one clone, got %d", len(h.m.Replayers()))
	}

	var ended *SessionEnded
	for _, evt := range h.m.Events().Drain() {
		if evt.Type == EventSessionEnded {
			if ended != nil {
				t.Fatalf("more than one session-ended event")
			}
			se := evt.Data.(SessionEnded)
			ended = &se
		}
	}
	if ended == nil || !ended.CloneCreated || ended.Frames != 50 {
		t.Fatalf("expected one clone from a 50-frame recording, got %+v", ended)
	}
}

func TestManagerEmptyRecordingCreatesNoClone(t *testing.T) {
	h := newTestHarness(2, 0)
	h.m.StartNewLoop()
	h.m.EndCurrentLoop()
	if len(h.m.Replayers()) != 0 || len(h.spawned) != 0 {
		t.Fatalf("empty recording must not create a clone")
	}

	sawEnded := false
	for _, evt := range h.m.Events().Drain() {
		if evt.Type == EventSessionEnded {
			sawEnded = true
			if se := evt.Data.(SessionEnded); se.CloneCreated {
				t.Fatalf("session-ended should report no clone, got %+v", se)
			}
		}
	}
	if !sawEnded {
		t.Fatalf("expected a session-ended event")
	}
}

func TestManagerManualToggle(t *testing.T) {
	h := newTestHarness(2, 0)
	h.m.TriggerManualLoop()
	if !h.m.Recording() {
		t.Fatalf("toggle while idle should start a session")
	}
	h.m.Sample(Input{}, h.live)
	h.m.Tick()
	h.m.TriggerManualLoop()
	if h.m.Recording() {
		t.Fatalf("toggle while active should end the session")
	}
	if len(h.m.Replayers()) != 1 {
		t.Fatalf("expected one clone from the toggled loop, got %d", len(h.m.Replayers()))
	}
}

func TestManagerDoubleStartAndDoubleEndAreNoops(t *testing.T) {
	h := newTestHarness(2, 0)
	h.m.EndCurrentLoop() // nothing active
	h.m.StartNewLoop()
	h.m.StartNewLoop() // second start ignored
	h.m.Sample(Input{}, h.live)
	h.m.Tick()
	h.m.EndCurrentLoop()
	h.m.EndCurrentLoop() // second end ignored

	if len(h.m.Replayers()) != 1 {
		t.Fatalf("expected one clone, got %d", len(h.m.Replayers()))
	}
}

func TestManagerStepsReplayersWhileRecording(t *testing.T) {
	h := newTestHarness(2, 0)
	h.runLoop(4)
	clone := h.m.Replayers()[0]

	// recording and replay proceed concurrently
	h.m.StartNewLoop()
	for i := 0; i < 4; i++ {
		h.m.Sample(Input{}, h.live)
		h.m.Tick()
	}
	if clone.State() != Completed {
		t.Fatalf("clone should have finished its 4 frames during the next session, state=%s", clone.State())
	}

	sawCompleted := false
	for _, evt := range h.m.Events().Drain() {
		if evt.Type == EventCloneCompleted && evt.Data.(CloneEvent).ID == clone.ID() {
			sawCompleted = true
		}
	}
	if !sawCompleted {
		t.Fatalf("expected a clone-completed event")
	}
}

func TestManagerForceStop(t *testing.T) {
	h := newTestHarness(2, 0)
	h.runLoop(10)
	clone := h.m.Replayers()[0]
	h.m.Events().Drain()

	h.m.ForceStop(clone.ID())
	if clone.State() != Stuck {
		t.Fatalf("expected Stuck after ForceStop, got %s", clone.State())
	}
	types := eventTypes(h.m)
	if len(types) != 1 || types[0] != EventCloneStuck {
		t.Fatalf("expected one clone-stuck event, got %v", types)
	}

	// repeated force stop on a terminal clone emits nothing
	h.m.ForceStop(clone.ID())
	if got := eventTypes(h.m); len(got) != 0 {
		t.Fatalf("expected no further events, got %v", got)
	}
}

func TestManagerClearAll(t *testing.T) {
	h := newTestHarness(3, 0)
	h.runLoop(5)
	h.runLoop(5)

	h.m.StartNewLoop()
	h.m.ClearAll()
	if len(h.m.Replayers()) != 0 {
		t.Fatalf("ClearAll should discard every replayer")
	}
	if !equalInts(h.despawned, []int{1, 2}) {
		t.Fatalf("ClearAll should release every body, got %v", h.despawned)
	}
	if !h.m.Recording() {
		t.Fatalf("ClearAll must not touch the in-progress session")
	}
}

func TestManagerSetCapacityEvictsImmediately(t *testing.T) {
	h := newTestHarness(3, 0)
	h.runLoop(5)
	h.runLoop(5)
	h.runLoop(5)

	h.m.SetCapacity(1)
	if got := replayerIDs(h.m); !equalInts(got, []int{3}) {
		t.Fatalf("lowering capacity should evict oldest-first, got %v", got)
	}
	if !equalInts(h.despawned, []int{1, 2}) {
		t.Fatalf("expected clones 1 and 2 released in order, got %v", h.despawned)
	}
}

func TestManagerIdentitiesNeverReused(t *testing.T) {
	h := newTestHarness(1, 0)
	for i := 0; i < 4; i++ {
		h.runLoop(2)
	}
	if got := replayerIDs(h.m); !equalInts(got, []int{4}) {
		t.Fatalf("expected the latest clone to be #4, got %v", got)
	}
	if !equalInts(h.despawned, []int{1, 2, 3}) {
		t.Fatalf("expected clones released in creation order, got %v", h.despawned)
	}
}
