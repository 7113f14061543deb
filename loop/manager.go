package loop

import "log"

// SpawnFunc produces the body (and optional interaction collaborator) a new
// clone will drive. The manager never constructs physics bodies itself.
type SpawnFunc func(id int) (Body, Interactor)

// DespawnFunc releases a clone's body when it is evicted or cleared.
type DespawnFunc func(id int, b Body)

// Settings configures a Manager. The core only ever operates on tick counts;
// translating wall-clock configuration into ticks is the config layer's job.
type Settings struct {
	// Capacity is the maximum number of simultaneous replayers, at least 1.
	Capacity int
	// LoopDurationTicks is the automatic loop length. Zero means no
	// automatic boundary: manual triggers only.
	LoopDurationTicks int

	Spawn   SpawnFunc
	Despawn DespawnFunc
}

// Manager owns the recording session lifecycle and the bounded population of
// replayers. At most one session is open at a time; the replayer collection
// is FIFO by creation order and capped at Capacity, enforced by evicting the
// oldest clone at insertion, never by refusing creation.
//
// All operations are idempotent no-ops on invalid preconditions. A player
// double-pressing the loop key must never corrupt state.
type Manager struct {
	capacity int
	duration int
	spawn    SpawnFunc
	despawn  DespawnFunc

	recorder  *Recorder
	replayers []*Replayer
	nextID    int
	elapsed   int
	events    EventQueue
}

// NewManager creates a manager with the given settings.
func NewManager(s Settings) *Manager {
	if s.Capacity < 1 {
		s.Capacity = 1
	}
	if s.LoopDurationTicks < 0 {
		s.LoopDurationTicks = 0
	}
	return &Manager{
		capacity: s.Capacity,
		duration: s.LoopDurationTicks,
		spawn:    s.Spawn,
		despawn:  s.Despawn,
		recorder: NewRecorder(),
		nextID:   1,
	}
}

// Recording reports whether a session is open.
func (m *Manager) Recording() bool {
	return m != nil && m.recorder.Sampling()
}

// Elapsed returns ticks elapsed in the current session.
func (m *Manager) Elapsed() int {
	if m == nil {
		return 0
	}
	return m.elapsed
}

// Replayers returns a snapshot of the live replayers in creation order. The
// manager exclusively owns the underlying collection.
func (m *Manager) Replayers() []*Replayer {
	if m == nil {
		return nil
	}
	out := make([]*Replayer, 0, len(m.replayers))
	return append(out, m.replayers...)
}

// Events returns the outward event queue, drained by the composer each tick.
func (m *Manager) Events() *EventQueue {
	if m == nil {
		return nil
	}
	return &m.events
}

// StartNewLoop opens a recording session. No-op while one is already open.
func (m *Manager) StartNewLoop() {
	if m == nil {
		return
	}
	if m.recorder.Sampling() {
		log.Printf("loop: StartNewLoop while session active, ignoring")
		return
	}
	m.recorder.Start()
	m.elapsed = 0
	m.events.Push(Event{Type: EventSessionStarted})
}

// Sample records one frame from the live body's inputs and state. Call once
// per tick, before Tick. Silently ignored while no session is open: the
// composer samples every tick and the session gate lives here, so an idle
// sample is normal operation, not caller misuse.
func (m *Manager) Sample(in Input, live Body) {
	if m == nil || !m.recorder.Sampling() {
		return
	}
	m.recorder.Sample(in, live)
}

// Tick advances the simulation by one fixed step: every live replayer steps
// once (replay and recording proceed concurrently), then the session timer
// advances and may trigger the automatic loop boundary.
func (m *Manager) Tick() {
	if m == nil {
		return
	}
	for _, rp := range m.replayers {
		if rp.State() != Replaying {
			continue
		}
		switch rp.Step() {
		case Completed:
			m.events.Push(Event{Type: EventCloneCompleted, Data: CloneEvent{ID: rp.ID()}})
		case Stuck:
			m.events.Push(Event{Type: EventCloneStuck, Data: CloneEvent{ID: rp.ID()}})
		}
	}

	if m.recorder.Sampling() {
		m.elapsed++
		if m.duration > 0 && m.elapsed >= m.duration {
			m.EndCurrentLoop()
		}
	}
}

// EndCurrentLoop seals the open session. A non-empty recording becomes a new
// replaying clone, evicting the oldest clone first if the population is at
// capacity. An empty recording creates nothing. No-op when no session is
// open.
func (m *Manager) EndCurrentLoop() {
	if m == nil || !m.recorder.Sampling() {
		return
	}
	rec := m.recorder.Stop()
	if rec.Empty() {
		m.events.Push(Event{Type: EventSessionEnded, Data: SessionEnded{}})
		return
	}
	if m.spawn == nil {
		log.Printf("loop: EndCurrentLoop with no spawner configured, recording discarded")
		m.events.Push(Event{Type: EventSessionEnded, Data: SessionEnded{Frames: rec.Len()}})
		return
	}

	for len(m.replayers) >= m.capacity {
		m.evictOldest()
	}

	id := m.nextID
	m.nextID++
	body, interactor := m.spawn(id)
	rp := NewReplayer(id, rec)
	if interactor != nil {
		rp.AttachInteractor(interactor)
	}
	rp.StartReplay(body)
	m.replayers = append(m.replayers, rp)
	m.events.Push(Event{Type: EventSessionEnded, Data: SessionEnded{
		CloneCreated: true,
		CloneID:      id,
		Frames:       rec.Len(),
	}})
}

// TriggerManualLoop toggles the session boundary: starts a session while
// idle, ends it while active. A single control surface for the loop key.
func (m *Manager) TriggerManualLoop() {
	if m == nil {
		return
	}
	if m.recorder.Sampling() {
		m.EndCurrentLoop()
		return
	}
	m.StartNewLoop()
}

// ForceStop moves the identified clone to Stuck and reports it. No-op for
// unknown ids or clones that are not replaying.
func (m *Manager) ForceStop(id int) {
	if m == nil {
		return
	}
	for _, rp := range m.replayers {
		if rp.ID() != id || rp.State() != Replaying {
			continue
		}
		rp.ForceStop()
		m.events.Push(Event{Type: EventCloneStuck, Data: CloneEvent{ID: rp.ID()}})
		return
	}
}

// ClearAll discards every live replayer and releases their bodies. An
// in-progress recording session is unaffected.
func (m *Manager) ClearAll() {
	if m == nil {
		return
	}
	for _, rp := range m.replayers {
		rp.ForceStop()
		if m.despawn != nil {
			m.despawn(rp.ID(), rp.Body())
		}
		m.events.Push(Event{Type: EventCloneEvicted, Data: CloneEvent{ID: rp.ID()}})
	}
	m.replayers = nil
}

// SetCapacity retunes the population bound at runtime. Lowering it below the
// current population evicts oldest-first immediately so the invariant holds.
func (m *Manager) SetCapacity(n int) {
	if m == nil {
		return
	}
	if n < 1 {
		n = 1
	}
	m.capacity = n
	for len(m.replayers) > m.capacity {
		m.evictOldest()
	}
}

// SetLoopDuration retunes the automatic loop length in ticks. Zero disables
// the automatic boundary. Takes effect on the next Tick.
func (m *Manager) SetLoopDuration(ticks int) {
	if m == nil {
		return
	}
	if ticks < 0 {
		ticks = 0
	}
	m.duration = ticks
}

func (m *Manager) evictOldest() {
	if len(m.replayers) == 0 {
		return
	}
	ev := m.replayers[0]
	m.replayers = m.replayers[1:]
	if m.despawn != nil {
		m.despawn(ev.ID(), ev.Body())
	}
	m.events.Push(Event{Type: EventCloneEvicted, Data: CloneEvent{ID: ev.ID()}})
}
