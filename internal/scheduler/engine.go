// Package scheduler fires due reminders on a channel. Events are kept in a
// min-heap keyed by trigger time and delivered without blocking the loop.
package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrEmptyID            = errors.New("scheduler: reminder id is empty")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

// ReminderEvent is a reminder that comes due for an assistant message.
type ReminderEvent struct {
	ID        string
	MessageID string
	Label     string
	TriggerAt time.Time
}

type queueItem struct {
	event ReminderEvent
	index int
}

type eventQueue []*queueItem

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	return q[i].event.TriggerAt.Before(q[j].event.TriggerAt)
}

func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *eventQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   eventQueue
	byID    map[string]*queueItem
	out     chan ReminderEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		byID:   make(map[string]*queueItem),
		out:    make(chan ReminderEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C delivers due reminders. It is closed after Stop.
func (e *Engine) C() <-chan ReminderEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	go e.loop()
}

// Stop halts the loop and waits for it to exit. Pending reminders are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
	} else {
		close(e.out)
	}
}

// Schedule queues ev. Scheduling an id that is already pending replaces it.
func (e *Engine) Schedule(ev ReminderEvent) error {
	if ev.ID == "" {
		return ErrEmptyID
	}
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	if existing, ok := e.byID[ev.ID]; ok {
		existing.event = ev
		heap.Fix(&e.queue, existing.index)
	} else {
		item := &queueItem{event: ev}
		heap.Push(&e.queue, item)
		e.byID[ev.ID] = item
	}
	e.signalWakeup()
	return nil
}

// Cancel removes a pending reminder. It reports whether one was removed.
func (e *Engine) Cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	item, ok := e.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&e.queue, item.index)
	delete(e.byID, id)
	e.signalWakeup()
	return true
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Dropped counts due reminders discarded because the consumer fell behind.
func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(time.Now().UTC()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (ReminderEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return ReminderEvent{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []ReminderEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []ReminderEvent
	for len(e.queue) > 0 {
		if e.queue[0].event.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(*queueItem)
		delete(e.byID, item.event.ID)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
