package adapter

import (
	"context"
	"fmt"
	"sync"
)

// Loopback is an in-process adapter with scripted discovery results, used by
// tests and the demo serve mode. Devices are configured with the fluent
// WithDevice/WithHandles/WithRecord chain.
type Loopback struct {
	mu      sync.Mutex
	current string
	handles map[string]map[string][]uint32 // address -> category uuid -> handles
	records map[string]map[uint32][]byte   // address -> handle -> record bytes

	failHandles error
	failRecords map[uint32]error

	// recordHook runs before each record fetch is served, outside the lock,
	// so a test can hold a fetch open while driving the manager.
	recordHook func(handle uint32)

	finished map[string]int
	calls    []string
}

func NewLoopback() *Loopback {
	return &Loopback{
		handles:     make(map[string]map[string][]uint32),
		records:     make(map[string]map[uint32][]byte),
		failRecords: make(map[uint32]error),
		finished:    make(map[string]int),
	}
}

// WithDevice selects the device the following WithHandles/WithRecord calls
// configure.
func (l *Loopback) WithDevice(address string) *Loopback {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = address
	if _, ok := l.handles[address]; !ok {
		l.handles[address] = make(map[string][]uint32)
		l.records[address] = make(map[uint32][]byte)
	}
	return l
}

// WithHandles scripts the handle set returned for a category UUID query.
func (l *Loopback) WithHandles(uuid string, handles ...uint32) *Loopback {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.handles[l.current][uuid] = handles
	return l
}

// WithRecord scripts the record bytes returned for one handle.
func (l *Loopback) WithRecord(handle uint32, record []byte) *Loopback {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records[l.current][handle] = record
	return l
}

// FailHandlesWith makes every handles query fail with err.
func (l *Loopback) FailHandlesWith(err error) *Loopback {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failHandles = err
	return l
}

// OnRecord registers a hook invoked before each record fetch is served.
func (l *Loopback) OnRecord(fn func(handle uint32)) *Loopback {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.recordHook = fn
	return l
}

// FailRecordWith makes the record fetch for one handle fail with err.
func (l *Loopback) FailRecordWith(handle uint32, err error) *Loopback {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.failRecords[handle] = err
	return l
}

func (l *Loopback) GetRemoteServiceHandles(ctx context.Context, address, uuid string) ([]uint32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, "GetRemoteServiceHandles")
	if l.failHandles != nil {
		return nil, l.failHandles
	}
	return l.handles[address][uuid], nil
}

func (l *Loopback) GetRemoteServiceRecord(ctx context.Context, address string, handle uint32) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	hook := l.recordHook
	l.mu.Unlock()
	if hook != nil {
		hook(handle)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, "GetRemoteServiceRecord")
	if err, ok := l.failRecords[handle]; ok {
		return nil, err
	}
	rec, ok := l.records[address][handle]
	if !ok {
		return nil, fmt.Errorf("no record for handle 0x%08x", handle)
	}
	return rec, nil
}

func (l *Loopback) FinishRemoteServiceTransaction(ctx context.Context, address string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.finished[address]++
	return nil
}

// FinishCount reports how many times the discovery transaction for address
// was closed.
func (l *Loopback) FinishCount(address string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.finished[address]
}

// Calls returns the request names issued so far, in order.
func (l *Loopback) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}
