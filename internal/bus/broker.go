package bus

import (
	"fmt"
	"sync/atomic"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"
)

// DefaultSignalBuffer is the per-subscriber channel depth used when the
// configured buffer size is zero.
const DefaultSignalBuffer = 16

// Broker is the in-memory bus: it fans signals out to subscribers and keeps
// the exported object table. Emit never blocks; a subscriber that falls
// behind loses signals.
type Broker struct {
	logger  *logrus.Entry
	bufSize int
	nextSub atomic.Uint64
	subs    *hashmap.Map[uint64, chan Signal]
	objects *hashmap.Map[string, any]
}

func NewBroker(bufSize int, logger *logrus.Logger) *Broker {
	if bufSize <= 0 {
		bufSize = DefaultSignalBuffer
	}
	return &Broker{
		logger:  logger.WithField("component", "bus"),
		bufSize: bufSize,
		subs:    hashmap.New[uint64, chan Signal](),
		objects: hashmap.New[string, any](),
	}
}

// Subscribe registers a signal listener. The returned cancel func
// unsubscribes and closes the channel.
func (b *Broker) Subscribe() (<-chan Signal, func()) {
	id := b.nextSub.Add(1)
	ch := make(chan Signal, b.bufSize)
	b.subs.Set(id, ch)

	return ch, func() {
		if b.subs.Del(id) {
			close(ch)
		}
	}
}

func (b *Broker) Emit(name, path string) {
	sig := Signal{Name: name, Path: path}
	b.logger.WithFields(logrus.Fields{
		"signal": name,
		"path":   path,
	}).Debug("Emitting signal")

	b.subs.Range(func(id uint64, ch chan Signal) bool {
		select {
		case ch <- sig:
		default:
			b.logger.WithFields(logrus.Fields{
				"signal":     name,
				"subscriber": id,
			}).Warn("Subscriber queue full, dropping signal")
		}
		return true
	})
}

// Export publishes an object under path. It fails when the path is taken.
func (b *Broker) Export(path string, obj any) error {
	if !b.objects.Insert(path, obj) {
		return fmt.Errorf("path %s is already exported", path)
	}
	b.logger.WithField("path", path).Debug("Exported object path")
	return nil
}

func (b *Broker) Unexport(path string) {
	b.objects.Del(path)
}

// Object looks up an exported object by path.
func (b *Broker) Object(path string) (any, bool) {
	return b.objects.Get(path)
}
