package audio

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srg/btaudio/internal/adapter"
	"github.com/srg/btaudio/internal/profile"
	"github.com/srg/btaudio/internal/sdp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// sdpPhase is the resolution session phase. Phases advance strictly and are
// never revisited.
type sdpPhase int

const (
	phaseQueryGeneric sdpPhase = iota
	phaseQueryAdvanced
	phaseQueryAVRemote
	phaseFetchRecords
)

func (p sdpPhase) String() string {
	switch p {
	case phaseQueryGeneric:
		return "QUERY_GENERIC"
	case phaseQueryAdvanced:
		return "QUERY_ADVANCED"
	case phaseQueryAVRemote:
		return "QUERY_AV_REMOTE"
	default:
		return "FETCH_RECORDS"
	}
}

// categoryUUID returns the service category queried in a handles phase.
func (p sdpPhase) categoryUUID() string {
	switch p {
	case phaseQueryGeneric:
		return sdp.GenericAudioUUID
	case phaseQueryAdvanced:
		return sdp.AdvancedAudioUUID
	default:
		return sdp.AVRemoteUUID
	}
}

// session is the transient state of one service discovery run against a
// single device. At most one session per device at a time is a caller
// contract; concurrent sessions for different devices are independent.
type session struct {
	device   *Device
	explicit bool
	required []profile.Interface

	// handles holds not-yet-fetched service handles: insertion order gives
	// FIFO fetching, the map keying suppresses duplicates across phases.
	handles *orderedmap.OrderedMap[uint32, struct{}]
	records []*sdp.Record
	phase   sdpPhase

	logger *logrus.Entry
}

func newSession(d *Device, explicit bool, required []profile.Interface, logger *logrus.Logger) *session {
	return &session{
		device:   d,
		explicit: explicit,
		required: required,
		handles:  orderedmap.New[uint32, struct{}](),
		logger: logger.WithFields(logrus.Fields{
			"session": uuid.NewString(),
			"address": d.Address(),
		}),
	}
}

// run drives the session through its phases: one handles query per audio
// category, then one record fetch per discovered handle, first discovered
// first fetched. Any failed exchange aborts the whole run; undecodable
// record bytes are skipped.
func (s *session) run(ctx context.Context, client adapter.Client) error {
	for ; s.phase < phaseFetchRecords; s.phase++ {
		handles, err := client.GetRemoteServiceHandles(ctx, s.device.Address(), s.phase.categoryUUID())
		if err != nil {
			s.logger.WithError(err).WithField("phase", s.phase.String()).Error("GetRemoteServiceHandles failed")
			return err
		}

		for _, h := range handles {
			if _, dup := s.handles.Get(h); dup {
				s.logger.WithField("handle", h).Debug("Skipping duplicate service handle")
				continue
			}
			s.handles.Set(h, struct{}{})
		}

		s.logger.WithFields(logrus.Fields{
			"phase":   s.phase.String(),
			"pending": s.handles.Len(),
		}).Debug("Handles query completed")
	}

	for {
		pair := s.handles.Oldest()
		if pair == nil {
			break
		}
		handle := pair.Key
		s.handles.Delete(handle)

		raw, err := client.GetRemoteServiceRecord(ctx, s.device.Address(), handle)
		if err != nil {
			s.logger.WithError(err).WithField("handle", handle).Error("GetRemoteServiceRecord failed")
			return err
		}

		rec, err := sdp.Decode(raw)
		if err != nil {
			s.logger.WithError(err).WithField("handle", handle).Warn("Unable to extract service record")
			continue
		}
		s.records = append(s.records, rec)
	}

	s.logger.WithField("records", len(s.records)).Debug("Service discovery completed")
	return nil
}

// satisfied reports whether at least one collected record classifies to the
// given interface.
func (s *session) satisfied(iface profile.Interface) bool {
	for _, rec := range s.records {
		class, ok := rec.ServiceClassID()
		if !ok {
			continue
		}
		if got, ok := profile.InterfaceForClass(class); ok && got == iface {
			return true
		}
	}
	return false
}
