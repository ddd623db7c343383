package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Subscription is the handle for an active record watch. The caller
// owns its lifetime and must call Stop to release it.
type Subscription struct {
	ID     string
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the watch and waits for its goroutine to exit. No
// callbacks are invoked after Stop returns.
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}

// Done is closed once the watch has ended, whether by Stop or by a
// transport error.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Watch registers a push subscription on a single record. onChange
// fires once immediately with the current value (nil when the record
// is absent) and again on every subsequent change. A transport error
// is reported through onError, followed by a final onChange(nil); the
// watch then ends without retrying.
func (s *service) Watch(ctx context.Context, uid string, onChange func(*UserRecord), onError func(error)) (*Subscription, error) {
	if uid == "" {
		return nil, errors.New("uid is required")
	}
	if onChange == nil {
		return nil, errors.New("onChange callback is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	snaps := s.db.Collection(usersCollection).Doc(uid).Snapshots(ctx)
	sub := &Subscription{
		ID:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	log.Debug().Str("uid", uid).Str("subscription", sub.ID).Msg("user watch started")
	go func() {
		defer close(sub.done)
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				log.Error().Str("uid", uid).Str("subscription", sub.ID).Err(err).Msg("user watch terminated")
				if onError != nil {
					onError(err)
				}
				onChange(nil)
				return
			}
			if !snap.Exists() {
				onChange(nil)
				continue
			}
			rec := UserRecord{}
			if err := snap.DataTo(&rec); err != nil {
				if onError != nil {
					onError(fmt.Errorf("%w: %v", ErrMalformed, err))
				}
				onChange(nil)
				continue
			}
			rec.Normalize()
			onChange(&rec)
		}
	}()

	return sub, nil
}
