package api

import (
	"context"

	"github.com/sarpt/hifi-web-api/pkg/protocol"
)

// loadEntry points the engine at the stream of the entry with the provided
// id. Prefetched URLs load right away; the rest resolve through a catalog job
// first, with the engine stopped meanwhile so the previous stream does not
// keep ticking over the already reset position.
func (s *Server) loadEntry(ctx context.Context, issuer string, entryID int64) {
	s.pendingLoad = true

	if url, ok := s.prefetched[entryID]; ok {
		delete(s.prefetched, entryID)
		s.cancelFetchJob(streamLoadKey)
		s.startEnginePlayback(issuer, entryID, url)

		return
	}

	if err := s.engine.Stop(); err != nil {
		s.errLog.Printf("could not stop the engine before loading entry %d: %s\n", entryID, err)
	}

	s.startFetchJob(ctx, streamLoadKey, func(jobCtx context.Context, jobID string) {
		url, err := s.catalog.TrackURL(jobCtx, entryID)

		s.postFetchResult(jobCtx, fetchResult{key: streamLoadKey, jobID: jobID, apply: func(context.Context) {
			if err != nil {
				s.handleLoadFailure(issuer, entryID, err)

				return
			}

			s.startEnginePlayback(issuer, entryID, url)
		}})
	})
}

func (s *Server) startEnginePlayback(issuer string, entryID int64, url string) {
	if err := s.engine.LoadTrack(url); err != nil {
		s.handleLoadFailure(issuer, entryID, err)
	}
}

// handleLoadFailure brings the player back to a coherent stopped state when
// an entry cannot be fed to the engine, and answers the issuing channel.
func (s *Server) handleLoadFailure(issuer string, entryID int64, err error) {
	s.errLog.Printf("could not start playback of entry %d: %s\n", entryID, err)

	if stopErr := s.stopPlayback(); stopErr != nil {
		s.errLog.Printf("stopping after the failed load of entry %d failed as well: %s\n", entryID, stopErr)
	}

	s.answerChannel(issuer, protocol.NewErrorEvent(errorKindFor(err), err.Error()))
}

// servePrefetchRequests resolves stream URLs for upcoming entries announced
// by the prefetch trigger, so that switching to the neighbouring track right
// after the current one ends skips the catalog round trip.
func (s *Server) servePrefetchRequests(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-s.prefetches:
			s.prefetchStreamURL(ctx, notification.EntryID)
		}
	}
}

func (s *Server) prefetchStreamURL(ctx context.Context, entryID int64) {
	url, err := s.catalog.TrackURL(ctx, entryID)
	if err != nil {
		s.errLog.Printf("prefetching the stream url of entry %d failed: %s\n", entryID, err)

		return
	}

	s.postFetchResult(ctx, fetchResult{apply: func(context.Context) {
		s.prefetched[entryID] = url
	}})
}
