package rest

import (
	"net/http"

	"github.com/sarpt/hifi-web-api/internal/common"
)

func (s *Server) getPlaybackHandler(res http.ResponseWriter, req *http.Request) {
	revision := snapshotRevision(s.repository)
	if checkRevisionIsSame(revision, req) {
		res.WriteHeader(http.StatusNotModified)

		return
	}

	setRevisionInResponse(revision, res)
	err := common.RespondWithJSON(res, http.StatusOK, s.repository.Snapshot())
	if err != nil {
		s.errLog.Printf("could not respond to playback request: %s\n", err)
	}
}

func (s *Server) getStatusHandler(res http.ResponseWriter, req *http.Request) {
	err := common.RespondWithJSON(res, http.StatusOK, s.repository.Status())
	if err != nil {
		s.errLog.Printf("could not respond to status request: %s\n", err)
	}
}
