package rest

import (
	"fmt"
	"net/http"

	"github.com/sarpt/hifi-web-api/pkg/state"
)

const revisionHeader = "Etag"

// snapshotRevision combines revisions of the storages contributing to the
// playback snapshot. Any mutation of either storage changes the combined value.
func snapshotRevision(repository state.Repository) string {
	return fmt.Sprintf("%d-%d", repository.Playback().Revision(), repository.Tracklist().Revision())
}

func checkRevisionIsSame(revision string, req *http.Request) bool {
	if len(req.Header[revisionHeader]) != 1 {
		return false
	}

	return req.Header[revisionHeader][0] == revision
}

func setRevisionInResponse(revision string, res http.ResponseWriter) {
	res.Header().Set(revisionHeader, revision)
}
