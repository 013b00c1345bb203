package rest

import (
	"errors"
	"io"
	"net/http"

	"github.com/sarpt/hifi-web-api/internal/common"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
)

const (
	channelArg = "channel"

	maxCommandBody = 4096
)

// postCommandHandler accepts commands on behalf of an attached channel.
// One-way transports (server-sent events) cannot carry commands upstream, so
// their clients post here with the channel id they were attached under.
func (s *Server) postCommandHandler(res http.ResponseWriter, req *http.Request) {
	channelID := req.URL.Query().Get(channelArg)
	if channelID == "" {
		common.RespondWithError(res, http.StatusBadRequest, "channel argument is required")

		return
	}

	if !s.manager.Has(channelID) {
		common.RespondWithError(res, http.StatusNotFound, "channel is not attached")

		return
	}

	payload, err := io.ReadAll(io.LimitReader(req.Body, maxCommandBody))
	if err != nil {
		common.RespondWithError(res, http.StatusBadRequest, "could not read command payload")

		return
	}

	cmd, err := protocol.DecodeCommand(payload)
	if err != nil {
		if errors.Is(err, protocol.ErrMalformedCommand) {
			common.RespondWithError(res, http.StatusBadRequest, err.Error())

			return
		}

		s.errLog.Printf("command decode failed: %s\n", err)
		common.RespondWithError(res, http.StatusInternalServerError, "could not decode command")

		return
	}

	s.outLog.Printf("command '%s' accepted for channel '%s' from %s\n", cmd.Name, channelID, req.RemoteAddr)
	s.commands(channelID, cmd)

	common.RespondWithJSON(res, http.StatusAccepted, map[string]bool{"accepted": true})
}
