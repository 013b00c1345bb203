package common

import (
	"encoding/json"
	"net/http"
)

const contentTypeHeader = "Content-Type"

// RespondWithJSON writes payload as a JSON response body with a provided status code.
func RespondWithJSON(res http.ResponseWriter, code int, payload interface{}) error {
	out, err := json.Marshal(payload)
	if err != nil {
		res.WriteHeader(http.StatusInternalServerError)

		return err
	}

	res.Header().Set(contentTypeHeader, "application/json")
	res.WriteHeader(code)
	_, err = res.Write(out)

	return err
}

// RespondWithError writes a JSON error body with a provided status code.
func RespondWithError(res http.ResponseWriter, code int, message string) error {
	return RespondWithJSON(res, code, map[string]string{"error": message})
}
