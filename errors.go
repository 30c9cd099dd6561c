package liveboard

import (
	"errors"
	"net/http"

	"github.com/becodeorg/liveboard/config"
	"github.com/becodeorg/liveboard/irail"
)

// HTTPStatus maps a pipeline failure to the status code the HTTP
// boundary should answer with: 504 for an upstream timeout, 502 for
// any other upstream failure, 500 for configuration, store and
// unexpected errors.
func HTTPStatus(err error) int {
	var upstream *irail.Error
	if errors.As(err, &upstream) {
		if upstream.Kind == irail.KindTimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}

	var missing *config.MissingKeysError
	if errors.As(err, &missing) {
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}
