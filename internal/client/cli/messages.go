package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/codeauth/internal/client/client"
	"github.com/dmitrijs2005/codeauth/internal/client/services"
)

// describeError turns an error from the services into a line for the user.
func describeError(err error) string {
	var (
		ve *services.ValidationError
		ce *services.CooldownError
	)

	switch {
	case errors.As(err, &ve):
		return "Invalid input: " + ve.Error()
	case errors.As(err, &ce):
		return fmt.Sprintf("Please wait %d seconds before requesting a new code.", ce.Remaining)
	case errors.Is(err, services.ErrNotAuthenticated):
		return "You are not logged in."
	case errors.Is(err, services.ErrOperationInFlight):
		return "Another request is still running."
	case errors.Is(err, services.ErrWrongStep):
		return "That is not possible at this step."
	case errors.Is(err, services.ErrMissingToken):
		return "The server accepted the login but sent no token, please try again."
	case errors.Is(err, services.ErrFlowClosed):
		return "Cancelled."
	case errors.Is(err, client.ErrCredentialExpired):
		return "Your credential has expired, please log in again."
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session is no longer valid, please log in again."
	case errors.Is(err, client.ErrBusiness):
		if msg := client.Message(err); msg != "" {
			return msg
		}
		return "The server rejected the request."
	case errors.Is(err, client.ErrTransport):
		if msg := client.Message(err); msg != "" {
			return "Server error: " + msg
		}
		return "Could not reach the server, please try again."
	}
	return "Error: " + err.Error()
}
