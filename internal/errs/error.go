package errs

import (
	"errors"
)

var (
	// ErrSessionExpired is terminal for the current page: the session has
	// already been cleared when it is returned.
	ErrSessionExpired = errors.New("sesión expirada, inicia sesión nuevamente")

	ErrNoToken    = errors.New("la respuesta del servidor no contiene un token válido")
	ErrNoEmail    = errors.New("no se pudo obtener el email del usuario")
	ErrNoSession  = errors.New("no session")
	ErrBadPayload = errors.New("respuesta inválida del servidor")
)
