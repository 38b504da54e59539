package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	ErrProjectNotFound   = errors.New("proyecto no encontrado")
	ErrComponentNotFound = errors.New("componente no encontrado")

	// Motor de transiciones de estado por cantidad.
	ErrIllegalTransition    = errors.New("transición de estado no permitida")
	ErrInsufficientQuantity = errors.New("cantidad insuficiente en el estado de origen")
	ErrCapacityExceeded     = errors.New("la cantidad resultante excede la cantidad total")

	// ErrStorageFailure envuelve cualquier fallo del almacenamiento transaccional
	// (conexión, deadlock, constraint). La transacción ya se revirtió.
	ErrStorageFailure = errors.New("fallo del almacenamiento")
)

// IsDomainError indica si err corresponde a un error de negocio conocido
// (y por lo tanto no debe reportarse como fallo de almacenamiento).
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized, ErrForbidden, ErrConflict,
		ErrProjectNotFound, ErrComponentNotFound,
		ErrIllegalTransition, ErrInsufficientQuantity, ErrCapacityExceeded,
		ErrStorageFailure,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
