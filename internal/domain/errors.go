package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Resultados "no encontrado" del motor de asignación. No son fallas:
	// señalan que el histórico no permite calcular proporciones.
	ErrNoUsageHistory = errors.New("el artículo no registra consumo en el período")
	ErrZeroUsage      = errors.New("el consumo total del artículo en el período es cero")
)
