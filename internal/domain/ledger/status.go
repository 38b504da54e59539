// Package ledger modela el libro de cantidades por estado de los componentes
// fungibles ("other components"): el conjunto cerrado de estados, el grafo de
// transiciones permitido, los efectos de cada transición sobre los buckets y
// la validación de conservación. Todo es cálculo puro, sin E/S.
package ledger

import (
	"fmt"
	"strings"

	"github.com/jhoicas/precast-api/internal/domain"
)

// Status es el nombre de un bucket. El valor numérico es la identidad estable
// usada como clave en las filas del ledger (other_component_statuses.id).
type Status int16

const (
	StatusPlanning     Status = 1
	StatusManufactured Status = 2
	StatusTransported  Status = 3
	StatusRejected     Status = 4
)

// AllStatuses en orden de ciclo de vida.
var AllStatuses = []Status{StatusPlanning, StatusManufactured, StatusTransported, StatusRejected}

var statusNames = map[Status]string{
	StatusPlanning:     "planning",
	StatusManufactured: "manufactured",
	StatusTransported:  "transported",
	StatusRejected:     "rejected",
}

// String devuelve el nombre canónico (minúsculas) del estado.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int16(s))
}

// Valid indica si s pertenece al conjunto cerrado de estados.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus convierte un nombre (sin distinguir mayúsculas) en Status.
func ParseStatus(name string) (Status, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s, sn := range statusNames {
		if sn == n {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, name)
}

// MarshalText permite usar Status como clave de mapa en JSON.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("estado inválido: %d", int16(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implementa encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Buckets es el estado actual del ledger de un componente: cantidad por estado.
// Un estado ausente equivale a cero (las filas se crean de forma perezosa).
type Buckets map[Status]int

// Get devuelve la cantidad del bucket (cero si no existe la fila).
func (b Buckets) Get(s Status) int {
	return b[s]
}

// Clone devuelve una copia independiente.
func (b Buckets) Clone() Buckets {
	out := make(Buckets, len(b))
	for s, q := range b {
		out[s] = q
	}
	return out
}

// Sum suma todas las cantidades (incluye el doble conteo manufactured/transported).
func (b Buckets) Sum() int {
	total := 0
	for _, q := range b {
		total += q
	}
	return total
}

// Names devuelve el mapa indexado por nombre de estado, como lo consumen los reportes.
func (b Buckets) Names() map[string]int {
	out := make(map[string]int, len(b))
	for s, q := range b {
		out[s.String()] = q
	}
	return out
}
