package allocation

import (
	"strconv"
	"strings"

	"github.com/jhoicas/Asignacion-api/internal/domain/entity"
)

type identifierKind int

const (
	kindSerial identifierKind = iota
	kindName
)

// ItemIdentifier identifica un artículo por serial o por nombre. La variante
// se decide una sola vez en el borde; el motor nunca vuelve a adivinar contra
// qué campo comparar.
type ItemIdentifier struct {
	kind  identifierKind
	value string
}

// IdentifierFromString clasifica la entrada del usuario: si el texto (sin
// espacios extremos) es un entero se interpreta como serial, en caso contrario
// como nombre. El serial conserva el texto tal cual: "007" y "7" son seriales
// distintos aunque ambos se clasifiquen como serial.
func IdentifierFromString(raw string) ItemIdentifier {
	v := strings.TrimSpace(raw)
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return ItemIdentifier{kind: kindSerial, value: v}
	}
	return ItemIdentifier{kind: kindName, value: v}
}

// SerialIdentifier construye un identificador por serial, sin heurística.
func SerialIdentifier(serial string) ItemIdentifier {
	return ItemIdentifier{kind: kindSerial, value: strings.TrimSpace(serial)}
}

// NameIdentifier construye un identificador por nombre, sin heurística.
func NameIdentifier(name string) ItemIdentifier {
	return ItemIdentifier{kind: kindName, value: strings.TrimSpace(name)}
}

// String devuelve el texto del identificador tal como se recibió.
func (id ItemIdentifier) String() string { return id.value }

// IsSerial indica si el identificador compara contra el serial del artículo.
func (id ItemIdentifier) IsSerial() bool { return id.kind == kindSerial }

// Matches compara el identificador contra el registro según su variante,
// ignorando mayúsculas y minúsculas.
func (id ItemIdentifier) Matches(r entity.CheckoutRecord) bool {
	if id.kind == kindSerial {
		return strings.EqualFold(r.ItemSerial, id.value)
	}
	return strings.EqualFold(r.ItemName, id.value)
}
