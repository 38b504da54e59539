package ledger

// Edge es una arista dirigida del grafo de estados.
type Edge struct {
	From Status
	To   Status
}

// Delta es el efecto de una transición sobre un bucket: la cantidad movida se
// multiplica por Factor (+1 incrementa, -1 decrementa).
type Delta struct {
	Status Status
	Factor int
}

// transitionRules es la única fuente del grafo legal y de sus efectos.
// Casos especiales:
//   - manufactured -> transported no descuenta manufactured (las unidades
//     siguen contando como fabricadas mientras también cuentan como transportadas).
//   - transported -> rejected devuelve automáticamente la misma cantidad a planning.
var transitionRules = map[Edge][]Delta{
	{StatusPlanning, StatusManufactured}: {{StatusPlanning, -1}, {StatusManufactured, +1}},
	{StatusPlanning, StatusRejected}:     {{StatusPlanning, -1}, {StatusRejected, +1}},

	{StatusManufactured, StatusTransported}: {{StatusTransported, +1}},
	{StatusManufactured, StatusRejected}:    {{StatusManufactured, -1}, {StatusRejected, +1}},
	{StatusManufactured, StatusPlanning}:    {{StatusManufactured, -1}, {StatusPlanning, +1}},

	{StatusTransported, StatusRejected}: {{StatusTransported, -1}, {StatusRejected, +1}, {StatusPlanning, +1}},

	{StatusRejected, StatusPlanning}: {{StatusRejected, -1}, {StatusPlanning, +1}},
}

// Allowed indica si (from, to) es una arista directa del grafo.
func Allowed(from, to Status) bool {
	_, ok := transitionRules[Edge{from, to}]
	return ok
}

// Targets devuelve los destinos permitidos desde from, en orden de ciclo de vida.
func Targets(from Status) []Status {
	var out []Status
	for _, to := range AllStatuses {
		if Allowed(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// Edges devuelve todas las aristas legales.
func Edges() []Edge {
	out := make([]Edge, 0, len(transitionRules))
	for _, from := range AllStatuses {
		for _, to := range Targets(from) {
			out = append(out, Edge{from, to})
		}
	}
	return out
}

// Effects devuelve los deltas de la arista; ok=false si no es legal.
func Effects(from, to Status) ([]Delta, bool) {
	d, ok := transitionRules[Edge{from, to}]
	if !ok {
		return nil, false
	}
	out := make([]Delta, len(d))
	copy(out, d)
	return out, true
}

// Apply devuelve una copia de b con los efectos de la arista aplicados a quantity.
// No valida; usar Validate antes.
func Apply(b Buckets, from, to Status, quantity int) Buckets {
	next := b.Clone()
	deltas, _ := Effects(from, to)
	for _, d := range deltas {
		next[d.Status] += d.Factor * quantity
	}
	return next
}
