package repository

// UnitOfWork agrupa los repositorios atados a una misma transacción.
// La secuencia leer-validar-escribir de una transición ocurre completa dentro de una UnitOfWork.
type UnitOfWork struct {
	Components OtherComponentRepository
	Ledger     LedgerRepository
	History    StatusHistoryRepository
}
