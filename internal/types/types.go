// internal/types/types.go
package types

// InstructionSet — непрозрачный набор сериализованных транзакций свапа,
// полученный от агрегатора маршрутов. Для многошаговых маршрутов блобы
// идут в порядке исполнения; каждый шаг должен подтвердиться до начала
// следующего. После получения набор не изменяется.
type InstructionSet struct {
	// Transactions — base64-кодированные блобы транзакций в порядке маршрута.
	Transactions []string
}

// Empty сообщает, содержит ли набор хотя бы одну транзакцию.
func (s InstructionSet) Empty() bool {
	return len(s.Transactions) == 0
}
