// Package dialog отслеживает состояние диалога с каждым пользователем.
//
// Состояний два: обычное (Idle) и «ждём строку с новым событием»
// (AwaitingSubmission). Админ запускает создание события, попадает в
// режим ожидания, и его следующее текстовое сообщение трактуется как
// заявка — удачная или нет, после одной попытки пользователь всегда
// возвращается в обычное состояние.
package dialog

import "sync"

// Machine хранит, от кого сейчас ждут строку с событием.
// Состояние разных пользователей независимо; операции по одному
// пользователю линеаризуемы за счёт общего мьютекса.
type Machine struct {
	mu       sync.Mutex
	awaiting map[int64]struct{}
}

// New создает пустую машину состояний: все пользователи в Idle.
func New() *Machine {
	return &Machine{
		awaiting: make(map[int64]struct{}),
	}
}

// Begin переводит пользователя в режим ожидания заявки.
// Повторный вызов ничего не меняет.
func (m *Machine) Begin(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.awaiting[userID] = struct{}{}
}

// Consume атомарно проверяет, ждём ли строку от пользователя, и сразу
// возвращает его в Idle. Возврат true означает, что текущее сообщение
// нужно разобрать как заявку. Снятие режима до обработки заявки
// гарантирует ровно одну попытку на приглашение.
func (m *Machine) Consume(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.awaiting[userID]
	if ok {
		delete(m.awaiting, userID)
	}
	return ok
}

// Awaiting сообщает, находится ли пользователь в режиме ожидания,
// не меняя состояния.
func (m *Machine) Awaiting(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.awaiting[userID]
	return ok
}

// Cancel возвращает пользователя в Idle, если он ждал.
func (m *Machine) Cancel(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.awaiting, userID)
}
