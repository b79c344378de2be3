package state

import (
	"sync"
)

type DialogState string

const (
	StateIdle                  DialogState = "idle"
	StateAddingTaskTitle       DialogState = "adding_task_title"
	StateAddingTaskDescription DialogState = "adding_task_description"
	StateAddingTaskDays        DialogState = "adding_task_days"
	StateAddingExpenseTitle    DialogState = "adding_expense_title"
	StateAddingExpensePrice    DialogState = "adding_expense_price"
	StateAddingExpenseMode     DialogState = "adding_expense_mode"
)

type UserSession struct {
	ChatID   int64
	State    DialogState
	TempData map[string]string
}

// StateManager keeps per-chat dialog progress in memory. Sessions are lost on restart.
type StateManager struct {
	sessions map[int64]*UserSession
	mu       sync.RWMutex
}

func NewStateManager() *StateManager {
	return &StateManager{
		sessions: make(map[int64]*UserSession),
	}
}

func (sm *StateManager) session(chatID int64) *UserSession {
	if session, exists := sm.sessions[chatID]; exists {
		return session
	}
	session := &UserSession{
		ChatID:   chatID,
		State:    StateIdle,
		TempData: make(map[string]string),
	}
	sm.sessions[chatID] = session
	return session
}

func (sm *StateManager) SetState(chatID int64, state DialogState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).State = state
}

func (sm *StateManager) GetState(chatID int64) DialogState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, exists := sm.sessions[chatID]; exists {
		return session.State
	}
	return StateIdle
}

func (sm *StateManager) SetTempData(chatID int64, key, value string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.session(chatID).TempData[key] = value
}

func (sm *StateManager) GetTempData(chatID int64, key string) string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if session, exists := sm.sessions[chatID]; exists {
		return session.TempData[key]
	}
	return ""
}

// ClearState returns the chat to idle and drops collected input.
func (sm *StateManager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, chatID)
}
