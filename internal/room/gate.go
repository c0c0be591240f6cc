package room

import "debate_arena/internal/apperr"

// Status 表示房間的生命週期狀態
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAborted    Status = "aborted"
)

// IsTerminal 回傳狀態是否為終止狀態
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusAborted
}

// View 是回合檢查所需的唯讀狀態
type View struct {
	Status      Status
	Player1     string
	Player2     string
	CurrentTurn string
}

// IsParticipant 判斷 actor 是否為房間內的兩位辯手之一
func (v View) IsParticipant(actor string) bool {
	if actor == "" {
		return false
	}
	return actor == v.Player1 || actor == v.Player2
}

// CheckSubmit 判斷 actor 目前是否可以提交論點
func CheckSubmit(v View, actor string) error {
	if v.Status.IsTerminal() {
		return apperr.New(apperr.CodeAlreadyTerminal)
	}
	if v.Status != StatusInProgress {
		return apperr.New(apperr.CodeSessionNotActive)
	}
	if !v.IsParticipant(actor) {
		return apperr.New(apperr.CodeNotAParticipant)
	}
	if actor != v.CurrentTurn {
		return apperr.New(apperr.CodeNotYourTurn)
	}
	return nil
}

// CheckAbort 判斷 actor 目前是否可以中止辯論
func CheckAbort(v View, actor string) error {
	if v.Status.IsTerminal() {
		return apperr.New(apperr.CodeAlreadyTerminal)
	}
	if !v.IsParticipant(actor) {
		return apperr.New(apperr.CodeNotAParticipant)
	}
	return nil
}
