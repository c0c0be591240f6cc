package room

import "time"

// Snapshot 是房間對外公開的唯一形狀
type Snapshot struct {
	RoomKey     string              `json:"room_key"`
	Topic       string              `json:"topic"`
	Player1Name string              `json:"player1_name"`
	Player2Name *string             `json:"player2_name"`
	Status      Status              `json:"status"`
	CurrentTurn string              `json:"current_turn,omitempty"`
	Arguments   map[string][]string `json:"arguments"`
	Result      *Result             `json:"result,omitempty"`
	AbortedBy   string              `json:"aborted_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ArgumentEntry 是合併後論點列表中的一筆
type ArgumentEntry struct {
	Player   string `json:"player"`
	Argument string `json:"argument"`
}

// StatusView 是 room-status 的回應內容
type StatusView struct {
	Room         Snapshot        `json:"room"`
	AllArguments []ArgumentEntry `json:"all_arguments"`
}

// Terminal 回傳快照是否處於終止狀態
func (v *StatusView) Terminal() bool {
	return v != nil && v.Room.Status.IsTerminal()
}

// Project 將 Session 轉成快照
func Project(s *Session) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project()
}

// ProjectStatus 在同一把讀鎖內產生快照與依提交順序排列的論點
func ProjectStatus(s *Session) StatusView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectStatus()
}

func (s *Session) projectStatus() StatusView {
	all := make([]ArgumentEntry, 0, len(s.transcript))
	for _, a := range s.transcript {
		all = append(all, ArgumentEntry{Player: a.Player, Argument: a.Text})
	}
	return StatusView{Room: s.project(), AllArguments: all}
}

func (s *Session) project() Snapshot {
	snap := Snapshot{
		RoomKey:     s.key,
		Topic:       s.topic,
		Player1Name: s.player1,
		Status:      s.status,
		Arguments:   make(map[string][]string, len(s.arguments)),
		AbortedBy:   s.abortedBy,
		CreatedAt:   s.createdAt,
	}
	if s.player2 != "" {
		p2 := s.player2
		snap.Player2Name = &p2
	}
	if s.status == StatusInProgress {
		snap.CurrentTurn = s.turn
	}
	for player, args := range s.arguments {
		snap.Arguments[player] = append(make([]string, 0, len(args)), args...)
	}
	if s.status == StatusCompleted {
		snap.Result = s.result.Clone()
	}
	return snap
}
