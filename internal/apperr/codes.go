// Package apperr 定義辯論房間協議的錯誤分類。
//
// 每一種被拒絕的操作都帶有一個機器可讀的 Code 與一段人類可讀的訊息，
// 讓客戶端可以分辨「還沒輪到你」與「辯論已經結束」等不同原因。
package apperr

import "net/http"

// Code 是機器可讀的錯誤代碼
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// 房間與回合
	CodeNotFound         Code = "NOT_FOUND"
	CodeRoomFull         Code = "ROOM_FULL"
	CodeSelfJoin         Code = "SELF_JOIN"
	CodeInvalidTopic     Code = "INVALID_TOPIC"
	CodeEmptyArgument    Code = "EMPTY_ARGUMENT"
	CodeNotYourTurn      Code = "NOT_YOUR_TURN"
	CodeSessionNotActive Code = "SESSION_NOT_ACTIVE"
	CodeAlreadyTerminal  Code = "ALREADY_TERMINAL"
	CodeNotAParticipant  Code = "NOT_A_PARTICIPANT"
	CodeJudgeUnavailable Code = "JUDGE_UNAVAILABLE"

	// 玩家與身分
	CodeInvalidPlayer    Code = "INVALID_PLAYER"
	CodePlayerExists     Code = "PLAYER_EXISTS"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeIdentityMismatch Code = "IDENTITY_MISMATCH"

	// 題目
	CodeInvalidGenre Code = "INVALID_GENRE"

	// 網路或逾時，只會出現在客戶端
	CodeTransport Code = "TRANSPORT"

	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeInternal       Code = "INTERNAL"
)

// HTTPStatus 將錯誤代碼對應到 HTTP 狀態碼
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound

	case CodeRoomFull,
		CodeSelfJoin,
		CodeNotYourTurn,
		CodeSessionNotActive,
		CodeAlreadyTerminal,
		CodePlayerExists:
		return http.StatusConflict

	case CodeInvalidTopic,
		CodeEmptyArgument,
		CodeInvalidPlayer,
		CodeInvalidGenre,
		CodeInvalidRequest:
		return http.StatusBadRequest

	case CodeUnauthorized:
		return http.StatusUnauthorized

	case CodeNotAParticipant,
		CodeIdentityMismatch:
		return http.StatusForbidden

	case CodeJudgeUnavailable:
		return http.StatusBadGateway

	case CodeTransport:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// defaultMessages 是沒有指定訊息時使用的預設說明
var defaultMessages = map[Code]string{
	CodeNotFound:         "Not found",
	CodeRoomFull:         "Room is full",
	CodeSelfJoin:         "You cannot join your own room",
	CodeInvalidTopic:     "Topic is too short or empty",
	CodeEmptyArgument:    "Please enter your argument",
	CodeNotYourTurn:      "Not your turn",
	CodeSessionNotActive: "Debate not in progress",
	CodeAlreadyTerminal:  "Debate is already over",
	CodeNotAParticipant:  "Player not in this debate",
	CodeJudgeUnavailable: "The judge could not score this debate, please resubmit",
	CodeInvalidPlayer:    "Invalid player name",
	CodePlayerExists:     "Username already exists",
	CodeUnauthorized:     "Invalid or expired token",
	CodeIdentityMismatch: "Token does not belong to this player",
	CodeInvalidGenre:     "Invalid genre",
	CodeTransport:        "Network error, please try again",
	CodeInvalidRequest:   "Invalid request body",
	CodeInternal:         "An unexpected error occurred",
}

// DefaultMessage 回傳代碼的預設訊息
func (c Code) DefaultMessage() string {
	if msg, ok := defaultMessages[c]; ok {
		return msg
	}
	return defaultMessages[CodeInternal]
}
