// Package room 實作辯論房間的權威狀態。
//
// Registry 以房間代碼管理所有 Session；每個 Session 是一個狀態機：
//
//	waiting -> in_progress -> completed
//	waiting | in_progress -> aborted
//
// 所有修改都必須先通過 gate.go 中的回合檢查，並在該房間自己的鎖內完成，
// 因此不同房間之間可以完全並行，同一房間的兩次提交不會同時被接受。
package room
