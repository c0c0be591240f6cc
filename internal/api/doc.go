// Package api 組裝 gin 路由。
//
// handlers 子包把 HTTP 請求轉成服務呼叫，錯誤一律以
// {"error": 訊息, "code": 代碼} 回傳，讀取房間狀態不需要 token。
package api
