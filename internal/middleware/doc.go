// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 包含 JWT 身分驗證、請求 ID 以及 zerolog 請求日誌。
package middleware
