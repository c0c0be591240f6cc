package ai

import "context"

// Provider 是文字生成服務的最小介面
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderFunc 讓普通函式可以當作 Provider 使用
type ProviderFunc func(ctx context.Context, prompt string) (string, error)

func (f ProviderFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
