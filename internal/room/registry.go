package room

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"debate_arena/internal/apperr"
)

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Options 控制房間的規則與保留策略
type Options struct {
	RoundsPerPlayer int
	MinTopicLength  int
	MaxTopicLength  int
	KeyLength       int

	// TerminalTTL 是結束或中止後保留房間的時間，0 表示永久保留
	TerminalTTL time.Duration
	// IdleTTL 是未結束房間在沒有任何變動後保留的時間，0 表示永久保留
	IdleTTL      time.Duration
	ReapInterval time.Duration

	Clock clockwork.Clock
}

// DefaultOptions 回傳預設規則：每人五回合、題目至少十個字元
func DefaultOptions() Options {
	return Options{
		RoundsPerPlayer: 5,
		MinTopicLength:  10,
		MaxTopicLength:  300,
		KeyLength:       6,
		TerminalTTL:     time.Hour,
		IdleTTL:         24 * time.Hour,
		ReapInterval:    time.Minute,
	}
}

// Registry 以房間代碼管理所有 Session
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Session

	judge  Judge
	opts   Options
	clock  clockwork.Clock
	newKey func() string
}

// NewRegistry 建立房間註冊表，未設定的選項使用預設值
func NewRegistry(judge Judge, opts Options) *Registry {
	def := DefaultOptions()
	if opts.RoundsPerPlayer <= 0 {
		opts.RoundsPerPlayer = def.RoundsPerPlayer
	}
	if opts.MinTopicLength <= 0 {
		opts.MinTopicLength = def.MinTopicLength
	}
	if opts.MaxTopicLength <= 0 {
		opts.MaxTopicLength = def.MaxTopicLength
	}
	if opts.KeyLength <= 0 {
		opts.KeyLength = def.KeyLength
	}
	if opts.ReapInterval <= 0 {
		opts.ReapInterval = def.ReapInterval
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	r := &Registry{
		rooms: make(map[string]*Session),
		judge: judge,
		opts:  opts,
		clock: opts.Clock,
	}
	r.newKey = func() string { return randomKey(opts.KeyLength) }
	return r
}

// Options 回傳註冊表實際使用的選項
func (r *Registry) Options() Options {
	return r.opts
}

// NormalizeKey 將房間代碼轉成大寫並去除空白
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Create 以 creator 為第一位辯手建立等待中的房間
func (r *Registry) Create(creator, topic string) (*Session, error) {
	creator = strings.TrimSpace(creator)
	if creator == "" {
		return nil, apperr.New(apperr.CodeInvalidPlayer)
	}
	topic = strings.TrimSpace(topic)
	n := utf8.RuneCountInString(topic)
	if n < r.opts.MinTopicLength {
		return nil, apperr.Newf(apperr.CodeInvalidTopic, "Topic must be at least %d characters", r.opts.MinTopicLength)
	}
	if n > r.opts.MaxTopicLength {
		return nil, apperr.Newf(apperr.CodeInvalidTopic, "Topic must be at most %d characters", r.opts.MaxTopicLength)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.newKey()
	for r.rooms[key] != nil {
		key = r.newKey()
	}
	s := newSession(key, creator, topic, r.opts.RoundsPerPlayer, r.judge, r.clock)
	r.rooms[key] = s
	return s, nil
}

// Get 以房間代碼取得 Session
func (r *Registry) Get(key string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.rooms[NormalizeKey(key)]
	if s == nil {
		return nil, apperr.Newf(apperr.CodeNotFound, "Room not found")
	}
	return s, nil
}

// Join 讓 identity 以第二位辯手加入房間
func (r *Registry) Join(key, identity string) (*Session, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, apperr.New(apperr.CodeInvalidPlayer)
	}
	s, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	if err := s.join(identity); err != nil {
		return nil, err
	}
	return s, nil
}

// Remove 移除房間
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, NormalizeKey(key))
}

// Len 回傳目前保留的房間數量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Sweep 移除超過保留期限的房間並回傳被移除的代碼
func (r *Registry) Sweep() []string {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []string
	for key, s := range r.rooms {
		if s.expired(now, r.opts.TerminalTTL, r.opts.IdleTTL) {
			delete(r.rooms, key)
			evicted = append(evicted, key)
		}
	}
	return evicted
}

// RunReaper 依 ReapInterval 定期清除過期房間，直到 ctx 結束
func (r *Registry) RunReaper(ctx context.Context) {
	if r.opts.TerminalTTL <= 0 && r.opts.IdleTTL <= 0 {
		return
	}
	ticker := r.clock.NewTicker(r.opts.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if evicted := r.Sweep(); len(evicted) > 0 {
				log.Info().Strs("rooms", evicted).Int("remaining", r.Len()).Msg("evicted expired rooms")
			}
		}
	}
}

func randomKey(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = keyAlphabet[int(buf[i])%len(keyAlphabet)]
	}
	return string(out)
}
