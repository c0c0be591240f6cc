// Package topics 提供辯論類別與題目產生。
package topics

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"debate_arena/internal/ai"
	"debate_arena/internal/apperr"
)

// TopicsPerGenre 是每次產生的題目數量
const TopicsPerGenre = 3

//go:embed catalog.yaml
var defaultCatalog []byte

type Genre struct {
	Name     string   `yaml:"name"`
	Fallback []string `yaml:"fallback"`
}

type Catalog struct {
	Genres []Genre `yaml:"genres"`
}

// LoadCatalog 解析 YAML 格式的類別清單
func LoadCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse topic catalog: %w", err)
	}
	if len(c.Genres) == 0 {
		return nil, fmt.Errorf("topic catalog has no genres")
	}
	for _, g := range c.Genres {
		if len(g.Fallback) < TopicsPerGenre {
			return nil, fmt.Errorf("genre %q needs at least %d fallback topics", g.Name, TopicsPerGenre)
		}
	}
	return &c, nil
}

// DefaultCatalog 回傳內建的類別清單
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Names 依原順序回傳所有類別名稱
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.Genres))
	for _, g := range c.Genres {
		out = append(out, g.Name)
	}
	return out
}

func (c *Catalog) lookup(name string) (Genre, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, g := range c.Genres {
		if g.Name == name {
			return g, true
		}
	}
	return Genre{}, false
}

// Generator 以 AI 產生題目，失敗時使用類別的備用題目
type Generator struct {
	catalog  *Catalog
	provider ai.Provider
}

// NewGenerator 建立題目產生器，provider 為 nil 時只使用備用題目
func NewGenerator(catalog *Catalog, provider ai.Provider) *Generator {
	return &Generator{catalog: catalog, provider: provider}
}

func (g *Generator) Genres() []string {
	return g.catalog.Names()
}

// Topics 為指定類別產生三個題目
func (g *Generator) Topics(ctx context.Context, genre string) ([]string, error) {
	gen, ok := g.catalog.lookup(genre)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidGenre).
			WithMetadata("valid_genres", strings.Join(g.catalog.Names(), ","))
	}
	fallback := append([]string{}, gen.Fallback[:TopicsPerGenre]...)
	if g.provider == nil {
		return fallback, nil
	}

	prompt := fmt.Sprintf(`Generate exactly %d interesting and controversial debate topics related to %s.
The topics should be thought-provoking and suitable for a structured debate.
Each topic should be a complete question or statement.
Provide only the %d topics without any additional text or numbering.`, TopicsPerGenre, gen.Name, TopicsPerGenre)

	text, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("genre", gen.Name).Msg("topic generation failed, using fallback topics")
		return fallback, nil
	}
	topics := splitTopics(text)
	if len(topics) < TopicsPerGenre {
		log.Warn().Str("genre", gen.Name).Int("got", len(topics)).Msg("too few generated topics, using fallback topics")
		return fallback, nil
	}
	return topics[:TopicsPerGenre], nil
}

var listPrefix = regexp.MustCompile(`^(\d+[.)]|[-*•])\s*`)

func splitTopics(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(listPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
