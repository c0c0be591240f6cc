package service

import (
	"context"

	"debate_arena/internal/topics"
)

type TopicService struct {
	generator *topics.Generator
}

func NewTopicService(generator *topics.Generator) *TopicService {
	if generator == nil {
		generator = topics.NewGenerator(topics.DefaultCatalog(), nil)
	}
	return &TopicService{generator: generator}
}

func (s *TopicService) Genres() []string {
	return s.generator.Genres()
}

func (s *TopicService) Topics(ctx context.Context, genre string) ([]string, error) {
	return s.generator.Topics(ctx, genre)
}
