package ports

import "github.com/melih/slipway/internal/core/domain"

// BuildStore persists build records so API clients can observe a build's
// progress through the stages.
type BuildStore interface {
	Save(build domain.Build)
	Get(id string) (domain.Build, bool)
	List() []domain.Build
}
