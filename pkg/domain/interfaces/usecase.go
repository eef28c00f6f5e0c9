package interfaces

import (
	"context"

	"github.com/m-mizutani/sheepdog/pkg/domain/model"
)

// AutomationUseCase runs the label automation for one event
type AutomationUseCase interface {
	Process(ctx context.Context, event model.Event) (*model.AutomationResult, error)
}
