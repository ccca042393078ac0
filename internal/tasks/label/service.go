package label

import (
	"context"
	"time"

	"github.com/taskora/taskora/pkg/uuidv7"
)

type Service struct {
	repository Repository
}

func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

func (service *Service) Create(context context.Context, userID, name, color string) (*Label, error) {
	created := &Label{
		ID:        uuidv7.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}
	if err := service.repository.Create(context, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (service *Service) List(context context.Context, userID string) ([]*Label, error) {
	return service.repository.ListForUser(context, userID)
}

func (service *Service) Update(context context.Context, userID, id, name, color string) (*Label, error) {
	found, err := service.repository.FindByID(context, userID, id)
	if err != nil {
		return nil, err
	}
	found.Name = name
	found.Color = color
	if err := service.repository.Update(context, found); err != nil {
		return nil, err
	}
	return found, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	return service.repository.Delete(context, userID, id)
}
