package label

import "context"

// Repository defines owner-scoped data access for labels.
type Repository interface {
	Create(context context.Context, label *Label) error
	FindByID(context context.Context, userID, id string) (*Label, error)
	ListForUser(context context.Context, userID string) ([]*Label, error)
	Update(context context.Context, label *Label) error
	Delete(context context.Context, userID, id string) error
}
