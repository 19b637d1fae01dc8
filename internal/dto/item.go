package dto

import (
	"time"

	"github.com/imrishuroy/go-catalog/internal/items"
)

// CreateItemRequest is the payload for POST /items.
type CreateItemRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"` // pointer so a missing price is rejected but 0 is allowed
}

// UpdateItemRequest is the payload for PUT /items/{id}. It carries only the
// mutable fields; id comes from the route and createdDate is never client supplied.
type UpdateItemRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

// ItemResponse is the wire representation of an item.
type ItemResponse struct {
	ID          string    `json:"id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	Name        string    `json:"name" example:"Potion"`
	Description string    `json:"description" example:"Heals 10 HP"`
	Price       float64   `json:"price" example:"9"`
	CreatedDate time.Time `json:"createdDate" example:"2024-03-01T10:30:00Z"`
}

// ToResponse projects an item onto its wire shape.
func ToResponse(it items.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		CreatedDate: it.CreatedDate,
	}
}

// ToResponses maps a list of items. The result is never nil so an empty
// list encodes as [].
func ToResponses(list []items.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, ToResponse(it))
	}
	return out
}

// NewItem builds the item for a create request. id and now are supplied by
// the caller.
func NewItem(req CreateItemRequest, id string, now time.Time) items.Item {
	return items.Item{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       deref(req.Price),
		CreatedDate: now,
	}
}

// ApplyUpdate returns a copy of existing with the mutable fields replaced.
func ApplyUpdate(existing items.Item, req UpdateItemRequest) items.Item {
	updated := existing
	updated.Name = req.Name
	updated.Description = req.Description
	updated.Price = deref(req.Price)
	return updated
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
