package model

import "time"

// Project groups the surveys of one builder account. Deleting a project moves
// it to the trash (soft delete); purging removes it for good.
type Project struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	OwnerID   string     `json:"ownerId" bson:"ownerId"`
	Name      string     `json:"name" bson:"name"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}

// InTrash reports whether the project has been soft-deleted.
func (p *Project) InTrash() bool {
	return p.DeletedAt != nil
}
