package model

import "time"

type Phenotype struct {
	ID                  string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Characteristic      string    `json:"characteristic" bson:"characteristic" validate:"required,min=2,max=100"`
	Description         string    `json:"description,omitempty" bson:"description" validate:"omitempty,max=2000"`
	UserPhenotypesCount int       `json:"user_phenotypes_count" bson:"user_phenotypes_count" validate:"min=0"`
	CreatedAt           time.Time `json:"created_at" bson:"created_at"`
}

// UserPhenotype is one user's reported variation of a phenotype. It is never
// updated after creation.
type UserPhenotype struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PhenotypeID string    `json:"phenotype_id" bson:"phenotype_id" validate:"required,mongodb"`
	UserID      string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	Variation   string    `json:"variation" bson:"variation" validate:"required,max=255"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

func (u *UserPhenotype) GetVariation() string {
	return u.Variation
}

type PhenotypeComment struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	PhenotypeID string    `json:"phenotype_id" bson:"phenotype_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Subject     string    `json:"subject" bson:"subject"`
	CommentText string    `json:"comment_text" bson:"comment_text"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
