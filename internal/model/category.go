package model

// Category is an optional grouping label for supplies.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	Description string `json:"description"`

	Supplies []Supply `json:"supplies,omitempty" validate:"-"`
}
