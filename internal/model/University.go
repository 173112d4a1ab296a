package model

type University struct {
	BaseModel
	Name string `gorm:"type:varchar(160);not null" json:"name"`
}

func (u University) TableName() string {
	return "universities"
}
