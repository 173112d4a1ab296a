package model

import (
	"path/filepath"
)

type File struct {
	BaseModel
	FileName       string `gorm:"type:text;not null" json:"file_name" form:"file_name" binding:"required"`
	UniqueFileName string `gorm:"type:text;not null;uniqueIndex" json:"unique_file_name" form:"unique_file_name" binding:"required"`
	BucketName     string `gorm:"type:text;not null" json:"bucket_name" form:"bucket_name" binding:"required"`
	Size           int64  `gorm:"type:bigint;not null" json:"size" form:"size" binding:"required"`
	ContentType    string `gorm:"type:text" json:"content_type"`
}

func (f File) TableName() string {
	return "files"
}

func (f File) ToBaseFilename() string {
	return filepath.Base(f.FileName)
}

func (f File) ToBaseUniqueFilename() string {
	return filepath.Base(f.UniqueFileName)
}
