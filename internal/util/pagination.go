package util

import "github.com/RotationHub/CECert/internal/constant"

type Pagination struct {
	Page      uint  `json:"page"`
	PageSize  uint  `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int   `json:"totalPage"`
}

// NormalizePage defaults page to 1, clamps page to constant.MaxPage and pageSize to constant.MaxPageSize.
func NormalizePage(page, pageSize uint) (uint, uint) {
	if page == 0 {
		page = 1
	}
	if page > constant.MaxPage {
		page = constant.MaxPage
	}
	if pageSize == 0 {
		pageSize = constant.DefaultPageSize
	}
	if pageSize > constant.MaxPageSize {
		pageSize = constant.MaxPageSize
	}
	return page, pageSize
}

// PageOffset is the row offset of a normalized page.
func PageOffset(page, pageSize uint) int {
	page, pageSize = NormalizePage(page, pageSize)
	return int((page - 1) * pageSize)
}

func NewPagination(page, pageSize uint, total int64) Pagination {
	page, pageSize = NormalizePage(page, pageSize)
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: CalculateTotalPage(total, pageSize),
	}
}

func CalculateTotalPage(totalItems int64, pageSize uint) int {
	if pageSize <= 0 {
		pageSize = constant.DefaultPageSize
	}
	if totalItems == 0 {
		return 1
	}
	totalPage := int(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) != 0 {
		totalPage++
	}
	return totalPage
}
