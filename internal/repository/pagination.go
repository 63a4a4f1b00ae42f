package repository

import "gorm.io/gorm"

// applyPagination 为查询追加 LIMIT/OFFSET。pageSize 非正时视为
// 不分页（购物车明细等全量读取场景），页码最小取 1。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil {
		return nil
	}
	if pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
