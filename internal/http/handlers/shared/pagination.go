package shared

// 分页参数边界：默认每页 20 条，上限 100 条防止全表拉取
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePagination 归一化分页参数
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}
