package pkg

import "errors"

// 服务层通用错误，handler 按类映射到 403/404
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
)
