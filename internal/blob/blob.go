package blob

import "io"

// Store 图片等二进制负载的存储接口，Put 返回的 key 会被原样写进帖子数据
type Store interface {
	Put(key string, r io.Reader) (string, int64, error) // returns key, size
	Delete(key string) error
	Path(key string) (string, error)
}
