package filter

// 过滤器 interface. 作为磁盘、网络等昂贵查询的前置存在性索引，
// 判定为不存在时必然不存在（无假阴性），判定为存在时可能存在误判（假阳性）
type Filter interface {
	Add(key []byte) error  // 添加 key 到过滤器. 容量不足时返回错误
	Exist(key []byte) bool // 判断 key 是否存在（可能存在假阳性误判）
	KeyLen() int           // 已添加的 key 个数
	Reset()                // 重置过滤器
}
