package hash

import (
	"github.com/spaolacci/murmur3"
)

// 哈希能力 interface. 将任意长度的 key 确定性地映射为一个 64 位无符号整数
// 要求哈希结果各 bit 位分布均匀，不要求具备密码学强度
type Hasher interface {
	Sum64(key []byte) uint64 // 计算 key 的 64 位哈希值
}

// 基于 murmur3 实现的哈希器. 支持通过 seed 构造出相互独立的多个哈希器实例
type Murmur3Hasher struct {
	seed uint32 // 哈希种子. 不同 seed 之间的哈希结果相互独立
}

// 默认 murmur3 哈希器构造器. seed 为 0
func NewMurmur3Hasher() *Murmur3Hasher {
	return &Murmur3Hasher{}
}

// 指定 seed 的 murmur3 哈希器构造器. 需要多个独立哈希函数时，传入不同的 seed 即可
func NewMurmur3HasherWithSeed(seed uint32) *Murmur3Hasher {
	return &Murmur3Hasher{
		seed: seed,
	}
}

// 计算 key 的 64 位哈希值
func (m *Murmur3Hasher) Sum64(key []byte) uint64 {
	return murmur3.Sum64WithSeed(key, m.seed)
}
