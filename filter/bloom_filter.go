package filter

import (
	"errors"

	"github.com/xiaoxuxiansheng/goquotient/hash"
)

// 布隆过滤器实现了通用的过滤器 interface
var _ Filter = (*BloomFilter)(nil)

// 布隆过滤器. quotient filter 的位数组变种伴生实现
type BloomFilter struct {
	m      int    // bitmap 的长度，单位 bit
	k      uint32 // 哈希函数个数
	keyLen int    // 已添加的 key 个数
	bitmap []byte // 位数组

	// 两个相互独立的基准哈希函数 h1 和 h2.
	// 其余 k 个哈希函数均通过 h1 和 h2 线性组合模拟生成（Kirsch–Mitzenmacher 技巧）：
	// 第 i 个哈希函数 gi = h1 + i * h2
	// 两个基准哈希必须相互独立，否则所有 gi 的冲突会相互关联
	h1, h2 hash.Hasher
}

// 布隆过滤器构造器. m 为 bitmap 长度（bit），expectedKeys 为预期添加的 key 个数，用于推导哈希函数个数 k
func NewBloomFilter(m, expectedKeys int) (*BloomFilter, error) {
	if m <= 0 {
		return nil, errors.New("m must be positive")
	}
	if expectedKeys <= 0 {
		return nil, errors.New("expectedKeys must be positive")
	}

	return &BloomFilter{
		m:      m,
		k:      bestK(m, expectedKeys),
		bitmap: make([]byte, (m+7)>>3),
		h1:     hash.NewMurmur3Hasher(),
		h2:     hash.NewMurmur3HasherWithSeed(bloomSecondHashSeed),
	}, nil
}

// h2 的哈希种子. 任意非 0 值均可，用于和 h1 区分开
const bloomSecondHashSeed = 0x9747b28c

// 添加一个 key 到布隆过滤器
func (bf *BloomFilter) Add(key []byte) error {
	h1, h2 := uint32(bf.h1.Sum64(key)), uint32(bf.h2.Sum64(key))
	for i := uint32(0); i < bf.k; i++ {
		// 第 i 个哈希函数 gi = h1 + i * h2，需要标记为 1 的 bit 位
		targetBit := (h1 + i*h2) % uint32(bf.m)
		bf.bitmap[targetBit>>3] |= 1 << (targetBit & 7)
	}
	bf.keyLen++
	return nil
}

// 判断布隆过滤器中是否存在 key（注意，可能存在假阳性误判问题）
func (bf *BloomFilter) Exist(key []byte) bool {
	h1, h2 := uint32(bf.h1.Sum64(key)), uint32(bf.h2.Sum64(key))
	for i := uint32(0); i < bf.k; i++ {
		targetBit := (h1 + i*h2) % uint32(bf.m)
		// 找到对应的 bit 位，如果值为 0，则 key 肯定不存在
		if bf.bitmap[targetBit>>3]&(1<<(targetBit&7)) == 0 {
			return false
		}
	}

	// key 映射的所有 bit 位均为 1，则认为 key 存在（存在误判概率）
	return true
}

// 已添加的 key 个数
func (bf *BloomFilter) KeyLen() int {
	return bf.keyLen
}

// 重置布隆过滤器
func (bf *BloomFilter) Reset() {
	for i := range bf.bitmap {
		bf.bitmap[i] = 0
	}
	bf.keyLen = 0
}

// 根据 m 和 n 推算出最佳的 k
func bestK(m, n int) uint32 {
	// k 最佳计算公式：k = ln2 * m / n  m——bitmap 长度 n——key个数
	k := 69 * m / 100 / n
	// k ∈ [1,30]
	if k < 1 {
		k = 1
	}
	if k > 30 {
		k = 30
	}
	return uint32(k)
}
