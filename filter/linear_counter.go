package filter

import (
	"errors"
	"math"
	"math/bits"

	"github.com/xiaoxuxiansheng/goquotient/hash"
)

// Linear Counting 基数估算器. 将 key 哈希后映射到 m 位的 bitmap 上，
// 根据 bitmap 中仍为 0 的 bit 位占比 V 估算出不重复 key 的个数：n ≈ -m * ln(V)
type LinearCounter struct {
	m      int    // bitmap 的长度，单位 bit
	bitmap []byte // 位数组
	hasher hash.Hasher
}

// Linear Counting 估算器构造器. m 为 bitmap 长度（bit），需要与预期基数同量级以保证估算精度
func NewLinearCounter(m int) (*LinearCounter, error) {
	if m <= 0 {
		return nil, errors.New("m must be positive")
	}
	return &LinearCounter{
		m:      m,
		bitmap: make([]byte, (m+7)>>3),
		hasher: hash.NewMurmur3Hasher(),
	}, nil
}

// 添加一个 key
func (lc *LinearCounter) Add(key []byte) {
	targetBit := uint32(lc.hasher.Sum64(key)) % uint32(lc.m)
	lc.bitmap[targetBit>>3] |= 1 << (targetBit & 7)
}

// 估算已添加的不重复 key 个数
func (lc *LinearCounter) Estimate() int {
	// 统计 bitmap 前 m 位中为 1 的 bit 位个数
	var ones int
	for i, b := range lc.bitmap {
		// 末尾 byte 可能包含超出 m 的无效位，需要先掩掉
		if rest := lc.m - i<<3; rest < 8 {
			b &= 1<<rest - 1
		}
		ones += bits.OnesCount8(b)
	}

	// bitmap 已被打满时公式退化，返回 m 作为估算下界
	zeros := lc.m - ones
	if zeros == 0 {
		return lc.m
	}

	// n ≈ -m * ln(V)，V 为仍为 0 的 bit 位占比
	return int(math.Round(-float64(lc.m) * math.Log(float64(zeros)/float64(lc.m))))
}

// 重置估算器
func (lc *LinearCounter) Reset() {
	for i := range lc.bitmap {
		lc.bitmap[i] = 0
	}
}
