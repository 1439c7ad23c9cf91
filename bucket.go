package goquotient

import "fmt"

// 桶内 3 个元数据 bit 位的定义
const (
	bucketBitOccupied     = 1 << 0 // is_occupied: 该下标作为 canonical 下标时，是否存在以其为商的 remainder
	bucketBitContinuation = 1 << 1 // is_continuation: 该桶是否为所属 run 的非首个元素
	bucketBitShifted      = 1 << 2 // is_shifted: 该桶的物理位置是否偏离了其 canonical 下标

	// 元数据 3 个 bit 位的掩码
	bucketMetaMask = bucketBitOccupied | bucketBitContinuation | bucketBitShifted

	// remainder 在桶内的位偏移量. 桶内低 3 位为元数据，高位为 remainder
	bucketRemainderOffset = 3

	// remainder 最大支持的位宽. 一个桶以单个 uint64 承载，扣减 3 位元数据后剩余 61 位
	MaxRemainderBits = 64 - bucketRemainderOffset
)

// 桶. 以单个 uint64 承载：低 3 位为元数据 bit 位，高 61 位存放 remainder
// 任意一个实际存储了 remainder 的桶，3 个元数据 bit 位中至少有一位为 1
// （位于 canonical 下标且未偏移的 run 首元素必然 occupied；偏移过的必然 shifted；run 内后继元素必然 continuation）
// 因此元数据 3 位全 0 即可作为空桶的哨兵标识
type bucket uint64

// 空桶. 元数据 3 位全 0，无存储值
func emptyBucket() bucket {
	return 0
}

// 基于 remainder 构造一个新桶. 元数据 3 位全 0，由使用方按需设置
func newBucket(remainder uint64) bucket {
	return bucket(remainder << bucketRemainderOffset)
}

// 桶是否为空. 元数据 3 位全 0 视为空桶
func (b bucket) isEmpty() bool {
	return b&bucketMetaMask == 0
}

// 取出桶内存储的 remainder
func (b bucket) remainder() uint64 {
	return uint64(b) >> bucketRemainderOffset
}

// is_occupied 位是否为 1
func (b bucket) occupied() bool {
	return b&bucketBitOccupied != 0
}

// 返回一个仅 is_occupied 位被替换的新桶，其余所有 bit 位原样保留
func (b bucket) setOccupied(ok bool) bucket {
	if ok {
		return b | bucketBitOccupied
	}
	return b &^ bucketBitOccupied
}

// is_continuation 位是否为 1
func (b bucket) continuation() bool {
	return b&bucketBitContinuation != 0
}

// 返回一个仅 is_continuation 位被替换的新桶，其余所有 bit 位原样保留
func (b bucket) setContinuation(ok bool) bucket {
	if ok {
		return b | bucketBitContinuation
	}
	return b &^ bucketBitContinuation
}

// is_shifted 位是否为 1
func (b bucket) shifted() bool {
	return b&bucketBitShifted != 0
}

// 返回一个仅 is_shifted 位被替换的新桶，其余所有 bit 位原样保留
func (b bucket) setShifted(ok bool) bucket {
	if ok {
		return b | bucketBitShifted
	}
	return b &^ bucketBitShifted
}

// 该桶是否为一个 cluster 的起点. cluster 起点必然未偏移、非 continuation，且自身为 canonical 元素
func (b bucket) clusterStart() bool {
	return b.occupied() && !b.continuation() && !b.shifted()
}

// 桶数组. 长度固定为 2 的幂的环形数组，归属于唯一一个过滤器实例
// 所有桶的读写都需要经由 at/replace 方法，越界访问属于编程错误，直接 panic
type bucketList struct {
	buckets []bucket
	mask    uint64 // len(buckets) - 1. 用于环形下标运算
}

// 桶数组构造器. size 必须为 2 的幂
func newBucketList(size int) (*bucketList, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: bucket list size must be a power of two, got: %d", ErrInvalidConfig, size)
	}
	return &bucketList{
		buckets: make([]bucket, size),
		mask:    uint64(size - 1),
	}, nil
}

// 桶数组长度
func (bl *bucketList) size() int {
	return len(bl.buckets)
}

// 读取 idx 处的桶. 越界直接 panic
func (bl *bucketList) at(idx uint64) bucket {
	if idx >= uint64(len(bl.buckets)) {
		panic(fmt.Sprintf("bucket index out of range: %d, size: %d", idx, len(bl.buckets)))
	}
	return bl.buckets[idx]
}

// 以 b 替换 idx 处的桶. 这是桶数组唯一的变更入口. 越界直接 panic
func (bl *bucketList) replace(idx uint64, b bucket) {
	if idx >= uint64(len(bl.buckets)) {
		panic(fmt.Sprintf("bucket index out of range: %d, size: %d", idx, len(bl.buckets)))
	}
	bl.buckets[idx] = b
}

// 环形数组中 idx 的后继下标
func (bl *bucketList) next(idx uint64) uint64 {
	return (idx + 1) & bl.mask
}

// 环形数组中 idx 的前驱下标
func (bl *bucketList) prev(idx uint64) uint64 {
	return (idx - 1) & bl.mask
}

// 清空所有桶
func (bl *bucketList) reset() {
	for i := range bl.buckets {
		bl.buckets[i] = emptyBucket()
	}
}
