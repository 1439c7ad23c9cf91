package goquotient

import (
	"sync"

	"github.com/xiaoxuxiansheng/goquotient/filter"
)

// quotient filter 实现了通用的过滤器 interface
var _ filter.Filter = (*QuotientFilter)(nil)

// quotient filter. 基于开放寻址数组的近似存在性索引，是位数组 bloom filter 的缓存友好替代方案
// 1 基于 config 构造一个过滤器
// 2 添加一个 key
// 3 判定一个 key 是否存在（无假阴性，可能假阳性）
type QuotientFilter struct {
	conf *Config

	// 读写桶数组时使用的锁. 插入会在数组上产生级联腾挪，读操作不能观察到腾挪的中间态，
	// 因此整个桶数组采用单写多读的独占锁纪律
	mu sync.RWMutex

	// 环形桶数组，长度为 2^q
	buckets *bucketList

	// 已存入的 remainder 个数. 用于插入前的容量校验
	count int
}

// quotient filter 构造器
func NewQuotientFilter(conf *Config) (*QuotientFilter, error) {
	// 1 防止使用方绕过 NewConfig 手动构造配置，此处兜底修复并二次校验
	repaire(conf)
	if err := conf.check(); err != nil {
		return nil, err
	}

	// 2 分配空的环形桶数组，长度为 2^q
	buckets, err := newBucketList(1 << conf.QuotientBits)
	if err != nil {
		return nil, err
	}

	return &QuotientFilter{
		conf:    conf,
		buckets: buckets,
	}, nil
}

// 添加一个 key 到过滤器. 过滤器已满时返回 ErrFilterFull
func (qf *QuotientFilter) Add(key []byte) error {
	qf.mu.Lock()
	defer qf.mu.Unlock()

	fq, fr := qf.split(qf.fingerprint(key))
	return qf.insert(fq, fr)
}

// 判断 key 是否存在. 返回 false 时 key 必然未被添加过（无假阴性）；
// 返回 true 时 key 大概率被添加过（不同 key 可能产生相同的指纹，存在假阳性）
func (qf *QuotientFilter) Exist(key []byte) bool {
	qf.mu.RLock()
	defer qf.mu.RUnlock()

	fq, fr := qf.split(qf.fingerprint(key))

	// canonical 桶的 is_occupied 位为 0，则必然不存在以 fq 为商的元素，直接返回
	if !qf.buckets.at(fq).occupied() {
		return false
	}

	// 定位 fq 对应的 run，在 [rStart, rEnd) 区间内线性查找 remainder
	rStart, rEnd := qf.buckets.scanForRun(fq)
	for idx := rStart; idx != rEnd; idx = qf.buckets.next(idx) {
		if qf.buckets.at(idx).remainder() == fr {
			return true
		}
	}
	return false
}

// 已添加的 key 个数. 重复 key 会被重复计数（多重集语义）
func (qf *QuotientFilter) KeyLen() int {
	qf.mu.RLock()
	defer qf.mu.RUnlock()
	return qf.count
}

// 重置过滤器. 清空所有桶
func (qf *QuotientFilter) Reset() {
	qf.mu.Lock()
	defer qf.mu.Unlock()
	qf.buckets.reset()
	qf.count = 0
}

// 过滤器最大可容纳的元素个数. 为保证扫描必然终止，数组需要始终保留至少一个空桶，因此为 2^q - 1
func (qf *QuotientFilter) Cap() int {
	return qf.buckets.size() - 1
}

// 将 key 哈希后压缩为 n 位指纹
func (qf *QuotientFilter) fingerprint(key []byte) uint64 {
	return fingerprintFromHash(qf.conf.Hasher.Sum64(key), qf.conf.TotalBits)
}

// 将 n 位指纹拆分为商和余数
func (qf *QuotientFilter) split(fingerprint uint64) (fq, fr uint64) {
	return splitFingerprint(fingerprint, qf.conf.TotalBits, qf.conf.QuotientBits)
}

// 将任意宽度的哈希值压缩为 totalBits 位的指纹，即对 2^totalBits 取模
func fingerprintFromHash(h uint64, totalBits int) uint64 {
	if totalBits >= 64 {
		return h
	}
	return h & (1<<uint(totalBits) - 1)
}

// 将 totalBits 位的指纹拆分为商和余数：
// 余数 fr = fingerprint mod 2^(n-q)，取低 n-q 位；商 fq = fingerprint div 2^(n-q)，取高 q 位
// 前置条件：fingerprint 必须在 totalBits 位以内，使用方需要先行截断
func splitFingerprint(fingerprint uint64, totalBits, quotientBits int) (fq, fr uint64) {
	remainderBits := uint(totalBits - quotientBits)
	fq = fingerprint >> remainderBits
	fr = fingerprint & (1<<remainderBits - 1)
	return fq, fr
}

// 将余数 fr 插入到商 fq 对应的 run 中
func (qf *QuotientFilter) insert(fq, fr uint64) error {
	// 1 容量校验. 必须始终保留至少一个空桶，否则 run/cluster 扫描会失去终止条件
	if qf.count >= qf.Cap() {
		return ErrFilterFull
	}

	// 2 canonical 桶为空桶时，元素落在原位，直接写入即可
	canon := qf.buckets.at(fq)
	if canon.isEmpty() {
		qf.buckets.replace(fq, newBucket(fr).setOccupied(true))
		qf.count++
		return nil
	}

	// 3 canonical 桶被占用. 先确保 is_occupied 位置位，再定位 fq 对应的 run
	// （扫描依赖 fq 处的 occupied 标记作为阶段二的终点，置位必须先于扫描）
	wasOccupied := canon.occupied()
	if !wasOccupied {
		qf.buckets.replace(fq, canon.setOccupied(true))
	}
	rStart, rEnd := qf.buckets.scanForRun(fq)

	// 4 确定插入位置
	nb := newBucket(fr)
	idx := rStart
	if wasOccupied {
		// run 已存在. 在 [rStart, rEnd) 内按 remainder 升序寻找插入点，相等时插到其后
		// （重复元素允许且全部保留，多重集语义）
		for idx != rEnd && qf.buckets.at(idx).remainder() <= fr {
			idx = qf.buckets.next(idx)
		}

		if idx == rStart {
			// 新元素成为 run 的首元素，原首元素降级为 continuation，随后续腾挪一并右移
			qf.buckets.replace(rStart, qf.buckets.at(rStart).setContinuation(true))
		} else {
			// 新元素位于 run 内部或末尾，属于 continuation
			nb = nb.setContinuation(true)
		}
	}

	// 5 物理位置偏离 canonical 下标时打上 shifted 标记
	if idx != fq {
		nb = nb.setShifted(true)
	}

	// 6 原子地腾挪并写入
	qf.buckets.insertAt(idx, nb)
	qf.count++
	return nil
}

// 在 idx 处原子地完成腾挪与写入：将新桶 b 放置在 idx 上，原有占用者依次向右搬迁，
// 直至遇到空桶吸收掉最后一个被搬迁的桶，级联终止
// 被搬迁的桶会被打上 is_shifted 标记，其 is_continuation 位原样保留（不同 run 不能被合并）；
// is_occupied 位描述的是物理下标本身是否作为 canonical 下标被引用，固定在原下标上，不随搬迁移动
func (bl *bucketList) insertAt(idx uint64, b bucket) {
	curr := b
	for {
		prev := bl.at(idx)
		empty := prev.isEmpty()
		if !empty {
			prev = prev.setShifted(true)
			if prev.occupied() {
				curr = curr.setOccupied(true)
				prev = prev.setOccupied(false)
			}
		}

		bl.replace(idx, curr)
		if empty {
			return
		}

		curr = prev
		idx = bl.next(idx)
	}
}
