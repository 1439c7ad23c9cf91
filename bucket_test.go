package goquotient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_bucket_setFlag(t *testing.T) {
	b := newBucket(0b101101)

	// 置位 occupied，其余所有 bit 位必须原样保留
	b = b.setOccupied(true)
	assert.Equal(t, b.occupied(), true)
	assert.Equal(t, b.continuation(), false)
	assert.Equal(t, b.shifted(), false)
	assert.Equal(t, b.remainder(), uint64(0b101101))

	b = b.setContinuation(true)
	b = b.setShifted(true)
	assert.Equal(t, b.occupied(), true)
	assert.Equal(t, b.continuation(), true)
	assert.Equal(t, b.shifted(), true)
	assert.Equal(t, b.remainder(), uint64(0b101101))

	// 清除单个 bit 位，其余位不受影响
	b = b.setContinuation(false)
	assert.Equal(t, b.occupied(), true)
	assert.Equal(t, b.continuation(), false)
	assert.Equal(t, b.shifted(), true)
	assert.Equal(t, b.remainder(), uint64(0b101101))
}

func Test_bucket_isEmpty(t *testing.T) {
	assert.Equal(t, emptyBucket().isEmpty(), true)

	// remainder 为 0 但任意元数据位被置位的桶不为空
	assert.Equal(t, newBucket(0).setOccupied(true).isEmpty(), false)
	assert.Equal(t, newBucket(0).setContinuation(true).isEmpty(), false)
	assert.Equal(t, newBucket(0).setShifted(true).isEmpty(), false)
}

func Test_bucket_clusterStart(t *testing.T) {
	assert.Equal(t, newBucket(1).setOccupied(true).clusterStart(), true)
	assert.Equal(t, newBucket(1).setOccupied(true).setShifted(true).clusterStart(), false)
	assert.Equal(t, newBucket(1).setOccupied(true).setContinuation(true).clusterStart(), false)
	assert.Equal(t, emptyBucket().clusterStart(), false)
}

func Test_newBucketList(t *testing.T) {
	bl, err := newBucketList(8)
	assert.Nil(t, err)
	assert.Equal(t, bl.size(), 8)
	for i := 0; i < 8; i++ {
		assert.Equal(t, bl.at(uint64(i)).isEmpty(), true)
	}

	// 长度必须为 2 的幂
	if _, err = newBucketList(6); err == nil {
		t.Errorf("size: %d, expect err, got nil", 6)
	}
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = newBucketList(0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func Test_bucketList_replace(t *testing.T) {
	bl, err := newBucketList(4)
	assert.Nil(t, err)

	b := newBucket(7).setOccupied(true)
	bl.replace(2, b)
	assert.Equal(t, bl.at(2), b)
	assert.Equal(t, bl.at(1).isEmpty(), true)
	assert.Equal(t, bl.at(3).isEmpty(), true)

	bl.reset()
	assert.Equal(t, bl.at(2).isEmpty(), true)
}

func Test_bucketList_outOfRange(t *testing.T) {
	bl, err := newBucketList(4)
	assert.Nil(t, err)

	// 越界读写属于编程错误，直接 panic
	assert.Panics(t, func() {
		bl.at(4)
	})
	assert.Panics(t, func() {
		bl.replace(100, emptyBucket())
	})
}

func Test_bucketList_circular(t *testing.T) {
	bl, err := newBucketList(8)
	assert.Nil(t, err)
	assert.Equal(t, bl.next(7), uint64(0))
	assert.Equal(t, bl.prev(0), uint64(7))
	assert.Equal(t, bl.next(3), uint64(4))
	assert.Equal(t, bl.prev(3), uint64(2))
}
