package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_BloomFilter_Add_Exist(t *testing.T) {
	bf, err := NewBloomFilter(256, 4)
	if err != nil {
		t.Error(err)
		return
	}

	assert.Nil(t, bf.Add([]byte("a")))
	assert.Nil(t, bf.Add([]byte("b")))
	assert.Nil(t, bf.Add([]byte("c")))
	assert.Nil(t, bf.Add([]byte("d")))

	if ok := bf.Exist([]byte("a")); !ok {
		t.Errorf("key: %v, expect: true, got: false", "a")
	}
	if ok := bf.Exist([]byte("b")); !ok {
		t.Errorf("key: %v, expect: true, got: false", "b")
	}
	if ok := bf.Exist([]byte("c")); !ok {
		t.Errorf("key: %v, expect: true, got: false", "c")
	}
	if ok := bf.Exist([]byte("d")); !ok {
		t.Errorf("key: %v, expect: true, got: false", "d")
	}

	if ok := bf.Exist([]byte("e")); ok {
		t.Errorf("key: %v, expect: false, got: true", "e")
	}

	assert.Equal(t, bf.KeyLen(), 4)
}

func Test_BloomFilter_Reset(t *testing.T) {
	bf, err := NewBloomFilter(256, 4)
	assert.Nil(t, err)

	assert.Nil(t, bf.Add([]byte("a")))
	assert.Equal(t, bf.Exist([]byte("a")), true)

	bf.Reset()
	assert.Equal(t, bf.KeyLen(), 0)
	assert.Equal(t, bf.Exist([]byte("a")), false)
}

func Test_NewBloomFilter(t *testing.T) {
	_, err := NewBloomFilter(0, 4)
	if err == nil {
		t.Errorf("m: %d, expect err, got nil", 0)
	}
	_, err = NewBloomFilter(256, 0)
	if err == nil {
		t.Errorf("expectedKeys: %d, expect err, got nil", 0)
	}
}

func Test_bestK(t *testing.T) {
	// k = ln2 * m / n，且 k ∈ [1,30]
	assert.Equal(t, bestK(256, 4), uint32(30))
	assert.Equal(t, bestK(100, 10), uint32(6))
	assert.Equal(t, bestK(8, 100), uint32(1))
}
