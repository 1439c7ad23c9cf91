package goquotient

import (
	"errors"
	"fmt"

	"github.com/xiaoxuxiansheng/goquotient/hash"
)

var (
	// 过滤器配置非法. 构造阶段即返回，过滤器无法创建
	ErrInvalidConfig = errors.New("invalid quotient filter config")

	// 过滤器已满. 为保证 run/cluster 扫描必然终止，桶数组需要始终保留至少一个空桶
	ErrFilterFull = errors.New("quotient filter is full")
)

// quotient filter 配置项聚合
type Config struct {
	TotalBits    int // 指纹总位数 n. 哈希值会被压缩到 n 位作为指纹
	QuotientBits int // 商的位数 q. 取指纹的高 q 位作为商，桶数组长度为 2^q

	Hasher hash.Hasher // 哈希器. 默认使用 murmur3
}

// 配置构造器. totalBits 为指纹总位数 n，quotientBits 为商的位数 q
func NewConfig(totalBits, quotientBits int, opts ...ConfigOption) (*Config, error) {
	c := Config{
		TotalBits:    totalBits,
		QuotientBits: quotientBits,
	}

	// 加载配置项
	for _, opt := range opts {
		opt(&c)
	}

	// 兜底修复
	repaire(&c)

	// 校验配置合法性
	return &c, c.check()
}

// 校验配置合法性. q 必须为正且严格小于 n；指纹不能超过 64 位；remainder 需要能装入单个桶
func (c *Config) check() error {
	if c.QuotientBits <= 0 {
		return fmt.Errorf("%w: quotient bits must be positive, got: %d", ErrInvalidConfig, c.QuotientBits)
	}
	if c.QuotientBits >= c.TotalBits {
		return fmt.Errorf("%w: quotient bits: %d must be less than total bits: %d", ErrInvalidConfig, c.QuotientBits, c.TotalBits)
	}
	if c.TotalBits > 64 {
		return fmt.Errorf("%w: total bits must not exceed 64, got: %d", ErrInvalidConfig, c.TotalBits)
	}
	if c.TotalBits-c.QuotientBits > MaxRemainderBits {
		return fmt.Errorf("%w: remainder bits: %d must not exceed %d", ErrInvalidConfig, c.TotalBits-c.QuotientBits, MaxRemainderBits)
	}
	return nil
}

// 配置项
type ConfigOption func(*Config)

// 注入哈希器的具体实现. 默认使用 murmur3
func WithHasher(hasher hash.Hasher) ConfigOption {
	return func(c *Config) {
		c.Hasher = hasher
	}
}

func repaire(c *Config) {
	// 哈希器默认使用 murmur3
	if c.Hasher == nil {
		c.Hasher = hash.NewMurmur3Hasher()
	}
}
