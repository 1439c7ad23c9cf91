package goquotient

// 定位商 fq 对应的 run 在环形桶数组中的位置，返回左闭右开区间 [rStart, rEnd)
// 倘若 fq 下尚无任何元素，则 rStart 指向该 run 未来应当开始的位置
// 前置条件：桶数组中必须存在空桶（装载率 < 1），否则扫描无法终止. 该条件由插入侧的容量校验保证
func (bl *bucketList) scanForRun(fq uint64) (rStart, rEnd uint64) {
	// 阶段一：从 canonical 下标 fq 出发向前（下标递减，环形回绕）回溯，
	// 跳过所有 is_shifted 的桶，落点即所属 cluster 的起点
	cStart := fq
	for bl.at(cStart).shifted() {
		cStart = bl.prev(cStart)
	}

	// 阶段二：从 cluster 起点出发向后遍历，每轮越过一个完整的 run：
	// rStart 前进至下一个 run 的首元素（跳过当前 run 的全部 continuation 桶），
	// idx 前进至下一个 is_occupied 的 canonical 标记（对应 cluster 内的下一个商）
	// 当 idx 追上 fq 时，rStart 即为 fq 对应 run 的首元素位置
	rStart = cStart
	for idx := cStart; idx != fq; {
		rStart = bl.next(rStart)
		for bl.at(rStart).continuation() {
			rStart = bl.next(rStart)
		}

		idx = bl.next(idx)
		for !bl.at(idx).occupied() {
			idx = bl.next(idx)
		}
	}

	// 阶段三：从 rStart 的后继出发，跳过当前 run 的全部 continuation 桶，
	// 落点即 run 的右开边界（下一个 run 的起点或空桶）
	rEnd = bl.next(rStart)
	for bl.at(rEnd).continuation() {
		rEnd = bl.next(rEnd)
	}

	return rStart, rEnd
}
