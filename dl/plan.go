package dl

import (
	"github.com/pkg/errors"
)

// Plan 把 [0, size-1] 切成不重叠、首尾相接的分段。
//
// 分块大小 block = ceil(size / workers)，第 i 个分段负责
// [i*block, min(size-1, (i+1)*block-1)]，start 越界的分段直接丢弃(workers > size 时)。
// 服务器不支持 Range 时只返回一个顺序下载的分段。
func Plan(size int64, workers int, acceptRanges bool) ([]*Segment, error) {
	if size <= 0 {
		return nil, errors.Errorf("文件大小必须大于0：%d", size)
	}
	if workers < 1 {
		return nil, errors.Errorf("分段数必须大于0：%d", workers)
	}

	if !acceptRanges {
		return []*Segment{{Index: 0, Start: 0, End: size - 1, Sequential: true}}, nil
	}

	n := int64(workers)
	block := size / n
	if size%n != 0 {
		block++
	}

	segments := make([]*Segment, 0, workers)
	for i := int64(0); i < n; i++ {
		start := i * block
		if start >= size {
			break
		}
		end := min(size-1, start+block-1)
		segments = append(segments, &Segment{
			Index: int(i),
			Start: start,
			End:   end,
		})
	}
	return segments, nil
}
