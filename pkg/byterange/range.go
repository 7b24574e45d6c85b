package byterange

import (
	"strconv"
	"strings"
)

// Kind Range 头的形式
type Kind int

const (
	None      Kind = iota // 没有 Range 头
	Closed                // start-end
	Suffix                // -n，最后 n 个字节
	OpenStart             // start-，从 start 到末尾
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Closed:
		return "closed"
	case Suffix:
		return "suffix"
	case OpenStart:
		return "open-start"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

const prefix = "bytes="

// Value 解析后的 Range 头，还没有和资源大小做校验
type Value struct {
	Kind   Kind
	Start  int64
	End    int64
	Suffix int64
	raw    string
}

// Raw 原始的头内容
func (v Value) Raw() string {
	return v.raw
}

// Span 闭区间 [Start, End]
type Span struct {
	Start int64
	End   int64
}

// Len 区间的字节数
func (s Span) Len() int64 {
	return s.End - s.Start + 1
}

// Header 请求头 Range 的值
func (s Span) Header() string {
	return prefix + strconv.FormatInt(s.Start, 10) + "-" + strconv.FormatInt(s.End, 10)
}

// ContentRange 响应头 Content-Range 的值
func (s Span) ContentRange(size int64) string {
	return "bytes " + strconv.FormatInt(s.Start, 10) + "-" + strconv.FormatInt(s.End, 10) + "/" + strconv.FormatInt(size, 10)
}

func (s Span) String() string {
	return strconv.FormatInt(s.Start, 10) + "-" + strconv.FormatInt(s.End, 10)
}

// FormatUnsatisfied 416 时的 Content-Range
func FormatUnsatisfied(size int64) string {
	return "bytes */" + strconv.FormatInt(size, 10)
}

// ParseContentRange 解析 206 响应的 Content-Range，如 bytes 0-99/1000。
// 总大小为 * 时 size 返回 -1。
func ParseContentRange(raw string) (span Span, size int64, err error) {
	spec, ok := strings.CutPrefix(strings.TrimSpace(raw), "bytes ")
	if !ok {
		return Span{}, 0, syntaxErr(raw, "缺少 bytes 单位")
	}
	rng, total, ok := strings.Cut(spec, "/")
	if !ok {
		return Span{}, 0, syntaxErr(raw, "缺少 '/'")
	}
	first, last, ok := strings.Cut(rng, "-")
	if !ok {
		return Span{}, 0, syntaxErr(raw, "缺少 '-'")
	}
	if span.Start, err = parseIndex(first); err != nil {
		return Span{}, 0, syntaxErr(raw, "start 不是数字")
	}
	if span.End, err = parseIndex(last); err != nil {
		return Span{}, 0, syntaxErr(raw, "end 不是数字")
	}
	if span.Start > span.End {
		return Span{}, 0, syntaxErr(raw, "start 大于 end")
	}
	if total == "*" {
		return span, -1, nil
	}
	if size, err = parseIndex(total); err != nil {
		return Span{}, 0, syntaxErr(raw, "总大小不是数字")
	}
	if span.End >= size {
		return Span{}, 0, unsatisfiable(raw, size)
	}
	return span, size, nil
}

// Parse 解析 Range 头。
//
// 支持的写法:
//
//	bytes=0-1024  前 1025 个字节
//	bytes=-500    最后 500 个字节
//	bytes=1025-   从 1025 到文件末尾
//	0-0           bytes= 前缀可以省略
//
// 空字符串表示没有 Range 头。多段(逗号分隔)不支持。
func Parse(raw string) (Value, error) {
	v := Value{raw: raw}
	spec := strings.TrimSpace(raw)
	if spec == "" {
		return v, nil
	}
	spec = strings.TrimPrefix(spec, prefix)

	idx := strings.IndexByte(spec, '-')
	if idx < 0 {
		return v, syntaxErr(raw, "缺少 '-'")
	}
	first, last := spec[:idx], spec[idx+1:]

	switch {
	case first == "" && last == "":
		return v, syntaxErr(raw, "起止位置都为空")
	case first == "":
		n, err := parseIndex(last)
		if err != nil {
			return v, syntaxErr(raw, "suffix 长度不是数字")
		}
		if n <= 0 {
			return v, syntaxErr(raw, "suffix 长度必须大于 0")
		}
		v.Kind, v.Suffix = Suffix, n
	case last == "":
		start, err := parseIndex(first)
		if err != nil {
			return v, syntaxErr(raw, "start 不是数字")
		}
		v.Kind, v.Start = OpenStart, start
	default:
		start, err := parseIndex(first)
		if err != nil {
			return v, syntaxErr(raw, "start 不是数字")
		}
		end, err := parseIndex(last)
		if err != nil {
			return v, syntaxErr(raw, "end 不是数字")
		}
		if start > end {
			return v, syntaxErr(raw, "start 大于 end")
		}
		v.Kind, v.Start, v.End = Closed, start, end
	}
	return v, nil
}

// Resolve 根据资源大小把 Value 归一成 Span，保证 0 <= Start <= End < size
func (v Value) Resolve(size int64) (Span, error) {
	if size <= 0 {
		return Span{}, unsatisfiable(v.raw, size)
	}
	switch v.Kind {
	case None:
		return Span{Start: 0, End: size - 1}, nil
	case Closed:
		if v.End >= size {
			return Span{}, unsatisfiable(v.raw, size)
		}
		return Span{Start: v.Start, End: v.End}, nil
	case Suffix:
		return Span{Start: max(0, size-v.Suffix), End: size - 1}, nil
	case OpenStart:
		if v.Start >= size {
			return Span{}, unsatisfiable(v.raw, size)
		}
		return Span{Start: v.Start, End: size - 1}, nil
	}
	return Span{}, syntaxErr(v.raw, "未知的 Range 形式")
}

// Resolve 解析并归一 raw，partial 表示请求的是部分内容
func Resolve(raw string, size int64) (span Span, partial bool, err error) {
	v, err := Parse(raw)
	if err != nil {
		return Span{}, false, err
	}
	span, err = v.Resolve(size)
	return span, v.Kind != None, err
}

// parseIndex 只接受纯数字，strconv 会接受 "+5"，这里不行
func parseIndex(s string) (int64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseInt(s, 10, 64)
}
