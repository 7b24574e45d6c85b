package byterange

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrSyntax Range 头格式错误
	ErrSyntax = errors.New("byterange: 非法的 Range 头")
	// ErrUnsatisfiable 格式正确但超出资源范围
	ErrUnsatisfiable = errors.New("byterange: Range 无法满足")
)

// SyntaxError 格式错误，Raw 是原始的头内容
type SyntaxError struct {
	Raw    string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("byterange: 非法的 Range 头 %q: %s", e.Raw, e.Reason)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// UnsatisfiableError 归一后的区间落在 [0, Size-1] 之外
type UnsatisfiableError struct {
	Raw  string
	Size int64
}

func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("byterange: Range %q 超出资源大小 %d", e.Raw, e.Size)
}

func (e *UnsatisfiableError) Is(target error) bool {
	return target == ErrUnsatisfiable
}

func syntaxErr(raw, reason string) error {
	return &SyntaxError{Raw: raw, Reason: reason}
}

func unsatisfiable(raw string, size int64) error {
	return &UnsatisfiableError{Raw: raw, Size: size}
}
