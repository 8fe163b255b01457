package checker

import (
	"errors"
	"fmt"
)

// Kind 区分检查失败发生在哪一类环节
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig       // 必填字段缺失或非法
	KindKeyLoad      // 私钥读取/解密/格式
	KindNetwork      // DNS, 拒绝连接, 超时, 握手中断
	KindAuth         // 服务器拒绝了私钥
	KindHostKey      // known_hosts 校验失败
	KindRemote       // sftp 子系统或目录列举失败
	KindCanceled     // 检查过程中 ctx 被取消 (Ctrl-C)
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindKeyLoad:
		return "key-load"
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindHostKey:
		return "host-key"
	case KindRemote:
		return "remote"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error 是 Check 返回的唯一错误类型
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf 取出错误链上的 Kind, 不是 *Error 时返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
