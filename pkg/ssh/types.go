package ssh

import (
	"fmt"
	"strings"
	"time"
)

// Options 控制连接的建立方式, 零值即: 接受任意主机密钥, 不设置超时
type Options struct {
	HostKeyPolicy   HostKeyPolicy
	KnownHostsFiles []string
	// Timeout 同时约束 TCP 拨号和 SSH 握手, 0 表示沿用底层默认 (不超时)
	Timeout time.Duration
}

// DialError TCP 层连接失败 (DNS 解析, 拒绝连接, 超时)
type DialError struct {
	Addr string
	Err  error
}

func (e *DialError) Error() string {
	return fmt.Sprintf("failed to dial %s: %v", e.Addr, e.Err)
}

func (e *DialError) Unwrap() error { return e.Err }

// HandshakeError SSH 握手或认证失败
type HandshakeError struct {
	Addr string
	Err  error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("ssh handshake with %s failed: %v", e.Addr, e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// IsAuthError 判断握手失败是否因为服务器拒绝了我们的凭据.
// x/crypto/ssh 对此没有导出错误类型, 只能匹配消息
func IsAuthError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "unable to authenticate")
}
