// Package sshtest runs a real SSH server with an SFTP subsystem on a loopback
// port, for tests that need to exercise the full connect-and-list path.
package sshtest

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Addr    string
	HostKey ssh.PublicKey

	config     *ssh.ServerConfig
	listener   net.Listener
	group      errgroup.Group
	noSFTP     bool
	authorized []ssh.PublicKey

	mu    sync.Mutex
	conns []net.Conn
}

type Option func(*Server)

// WithoutSFTP 拒绝 sftp 子系统请求, 认证依然成功
func WithoutSFTP() Option {
	return func(s *Server) {
		s.noSFTP = true
	}
}

// WithAuthorizedKeys 允许这些公钥登录, 任意用户名
func WithAuthorizedKeys(keys ...ssh.PublicKey) Option {
	return func(s *Server) {
		s.authorized = append(s.authorized, keys...)
	}
}

// NewServer 在 127.0.0.1 的随机端口上启动服务器, 测试结束时自动关闭
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	_, hostPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate host key: %v", err)
	}
	hostSigner, err := ssh.NewSignerFromKey(hostPriv)
	if err != nil {
		t.Fatalf("host signer: %v", err)
	}

	s := &Server{HostKey: hostSigner.PublicKey()}
	for _, opt := range opts {
		opt(s)
	}

	s.config = &ssh.ServerConfig{
		PublicKeyCallback: func(meta ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			for _, k := range s.authorized {
				if bytes.Equal(k.Marshal(), key.Marshal()) {
					return &ssh.Permissions{}, nil
				}
			}
			return nil, fmt.Errorf("unknown public key for %q", meta.User())
		},
	}
	s.config.AddHostKey(hostSigner)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s.listener = ln
	s.Addr = ln.Addr().String()

	s.group.Go(s.serve)
	t.Cleanup(s.Close)
	return s
}

// Port 返回监听端口
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Close 停止接受新连接, 断开已有连接并等待所有协程退出
func (s *Server) Close() {
	_ = s.listener.Close()
	s.mu.Lock()
	for _, c := range s.conns {
		_ = c.Close()
	}
	s.conns = nil
	s.mu.Unlock()
	_ = s.group.Wait()
}

func (s *Server) serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		s.group.Go(func() error {
			s.handleConn(conn)
			return nil
		})
	}
}

func (s *Server) handleConn(conn net.Conn) {
	sconn, chans, reqs, err := ssh.NewServerConn(conn, s.config)
	if err != nil {
		_ = conn.Close()
		return
	}
	defer sconn.Close()
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			continue
		}
		s.group.Go(func() error {
			s.handleSession(ch, requests)
			return nil
		})
	}
}

func (s *Server) handleSession(ch ssh.Channel, requests <-chan *ssh.Request) {
	defer ch.Close()
	for req := range requests {
		var payload struct{ Name string }
		ok := req.Type == "subsystem" &&
			ssh.Unmarshal(req.Payload, &payload) == nil &&
			payload.Name == "sftp" &&
			!s.noSFTP
		if req.WantReply {
			_ = req.Reply(ok, nil)
		}
		if !ok {
			continue
		}

		server, err := sftp.NewServer(ch)
		if err != nil {
			return
		}
		go ssh.DiscardRequests(requests)
		_ = server.Serve()
		_ = server.Close()
		return
	}
}
