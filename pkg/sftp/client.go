package sftp

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/sftp"
	"github.com/wentf9/sftpcheck/pkg/ssh"
)

// Client 包装了 sftp.Client
type Client struct {
	sftpClient *sftp.Client
}

// NewClient 在已建立的 SSH 连接上打开 sftp 子系统
func NewClient(sshCli *ssh.Client, opts ...sftp.ClientOption) (*Client, error) {
	client, err := sftp.NewClient(sshCli.SSHClient(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sftp subsystem: %w", err)
	}
	return &Client{sftpClient: client}, nil
}

// Close 关闭 SFTP 会话 (不会关闭底层的 SSH 连接)
func (c *Client) Close() error {
	return c.sftpClient.Close()
}

// ReadDir 列出远程目录, 按名称排序
func (c *Client) ReadDir(dir string) ([]os.FileInfo, error) {
	entries, err := c.sftpClient.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list '%s': %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// ListDir 返回远程目录下的文件名, 按名称排序
func (c *Client) ListDir(dir string) ([]string, error) {
	entries, err := c.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
