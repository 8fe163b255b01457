package runner

import (
	"context"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/wentf9/sftpcheck/pkg/checker"
	"github.com/wentf9/sftpcheck/pkg/models"
)

type Checker interface {
	Check(ctx context.Context, ep models.Endpoint) checker.Result
}

type Reporter interface {
	Attempt(ep models.Endpoint)
	Result(r checker.Result)
}

type Option func(*options)

type options struct {
	bar *progressbar.ProgressBar
}

// WithProgress 每检查完一个端点推进一次进度条
func WithProgress(bar *progressbar.ProgressBar) Option {
	return func(o *options) {
		o.bar = bar
	}
}

// NewProgressBar 创建写到 w 的进度条, visible 为 false 时不输出任何内容
func NewProgressBar(w io.Writer, total int, visible bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("checking"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetVisibility(visible),
	)
}

// RunSequential 按输入顺序逐个检查, 上一个端点的连接释放后才开始下一个.
// 返回的结果与 endpoints 一一对应; ctx 取消后不再开始新的检查, 结果只包含已检查的端点
func RunSequential(ctx context.Context, endpoints []models.Endpoint, c Checker, r Reporter, opts ...Option) []checker.Result {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	results := make([]checker.Result, 0, len(endpoints))
	for _, ep := range endpoints {
		if ctx.Err() != nil {
			break
		}
		if o.bar != nil {
			o.bar.Describe(ep.Alias)
		}
		r.Attempt(ep)
		res := c.Check(ctx, ep)
		r.Result(res)
		results = append(results, res)
		if o.bar != nil {
			_ = o.bar.Add(1)
		}
	}
	if o.bar != nil {
		_ = o.bar.Finish()
	}
	return results
}
