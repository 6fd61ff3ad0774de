package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher 监听参考数据文件，变更稳定后重新加载并回调
//
// 监听的是文件所在目录，编辑器“写临时文件再改名”的保存方式也能被捕获。
// 加载或校验失败时保留旧数据，只记录日志。
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Reference)
	logger   *zap.Logger
}

// NewWatcher 创建监听器
func NewWatcher(path string, logger *zap.Logger, onReload func(*Reference)) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		onReload: onReload,
		logger:   logger,
	}
}

// Run 阻塞运行直到 ctx 结束
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching reference catalog", zap.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	ref, err := Load(w.path)
	if err != nil {
		w.logger.Warn("reload reference catalog failed, keeping previous data", zap.Error(err))
		return
	}
	w.logger.Info("reference catalog reloaded",
		zap.String("version", ref.Version),
		zap.Int("avatarBases", len(ref.AvatarBases)),
		zap.Int("entries", len(ref.Compatibility)))
	if w.onReload != nil {
		w.onReload(ref)
	}
}
