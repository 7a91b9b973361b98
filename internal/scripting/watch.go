package scripting

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to Lua scripts. It runs its own goroutine; the
// game loop polls Changed and calls Engine.Reload itself.
type Watcher struct {
	watcher *fsnotify.Watcher
	changed chan string
	closeCh chan struct{}
	once    sync.Once
	log     *zap.Logger
}

// NewWatcher watches every existing directory in dirs.
func NewWatcher(log *zap.Logger, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			log.Debug("略過不存在的腳本目錄", zap.String("dir", dir), zap.Error(err))
		}
	}

	watcher := &Watcher{
		watcher: w,
		changed: make(chan string, 1),
		closeCh: make(chan struct{}),
		log:     log,
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Changed returns the last changed script path since the previous call, or "".
// Never blocks.
func (w *Watcher) Changed() string {
	select {
	case name := <-w.changed:
		return name
	default:
		return ""
	}
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now
			// 只保留最新一筆，遊戲迴圈一次重載即可涵蓋多個變更
			select {
			case w.changed <- event.Name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("腳本監看錯誤", zap.Error(err))
		case <-w.closeCh:
			return
		}
	}
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".lua"
}
