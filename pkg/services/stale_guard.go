package services

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded 後続リクエストに追い越された呼び出しの結果を破棄するためのセンチネル
// 画面に出すエラーではなく、結果を適用しない合図として扱う
var ErrSuperseded = errors.New("superseded by a newer request")

// staleGuard 同種の非同期リクエストの世代管理
// 新しいリクエストが始まると前の世代の in-flight をキャンセルし、
// 遅れて完了した古い世代の結果は呼び出し側で破棄させる
type staleGuard struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// begin は新しい世代を開始し、進行中の前回呼び出しをキャンセルする
// 返るコンテキストには上限タイムアウトが掛かる
func (g *staleGuard) begin(parent context.Context, timeout time.Duration) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	g.seq++
	ctx, cancel := context.WithTimeout(parent, timeout)
	g.cancel = cancel
	return ctx, g.seq
}

// current は token がまだ最新世代かどうかを返す
func (g *staleGuard) current(token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return token == g.seq
}

// done は世代の終了処理。最新世代ならコンテキストを解放する
func (g *staleGuard) done(token uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if token == g.seq && g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
