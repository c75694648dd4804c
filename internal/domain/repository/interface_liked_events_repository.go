package repository

import "context"

// LikedEventsRepository 閲覧者ごとの「いいね済みイベント」ストアへのアクセスを提供する
type LikedEventsRepository interface {
	// GetLikedEventIDs 閲覧者がいいね済みのイベントIDの集合を取得する
	GetLikedEventIDs(ctx context.Context, viewerID string) (map[string]bool, error)

	// Like イベントをいいね済みとして記録する（重複いいねは冪等に扱う）
	Like(ctx context.Context, viewerID, eventID string) error

	// Unlike いいねを取り消す
	Unlike(ctx context.Context, viewerID, eventID string) error
}
