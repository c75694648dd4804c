package repository

import (
	"context"

	"EventMap-App/internal/domain/model"
)

// MapEventsRepository 地図クエリ用のイベント＋会場ストアへのアクセスを提供する
type MapEventsRepository interface {
	// FindForMap フィルター条件に基づきイベントと会場のJOIN結果を1回のクエリで取得する
	// ストア側への絞り込みの押し下げは最適化であり、最終的な判定は
	// コンパイル済み述語がプロセス内で行うため、取得範囲が条件より広くても構わない。
	FindForMap(ctx context.Context, scope *model.MapFilter) ([]model.MapEventRow, error)
}
