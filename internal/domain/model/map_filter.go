package model

import "time"

// BoundingBox 地図ビューポートの境界ボックス
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// MapFilter 地図クエリの絞り込み条件
// 各フィールドは独立して任意指定。未指定のフィールドは絞り込みに寄与しない。
type MapFilter struct {
	SearchTerm        string       // フリーテキスト検索（タイトルまたは説明文）
	CategoryIDs       []string     // カテゴリIDの集合（空は「絞り込みなし」）
	VenueIDs          []string     // 会場IDの集合（空は「絞り込みなし」）
	DateRangeStart    *time.Time   // 期間の開始（NULLABLE）
	DateRangeEnd      *time.Time   // 期間の終了（NULLABLE）
	OnlineOnly        bool         // オンラインイベントのみ
	EditorsChoiceOnly bool         // 編集部おすすめのみ
	BoundingBox       *BoundingBox // ビューポート（NULLABLE、指定時は4値すべて必須）
}

// MapQuery 地図クエリ1回分の入力値
type MapQuery struct {
	Zoom          int       // ズームレベル（グリッドセルサイズを決定）
	Filter        MapFilter // 絞り込み条件
	IncludeDetail bool      // クラスタに構成イベントの一覧を含めるか
	ViewerID      string    // 閲覧者ID（空文字は匿名）
}
