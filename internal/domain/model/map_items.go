package model

import "time"

// MapItemType 地図マーカーの種別
const (
	MapItemTypePoint   = "point"
	MapItemTypeCluster = "cluster"
)

// EventMarker 地図マーカーに埋め込むイベントペイロード（閲覧者のいいね状態付き）
type EventMarker struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	CategoryID    string    `json:"category_id"`
	EditorsChoice bool      `json:"editors_choice"`
	BannerDesktop *string   `json:"banner_desktop,omitempty"`
	BannerMobile  *string   `json:"banner_mobile,omitempty"`
	Address       string    `json:"address"` // 表示用住所（会場優先で解決済み）
	City          string    `json:"city"`
	Country       string    `json:"country"`
	VenueID       *string   `json:"venue_id,omitempty"`
	VenueName     string    `json:"venue_name,omitempty"`
	IsOnline      bool      `json:"is_online"`
	Lat           float64   `json:"lat"` // 解決済み座標
	Lng           float64   `json:"lng"`
	Liked         bool      `json:"liked"` // 閲覧者がいいね済みか（匿名は常にfalse）
}

// MapItem PointまたはClusterのいずれかを表す出力モデル
// 実装はMapPointとMapClusterに限定される（閉じた直和型）
type MapItem interface {
	ItemType() string
}

// MapPoint 単一イベントのマーカー
type MapPoint struct {
	Type  string       `json:"type"` // 常に "point"
	ID    string       `json:"id"`   // イベントID
	Lat   float64      `json:"lat"`
	Lng   float64      `json:"lng"`
	Event *EventMarker `json:"event"`
}

func (p *MapPoint) ItemType() string { return MapItemTypePoint }

// MapCluster 密度クラスタのマーカー
type MapCluster struct {
	Type   string         `json:"type"` // 常に "cluster"
	ID     string         `json:"id"`   // 重心座標から決定的に導出される合成ID
	Lat    float64        `json:"lat"`  // 重心（構成イベント座標の算術平均）
	Lng    float64        `json:"lng"`
	Count  int            `json:"count"`
	Events []*EventMarker `json:"events,omitempty"` // 詳細要求時のみ、イベントID昇順
}

func (c *MapCluster) ItemType() string { return MapItemTypeCluster }
