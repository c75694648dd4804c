package model

import "time"

// LatLng 緯度経度を表す基本的な型（クラスタリングなどで使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry PostGIS GEOMETRY型に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// ToLatLng GeometryをLatLng型に変換（座標が不完全な場合はfalse）
func (g *Geometry) ToLatLng() (LatLng, bool) {
	if g == nil || len(g.Coordinates) < 2 {
		return LatLng{}, false
	}
	return LatLng{
		Lat: g.Coordinates[1], // latitude
		Lng: g.Coordinates[0], // longitude
	}, true
}

// Event イベントの読み取り専用プロジェクション
type Event struct {
	ID            string    `json:"id" db:"id"`                         // ユニークなイベントID
	Title         string    `json:"title" db:"title"`                   // タイトル
	Description   string    `json:"description" db:"description"`       // 短い説明文
	StartsAt      time.Time `json:"starts_at" db:"starts_at"`           // 開始日時
	EndsAt        time.Time `json:"ends_at" db:"ends_at"`               // 終了日時
	CategoryID    string    `json:"category_id" db:"category_id"`       // カテゴリID
	EditorsChoice bool      `json:"editors_choice" db:"editors_choice"` // 編集部おすすめフラグ
	BannerDesktop *string   `json:"banner_desktop,omitempty" db:"banner_desktop"` // バナー画像（デスクトップ、NULLABLE）
	BannerMobile  *string   `json:"banner_mobile,omitempty" db:"banner_mobile"`   // バナー画像（モバイル、NULLABLE）
	Address       string    `json:"address" db:"address"`               // 自由記述の住所
	City          string    `json:"city" db:"city"`                     // 都市名
	Country       string    `json:"country" db:"country"`               // 国名
	VenueID       *string   `json:"venue_id,omitempty" db:"venue_id"`   // 会場参照（NULLABLE）
	Location      *Geometry `json:"location,omitempty" db:"location"`   // 自身の位置情報（PostGIS GEOMETRY型、NULLABLE）
	IsOnline      bool      `json:"is_online" db:"is_online"`           // オンラインイベントフラグ
	IsPublished   bool      `json:"is_published" db:"is_published"`     // 公開フラグ
}

// HasOwnLocation イベント自身の座標が設定されているかチェック
func (e *Event) HasOwnLocation() bool {
	_, ok := e.Location.ToLatLng()
	return ok
}

// Venue 会場モデル
type Venue struct {
	ID       string    `json:"id" db:"id"`                       // ユニークな会場ID
	Name     string    `json:"name" db:"name"`                   // 会場名
	Location *Geometry `json:"location,omitempty" db:"location"` // 位置情報（PostGIS GEOMETRY型、NULLABLE）
	Address  string    `json:"address" db:"address"`             // 住所
	Banner   *string   `json:"banner,omitempty" db:"banner"`     // バナー画像（NULLABLE）
}

// HasLocation 会場の座標が設定されているかチェック
func (v *Venue) HasLocation() bool {
	if v == nil {
		return false
	}
	_, ok := v.Location.ToLatLng()
	return ok
}

// MapEventRow イベントと会場のJOIN結果1行（ストアから取得した生データ）
type MapEventRow struct {
	Event Event  `json:"event"`
	Venue *Venue `json:"venue,omitempty"` // 会場参照がない場合はnil
}

// MapEvent 座標解決済みのイベント（クラスタリングの入力単位）
type MapEvent struct {
	Event          Event
	Venue          *Venue
	Position       LatLng // 解決済み座標（会場優先）
	DisplayAddress string // 表示用住所（会場優先）
	VenueName      string // 会場名（会場がない場合は空文字）
}
