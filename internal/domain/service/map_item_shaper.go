package service

import (
	"fmt"
	"sort"

	"EventMap-App/internal/domain/model"
)

// MapItemShaper ビンの集計結果をPoint/Clusterの出力モデルへ整形する
type MapItemShaper struct{}

// NewMapItemShaper MapItemShaperの新しいインスタンスを作成
func NewMapItemShaper() *MapItemShaper {
	return &MapItemShaper{}
}

// shapedItem ソートキーを保持する整形途中の1件
type shapedItem struct {
	item          model.MapItem
	count         int
	lat, lng      float64
	firstMemberID string
}

// Shape 各ビンをMapItemへ変換し、決定的な全順序で並べて返す
// 要素1件のビンは常にPoint、2件以上のビンは常にCluster。
// 並び順: イベント数の降順 → 緯度昇順 → 経度昇順 → 先頭イベントID昇順。
func (s *MapItemShaper) Shape(bins []*MapBin, includeDetail bool) []model.MapItem {
	shaped := make([]shapedItem, 0, len(bins))
	for _, bin := range bins {
		shaped = append(shaped, s.shapeBin(bin, includeDetail))
	}

	sort.Slice(shaped, func(i, j int) bool {
		a, b := shaped[i], shaped[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.lat != b.lat {
			return a.lat < b.lat
		}
		if a.lng != b.lng {
			return a.lng < b.lng
		}
		return a.firstMemberID < b.firstMemberID
	})

	items := make([]model.MapItem, len(shaped))
	for i := range shaped {
		items[i] = shaped[i].item
	}
	return items
}

// shapeBin 1ビンをPointまたはClusterへ変換する
func (s *MapItemShaper) shapeBin(bin *MapBin, includeDetail bool) shapedItem {
	if bin.Count == 1 {
		ev := bin.Members[0]
		// 単独ビンは重心ではなくイベント自身の解決済み座標を正とする（値は一致する）
		point := &model.MapPoint{
			Type:  model.MapItemTypePoint,
			ID:    ev.Event.ID,
			Lat:   ev.Position.Lat,
			Lng:   ev.Position.Lng,
			Event: NewEventMarker(ev),
		}
		return shapedItem{
			item:          point,
			count:         1,
			lat:           point.Lat,
			lng:           point.Lng,
			firstMemberID: ev.Event.ID,
		}
	}

	cluster := &model.MapCluster{
		Type:  model.MapItemTypeCluster,
		ID:    clusterID(bin.Centroid),
		Lat:   bin.Centroid.Lat,
		Lng:   bin.Centroid.Lng,
		Count: bin.Count,
	}
	if includeDetail {
		cluster.Events = make([]*model.EventMarker, 0, len(bin.Members))
		for _, ev := range bin.Members {
			cluster.Events = append(cluster.Events, NewEventMarker(ev))
		}
	}
	return shapedItem{
		item:          cluster,
		count:         bin.Count,
		lat:           cluster.Lat,
		lng:           cluster.Lng,
		firstMemberID: bin.Members[0].Event.ID,
	}
}

// clusterID 重心座標から合成クラスタIDを決定的に導出する
func clusterID(centroid model.LatLng) string {
	return fmt.Sprintf("cluster_%.6f_%.6f", centroid.Lat, centroid.Lng)
}

// NewEventMarker 解決済みイベントから出力用ペイロードを作成する（いいね状態は未設定）
func NewEventMarker(ev *model.MapEvent) *model.EventMarker {
	return &model.EventMarker{
		ID:            ev.Event.ID,
		Title:         ev.Event.Title,
		Description:   ev.Event.Description,
		StartsAt:      ev.Event.StartsAt,
		EndsAt:        ev.Event.EndsAt,
		CategoryID:    ev.Event.CategoryID,
		EditorsChoice: ev.Event.EditorsChoice,
		BannerDesktop: ev.Event.BannerDesktop,
		BannerMobile:  ev.Event.BannerMobile,
		Address:       ev.DisplayAddress,
		City:          ev.Event.City,
		Country:       ev.Event.Country,
		VenueID:       ev.Event.VenueID,
		VenueName:     ev.VenueName,
		IsOnline:      ev.Event.IsOnline,
		Lat:           ev.Position.Lat,
		Lng:           ev.Position.Lng,
	}
}
