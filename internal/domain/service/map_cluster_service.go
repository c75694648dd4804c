package service

import (
	"math"
	"sort"

	"EventMap-App/internal/domain/model"
)

// MapBin 1グリッドセル分の集計結果（リクエストごとに生成され、整形後に破棄される）
type MapBin struct {
	CellX    int64             // 経度方向のセルインデックス（floor(lng / g)）
	CellY    int64             // 緯度方向のセルインデックス（floor(lat / g)）
	Count    int               // セル内のイベント数
	Centroid model.LatLng      // 構成イベント座標の算術平均（セルの角ではない）
	Members  []*model.MapEvent // 構成イベント、イベントID昇順
}

// MapClusterService ズームレベルに応じたグリッドビニングを行うドメインサービス
type MapClusterService struct{}

// NewMapClusterService MapClusterServiceの新しいインスタンスを作成
func NewMapClusterService() *MapClusterService {
	return &MapClusterService{}
}

// CellSize ズームレベルに対応するグリッドセルサイズ（度単位）を返す
// ズームが1上がるごとにセルサイズはちょうど半分になる。
func CellSize(zoom int) float64 {
	return 40 / math.Exp2(float64(zoom))
}

// Aggregate 解決済みイベントをグリッドセルへ割り当てて集計する
// 同一入力に対して常に同一のビン割り当てと重心を返すため、
// イベントID昇順で加算してから平均を取る（浮動小数点の加算順を固定）。
func (s *MapClusterService) Aggregate(events []*model.MapEvent, zoom int) []*MapBin {
	cellSize := CellSize(zoom)

	ordered := make([]*model.MapEvent, len(events))
	copy(ordered, events)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Event.ID < ordered[j].Event.ID
	})

	type cellKey struct{ x, y int64 }
	bins := make(map[cellKey]*MapBin)
	var keys []cellKey

	for _, ev := range ordered {
		key := cellKey{
			x: int64(math.Floor(ev.Position.Lng / cellSize)),
			y: int64(math.Floor(ev.Position.Lat / cellSize)),
		}
		bin, ok := bins[key]
		if !ok {
			bin = &MapBin{CellX: key.x, CellY: key.y}
			bins[key] = bin
			keys = append(keys, key)
		}
		bin.Count++
		bin.Members = append(bin.Members, ev)
	}

	// mapの列挙順は不定なので、出現順（＝ID順由来）のキーで走査する
	result := make([]*MapBin, 0, len(keys))
	for _, key := range keys {
		bin := bins[key]
		bin.Centroid = centroidOf(bin.Members)
		result = append(result, bin)
	}
	return result
}

// centroidOf 構成イベント座標の算術平均を計算する（入力はID昇順であること）
func centroidOf(members []*model.MapEvent) model.LatLng {
	var sumLat, sumLng float64
	for _, ev := range members {
		sumLat += ev.Position.Lat
		sumLng += ev.Position.Lng
	}
	n := float64(len(members))
	return model.LatLng{
		Lat: sumLat / n,
		Lng: sumLng / n,
	}
}
