package service

import (
	"EventMap-App/internal/domain/model"
)

// CoordinateResolver イベントの正位置を決定するリゾルバー
// 会場の座標が揃っている場合は会場を正とし、表示用の住所・会場名も会場側を使う。
// どちらの座標も無いイベントは候補集合から除外される。
type CoordinateResolver struct{}

// NewCoordinateResolver CoordinateResolverの新しいインスタンスを作成
func NewCoordinateResolver() *CoordinateResolver {
	return &CoordinateResolver{}
}

// Resolve JOIN結果の各行について座標を解決し、解決不能な行を除外する
func (r *CoordinateResolver) Resolve(rows []model.MapEventRow) []*model.MapEvent {
	resolved := make([]*model.MapEvent, 0, len(rows))
	for i := range rows {
		if ev, ok := r.resolveRow(&rows[i]); ok {
			resolved = append(resolved, ev)
		}
	}
	return resolved
}

// resolveRow 1行分の座標解決（会場優先）
func (r *CoordinateResolver) resolveRow(row *model.MapEventRow) (*model.MapEvent, bool) {
	if row.Venue != nil {
		if pos, ok := row.Venue.Location.ToLatLng(); ok {
			return &model.MapEvent{
				Event:          row.Event,
				Venue:          row.Venue,
				Position:       pos,
				DisplayAddress: row.Venue.Address,
				VenueName:      row.Venue.Name,
			}, true
		}
	}

	if pos, ok := row.Event.Location.ToLatLng(); ok {
		return &model.MapEvent{
			Event:          row.Event,
			Venue:          row.Venue,
			Position:       pos,
			DisplayAddress: row.Event.Address,
		}, true
	}

	// 会場・イベント双方に座標が無い場合は地図に載せられない
	return nil, false
}
