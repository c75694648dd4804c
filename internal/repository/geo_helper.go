package repository

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"

	"EventMap-App/internal/domain/model"
)

// viewportPadding ビューポート押し下げ時の余白（度）
// 境界線上のイベントが浮動小数点の丸めで落ちないよう、約100m分広げて取得する。
const viewportPadding = 0.001

// PaddedViewport フィルターの境界ボックスを余白付きのorb.Boundへ変換する
// ストア側への絞り込み押し下げ専用。厳密な境界判定はコンパイル済み述語が行う。
func PaddedViewport(bb *model.BoundingBox) orb.Bound {
	bound := orb.Bound{
		Min: orb.Point{bb.MinLng, bb.MinLat},
		Max: orb.Point{bb.MaxLng, bb.MaxLat},
	}
	return bound.Pad(viewportPadding)
}

// ParseGeoJSONPoint ST_AsGeoJSONが返すJSON文字列をmodel.Geometryに変換
// 空文字列はnil（座標なし）として扱う。
func ParseGeoJSONPoint(raw string) (*model.Geometry, error) {
	if raw == "" {
		return nil, nil
	}

	var geometry model.Geometry
	if err := json.Unmarshal([]byte(raw), &geometry); err != nil {
		return nil, fmt.Errorf("location GeoJSONパースエラー: %w", err)
	}

	// orb.Point として正規化（[longitude, latitude] 順）
	if len(geometry.Coordinates) < 2 {
		return nil, nil
	}
	point := orb.Point{geometry.Coordinates[0], geometry.Coordinates[1]}

	return &model.Geometry{
		Type:        geometry.Type,
		Coordinates: []float64{point.Lon(), point.Lat()},
	}, nil
}
