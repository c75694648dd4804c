package service

import (
	"testing"

	"EventMap-App/internal/domain/model"
)

// geometryAt テスト用のPoint Geometryを作成（[lng, lat] 順）
func geometryAt(lat, lng float64) *model.Geometry {
	return &model.Geometry{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

func TestCoordinateResolver_Resolve(t *testing.T) {
	resolver := NewCoordinateResolver()

	venueID := "venue-1"
	venue := &model.Venue{
		ID:       venueID,
		Name:     "Stadthalle",
		Location: geometryAt(48.2025, 16.3336),
		Address:  "Roland-Rainer-Platz 1, 1150 Wien",
	}

	t.Run("会場の座標と住所が優先される", func(t *testing.T) {
		rows := []model.MapEventRow{
			{
				Event: model.Event{
					ID:       "ev-1",
					Address:  "イベント側の住所",
					VenueID:  &venueID,
					Location: geometryAt(48.9999, 16.9999),
				},
				Venue: venue,
			},
		}

		resolved := resolver.Resolve(rows)
		if len(resolved) != 1 {
			t.Fatalf("解決済みイベント数が想定外: got %d", len(resolved))
		}
		ev := resolved[0]
		if ev.Position.Lat != 48.2025 || ev.Position.Lng != 16.3336 {
			t.Errorf("会場の座標が使われていません: %+v", ev.Position)
		}
		if ev.DisplayAddress != venue.Address {
			t.Errorf("会場の住所が使われていません: %s", ev.DisplayAddress)
		}
		if ev.VenueName != "Stadthalle" {
			t.Errorf("会場名が設定されていません: %s", ev.VenueName)
		}
	})

	t.Run("会場がない場合はイベント自身の座標を使う", func(t *testing.T) {
		rows := []model.MapEventRow{
			{
				Event: model.Event{
					ID:       "ev-2",
					Address:  "Praterstern 1, 1020 Wien",
					Location: geometryAt(48.2185, 16.3922),
				},
			},
		}

		resolved := resolver.Resolve(rows)
		if len(resolved) != 1 {
			t.Fatalf("解決済みイベント数が想定外: got %d", len(resolved))
		}
		ev := resolved[0]
		if ev.Position.Lat != 48.2185 || ev.Position.Lng != 16.3922 {
			t.Errorf("イベント自身の座標が使われていません: %+v", ev.Position)
		}
		if ev.DisplayAddress != "Praterstern 1, 1020 Wien" {
			t.Errorf("イベント側の住所が使われていません: %s", ev.DisplayAddress)
		}
		if ev.VenueName != "" {
			t.Errorf("会場名が空であるべきです: %s", ev.VenueName)
		}
	})

	t.Run("会場に座標がない場合はイベント側へフォールバックする", func(t *testing.T) {
		venueNoLocation := &model.Venue{ID: "venue-2", Name: "未登録会場", Address: "住所のみ"}
		rows := []model.MapEventRow{
			{
				Event: model.Event{
					ID:       "ev-3",
					Address:  "イベント側の住所",
					Location: geometryAt(48.1951, 16.3483),
				},
				Venue: venueNoLocation,
			},
		}

		resolved := resolver.Resolve(rows)
		if len(resolved) != 1 {
			t.Fatalf("解決済みイベント数が想定外: got %d", len(resolved))
		}
		if resolved[0].Position.Lat != 48.1951 {
			t.Errorf("イベント側の座標へフォールバックしていません: %+v", resolved[0].Position)
		}
	})

	t.Run("どちらにも座標がないイベントは候補から除外される", func(t *testing.T) {
		rows := []model.MapEventRow{
			{Event: model.Event{ID: "ev-4"}},
			{Event: model.Event{ID: "ev-5", Location: geometryAt(48.2, 16.4)}},
		}

		resolved := resolver.Resolve(rows)
		if len(resolved) != 1 {
			t.Fatalf("除外が機能していません: got %d", len(resolved))
		}
		if resolved[0].Event.ID != "ev-5" {
			t.Errorf("残るべきイベントが違います: %s", resolved[0].Event.ID)
		}
	})
}
