package service

import (
	"math"
	"testing"

	"EventMap-App/internal/domain/model"
)

// clusterTestEvent ビニングテスト用の解決済みイベントを作成
func clusterTestEvent(id string, lat, lng float64) *model.MapEvent {
	return &model.MapEvent{
		Event:    model.Event{ID: id, IsPublished: true},
		Position: model.LatLng{Lat: lat, Lng: lng},
	}
}

// TestCellSize ズームレベルごとのセルサイズ則: g = 40 / 2^z
func TestCellSize(t *testing.T) {
	if got := CellSize(0); got != 40 {
		t.Errorf("zoom=0のセルサイズが想定外: got %v, want 40", got)
	}

	for zoom := 0; zoom < 20; zoom++ {
		want := 40 / math.Pow(2, float64(zoom))
		if got := CellSize(zoom); got != want {
			t.Errorf("zoom=%dのセルサイズが想定外: got %v, want %v", zoom, got, want)
		}
		// ズームが1上がるとセルサイズはちょうど半分
		if got := CellSize(zoom + 1); got*2 != CellSize(zoom) {
			t.Errorf("zoom=%d→%dでセルサイズが正確に半減していません", zoom, zoom+1)
		}
	}
}

func TestMapClusterService_Aggregate(t *testing.T) {
	service := NewMapClusterService()

	t.Run("近接する2イベントはzoom=10で同一セルに入る", func(t *testing.T) {
		events := []*model.MapEvent{
			clusterTestEvent("ev-1", 48.2082, 16.3738),
			clusterTestEvent("ev-2", 48.2090, 16.3750),
		}

		bins := service.Aggregate(events, 10)
		if len(bins) != 1 {
			t.Fatalf("ビン数が想定外: got %d, want 1", len(bins))
		}

		bin := bins[0]
		if bin.Count != 2 {
			t.Errorf("ビンのイベント数が想定外: got %d, want 2", bin.Count)
		}

		// 重心は構成イベント座標の算術平均（セルの角ではない）
		wantLat := (48.2082 + 48.2090) / 2
		wantLng := (16.3738 + 16.3750) / 2
		if math.Abs(bin.Centroid.Lat-wantLat) > 1e-9 || math.Abs(bin.Centroid.Lng-wantLng) > 1e-9 {
			t.Errorf("重心が算術平均になっていません: got %+v, want (%v, %v)", bin.Centroid, wantLat, wantLng)
		}
	})

	t.Run("同じ2イベントはzoom=16で別セルに分かれる", func(t *testing.T) {
		events := []*model.MapEvent{
			clusterTestEvent("ev-1", 48.2082, 16.3738),
			clusterTestEvent("ev-2", 48.2090, 16.3750),
		}

		bins := service.Aggregate(events, 16)
		if len(bins) != 2 {
			t.Fatalf("ビン数が想定外: got %d, want 2", len(bins))
		}
		for _, bin := range bins {
			if bin.Count != 1 {
				t.Errorf("単独ビンのイベント数が想定外: got %d", bin.Count)
			}
		}
	})

	t.Run("全イベントがちょうど1つのビンに入る", func(t *testing.T) {
		events := []*model.MapEvent{
			clusterTestEvent("ev-1", 48.2082, 16.3738),
			clusterTestEvent("ev-2", 48.2090, 16.3750),
			clusterTestEvent("ev-3", 48.1951, 16.3483),
			clusterTestEvent("ev-4", 35.6812, 139.7671),
			clusterTestEvent("ev-5", -33.8688, 151.2093),
			clusterTestEvent("ev-6", 48.2083, 16.3739),
		}

		bins := service.Aggregate(events, 12)

		seen := make(map[string]int)
		total := 0
		for _, bin := range bins {
			total += bin.Count
			if bin.Count != len(bin.Members) {
				t.Errorf("Countと構成イベント数が一致しません: count=%d, members=%d", bin.Count, len(bin.Members))
			}
			for _, ev := range bin.Members {
				seen[ev.Event.ID]++
			}
		}

		if total != len(events) {
			t.Errorf("ビンのイベント数合計が入力件数と一致しません: got %d, want %d", total, len(events))
		}
		for _, ev := range events {
			if seen[ev.Event.ID] != 1 {
				t.Errorf("イベント %s が %d 個のビンに現れています", ev.Event.ID, seen[ev.Event.ID])
			}
		}
	})

	t.Run("負の座標も正しく床関数で割り当てられる", func(t *testing.T) {
		// zoom=3 → セルサイズ5度。-0.1度は床関数でセル-1に入り、+0.1度のセル0とは別になる
		events := []*model.MapEvent{
			clusterTestEvent("ev-south", -0.1, 16.0),
			clusterTestEvent("ev-north", 0.1, 16.0),
		}

		bins := service.Aggregate(events, 3)
		if len(bins) != 2 {
			t.Fatalf("赤道をまたぐイベントが同一セルに入っています: got %d bins", len(bins))
		}
	})

	t.Run("入力順に依存せず同一のビンと重心を返す", func(t *testing.T) {
		forward := []*model.MapEvent{
			clusterTestEvent("ev-1", 48.2081, 16.3731),
			clusterTestEvent("ev-2", 48.2082, 16.3732),
			clusterTestEvent("ev-3", 48.2083, 16.3733),
			clusterTestEvent("ev-4", 48.2084, 16.3734),
		}
		reversed := []*model.MapEvent{forward[3], forward[2], forward[1], forward[0]}

		binsA := service.Aggregate(forward, 10)
		binsB := service.Aggregate(reversed, 10)

		if len(binsA) != len(binsB) {
			t.Fatalf("ビン数が入力順で変わっています: %d vs %d", len(binsA), len(binsB))
		}
		for i := range binsA {
			a, b := binsA[i], binsB[i]
			if a.CellX != b.CellX || a.CellY != b.CellY || a.Count != b.Count {
				t.Errorf("ビン割り当てが入力順で変わっています: %+v vs %+v", a, b)
			}
			// 加算順を固定しているため、重心はビットレベルで一致する
			if a.Centroid != b.Centroid {
				t.Errorf("重心が入力順で変わっています: %+v vs %+v", a.Centroid, b.Centroid)
			}
			for j := range a.Members {
				if a.Members[j].Event.ID != b.Members[j].Event.ID {
					t.Errorf("構成イベントの順序が入力順で変わっています")
				}
			}
		}
	})
}
