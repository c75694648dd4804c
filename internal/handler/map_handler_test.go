package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"EventMap-App/internal/domain/model"
)

// stubMapQueryUseCase テスト用の地図クエリユースケース
type stubMapQueryUseCase struct {
	lastQuery *model.MapQuery
	items     []model.MapItem
	err       error
}

func (s *stubMapQueryUseCase) QueryMapItems(ctx context.Context, query *model.MapQuery) ([]model.MapItem, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

// stubViewerResolver テスト用の閲覧者リゾルバー
type stubViewerResolver struct {
	viewerID string
	err      error
}

func (s *stubViewerResolver) ResolveViewerID(ctx context.Context, accessToken string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.viewerID, nil
}

// newMapTestRouter テスト用のルーターを構築
func newMapTestRouter(uc *stubMapQueryUseCase, resolver *stubViewerResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewMapEventsHandler(uc, resolver)
	r.GET("/api/map/events", h.GetMapEvents)
	return r
}

// doMapRequest テストリクエストを実行してレコーダーを返す
func doMapRequest(r *gin.Engine, query string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/map/events"+query, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMapEvents_Validation(t *testing.T) {
	uc := &stubMapQueryUseCase{items: []model.MapItem{}}
	r := newMapTestRouter(uc, &stubViewerResolver{})

	cases := []struct {
		name  string
		query string
	}{
		{"zoom未指定", ""},
		{"zoomが整数でない", "?zoom=abc"},
		{"zoomが範囲外", "?zoom=25"},
		{"境界ボックスが不完全", "?zoom=10&min_lat=48.0&max_lat=48.5"},
		{"境界ボックスが数値でない", "?zoom=10&min_lat=abc&max_lat=48.5&min_lng=16.0&max_lng=16.5"},
		{"緯度範囲が逆転", "?zoom=10&min_lat=48.5&max_lat=48.0&min_lng=16.0&max_lng=16.5"},
		{"日付が解析できない", "?zoom=10&date_range_start=tomorrow"},
		{"日付範囲が逆転", "?zoom=10&date_range_start=2025-07-02T00:00:00Z&date_range_end=2025-07-01T00:00:00Z"},
		{"カテゴリIDがUUIDでない", "?zoom=10&categories=not-a-uuid"},
		{"真偽値が解析できない", "?zoom=10&online_only=yes!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doMapRequest(r, tc.query, nil)
			if w.Code != http.StatusBadRequest {
				t.Errorf("ステータスコードが想定外: got %d, want 400 (body: %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestGetMapEvents_Success(t *testing.T) {
	uc := &stubMapQueryUseCase{
		items: []model.MapItem{
			&model.MapCluster{Type: model.MapItemTypeCluster, ID: "cluster_48.208600_16.374400", Lat: 48.2086, Lng: 16.3744, Count: 2},
			&model.MapPoint{Type: model.MapItemTypePoint, ID: "ev-3", Lat: 35.6812, Lng: 139.7671, Event: &model.EventMarker{ID: "ev-3"}},
		},
	}
	r := newMapTestRouter(uc, &stubViewerResolver{})

	w := doMapRequest(r, "?zoom=10&min_lat=30.0&max_lat=50.0&min_lng=10.0&max_lng=145.0&detail=true", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("ステータスコードが想定外: got %d (body: %s)", w.Code, w.Body.String())
	}

	t.Run("キャッシュ禁止ヘッダーが付く", func(t *testing.T) {
		if got := w.Header().Get("Cache-Control"); got != "no-store" {
			t.Errorf("Cache-Controlが想定外: got %q, want \"no-store\"", got)
		}
	})

	t.Run("タグ付きの2種類のマーカーが返る", func(t *testing.T) {
		body := w.Body.String()
		if !strings.Contains(body, `"type":"cluster"`) || !strings.Contains(body, `"type":"point"`) {
			t.Errorf("レスポンスにtypeタグがありません: %s", body)
		}
	})

	t.Run("クエリパラメータがユースケースへ渡る", func(t *testing.T) {
		if uc.lastQuery == nil {
			t.Fatal("ユースケースが呼ばれていません")
		}
		if uc.lastQuery.Zoom != 10 || !uc.lastQuery.IncludeDetail {
			t.Errorf("渡されたクエリが想定外: %+v", uc.lastQuery)
		}
		if uc.lastQuery.Filter.BoundingBox == nil {
			t.Error("境界ボックスが渡っていません")
		}
	})
}

func TestGetMapEvents_ViewerResolution(t *testing.T) {
	t.Run("解決できたトークンは閲覧者IDになる", func(t *testing.T) {
		uc := &stubMapQueryUseCase{items: []model.MapItem{}}
		r := newMapTestRouter(uc, &stubViewerResolver{viewerID: "viewer-42"})

		w := doMapRequest(r, "?zoom=10", map[string]string{"Authorization": "Bearer token-ok"})
		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコードが想定外: got %d", w.Code)
		}
		if uc.lastQuery.ViewerID != "viewer-42" {
			t.Errorf("閲覧者IDが想定外: %q", uc.lastQuery.ViewerID)
		}
	})

	t.Run("解決失敗は匿名として処理が継続する", func(t *testing.T) {
		uc := &stubMapQueryUseCase{items: []model.MapItem{}}
		r := newMapTestRouter(uc, &stubViewerResolver{err: errors.New("token expired")})

		w := doMapRequest(r, "?zoom=10", map[string]string{"Authorization": "Bearer token-bad"})
		if w.Code != http.StatusOK {
			t.Fatalf("解決失敗がリクエスト全体を失敗させています: got %d", w.Code)
		}
		if uc.lastQuery.ViewerID != "" {
			t.Errorf("匿名になっていません: %q", uc.lastQuery.ViewerID)
		}
	})
}

func TestGetMapEvents_StoreError(t *testing.T) {
	uc := &stubMapQueryUseCase{err: errors.New("query execution failure")}
	r := newMapTestRouter(uc, &stubViewerResolver{})

	w := doMapRequest(r, "?zoom=10", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("ストア障害のステータスコードが想定外: got %d, want 500", w.Code)
	}
}
