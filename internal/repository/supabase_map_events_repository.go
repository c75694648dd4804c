package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"EventMap-App/internal/domain/model"
	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/infrastructure/database"
)

// SupabaseMapEventsRepository PostgREST経由の地図クエリ用リポジトリ
// 会場はリソース埋め込み（venue:venues(*)）で同一リクエスト内に取得する。
// PostgRESTでは座標のCOALESCE比較が書けないため、ビューポートと座標有無の
// 判定は押し下げず、プロセス内のコンパイル済み述語に任せる。
type SupabaseMapEventsRepository struct {
	client *database.SupabaseClient
}

// NewSupabaseMapEventsRepository 新しいSupabaseMapEventsRepositoryインスタンスを作成
func NewSupabaseMapEventsRepository(client *database.SupabaseClient) repository.MapEventsRepository {
	return &SupabaseMapEventsRepository{
		client: client,
	}
}

// supabaseMapEventRow PostgRESTレスポンスの1行（イベント列＋埋め込み会場）
type supabaseMapEventRow struct {
	model.Event
	Venue *model.Venue `json:"venue"`
}

// FindForMap フィルター条件に基づきイベント＋会場を1回のリクエストで取得する
func (r *SupabaseMapEventsRepository) FindForMap(ctx context.Context, scope *model.MapFilter) ([]model.MapEventRow, error) {
	query := r.client.GetClient().From("events").
		Select("*,venue:venues(*)", "exact", false).
		Eq("is_published", "true")

	switch {
	case scope.DateRangeStart != nil && scope.DateRangeEnd != nil:
		query = query.
			Lte("starts_at", scope.DateRangeEnd.Format(time.RFC3339)).
			Gte("ends_at", scope.DateRangeStart.Format(time.RFC3339))
	case scope.DateRangeStart != nil:
		query = query.Gte("ends_at", scope.DateRangeStart.Format(time.RFC3339))
	case scope.DateRangeEnd != nil:
		query = query.Lte("starts_at", scope.DateRangeEnd.Format(time.RFC3339))
	default:
		query = query.Gte("ends_at", time.Now().UTC().Format(time.RFC3339))
	}

	if len(scope.CategoryIDs) > 0 {
		query = query.In("category_id", scope.CategoryIDs)
	}
	if len(scope.VenueIDs) > 0 {
		query = query.In("venue_id", scope.VenueIDs)
	}
	if scope.OnlineOnly {
		query = query.Eq("is_online", "true")
	}
	if scope.EditorsChoiceOnly {
		query = query.Eq("editors_choice", "true")
	}

	data, count, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("地図用イベントデータの取得失敗: %w", err)
	}
	_ = count

	var rows []supabaseMapEventRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("地図用イベントデータのJSONアンマーシャル失敗: %w", err)
	}

	result := make([]model.MapEventRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, model.MapEventRow{
			Event: row.Event,
			Venue: row.Venue,
		})
	}

	return result, nil
}
