package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"EventMap-App/internal/domain/model"
	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/infrastructure/database"
)

// PostgresMapEventsRepository PostgreSQL直接接続による地図クエリ用リポジトリ
// イベントと会場のJOINを1回のクエリで発行し、押し下げ可能な条件をWHERE句へ追加する。
type PostgresMapEventsRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresMapEventsRepository 新しいPostgresMapEventsRepositoryインスタンスを作成
func NewPostgresMapEventsRepository(client *database.PostgreSQLClient) repository.MapEventsRepository {
	return &PostgresMapEventsRepository{
		client: client,
	}
}

// mapEventResult JOINクエリの結果1行を受け取るための構造体
type mapEventResult struct {
	ID            string
	Title         string
	Description   string
	StartsAt      sql.NullTime
	EndsAt        sql.NullTime
	CategoryID    string
	EditorsChoice bool
	BannerDesktop sql.NullString
	BannerMobile  sql.NullString
	Address       sql.NullString
	City          sql.NullString
	Country       sql.NullString
	VenueID       sql.NullString
	Location      sql.NullString // ST_AsGeoJSONの結果
	IsOnline      bool
	IsPublished   bool
	VenueName     sql.NullString
	VenueLocation sql.NullString // ST_AsGeoJSONの結果
	VenueAddress  sql.NullString
	VenueBanner   sql.NullString
}

// ToRow mapEventResultをmodel.MapEventRowに変換
func (mr *mapEventResult) ToRow() (model.MapEventRow, error) {
	location, err := ParseGeoJSONPoint(mr.Location.String)
	if err != nil {
		return model.MapEventRow{}, err
	}

	event := model.Event{
		ID:            mr.ID,
		Title:         mr.Title,
		Description:   mr.Description,
		CategoryID:    mr.CategoryID,
		EditorsChoice: mr.EditorsChoice,
		Address:       mr.Address.String,
		City:          mr.City.String,
		Country:       mr.Country.String,
		Location:      location,
		IsOnline:      mr.IsOnline,
		IsPublished:   mr.IsPublished,
	}
	if mr.StartsAt.Valid {
		event.StartsAt = mr.StartsAt.Time
	}
	if mr.EndsAt.Valid {
		event.EndsAt = mr.EndsAt.Time
	}
	if mr.BannerDesktop.Valid {
		event.BannerDesktop = &mr.BannerDesktop.String
	}
	if mr.BannerMobile.Valid {
		event.BannerMobile = &mr.BannerMobile.String
	}

	if mr.VenueID.Valid {
		event.VenueID = &mr.VenueID.String
	}

	row := model.MapEventRow{Event: event}

	if mr.VenueID.Valid {
		venueLocation, err := ParseGeoJSONPoint(mr.VenueLocation.String)
		if err != nil {
			return model.MapEventRow{}, err
		}
		row.Venue = &model.Venue{
			ID:       mr.VenueID.String,
			Name:     mr.VenueName.String,
			Location: venueLocation,
			Address:  mr.VenueAddress.String,
		}
		if mr.VenueBanner.Valid {
			row.Venue.Banner = &mr.VenueBanner.String
		}
	}

	return row, nil
}

// FindForMap フィルター条件に基づきイベント＋会場を1回のクエリで取得する
// 押し下げるのは安価に書ける条件（公開済み・座標あり・ビューポート・期間）のみで、
// 残りの条件はプロセス内のコンパイル済み述語が担当する。
func (r *PostgresMapEventsRepository) FindForMap(ctx context.Context, scope *model.MapFilter) ([]model.MapEventRow, error) {
	conditions := []string{
		"e.is_published = TRUE",
		"COALESCE(v.location, e.location) IS NOT NULL",
	}
	var args []interface{}

	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if bb := scope.BoundingBox; bb != nil {
		bound := PaddedViewport(bb)
		conditions = append(conditions,
			fmt.Sprintf("ST_Y(COALESCE(v.location, e.location)::geometry) BETWEEN %s AND %s",
				arg(bound.Min.Lat()), arg(bound.Max.Lat())),
			fmt.Sprintf("ST_X(COALESCE(v.location, e.location)::geometry) BETWEEN %s AND %s",
				arg(bound.Min.Lon()), arg(bound.Max.Lon())),
		)
	}

	switch {
	case scope.DateRangeStart != nil && scope.DateRangeEnd != nil:
		conditions = append(conditions,
			fmt.Sprintf("e.starts_at <= %s", arg(*scope.DateRangeEnd)),
			fmt.Sprintf("e.ends_at >= %s", arg(*scope.DateRangeStart)),
		)
	case scope.DateRangeStart != nil:
		conditions = append(conditions, fmt.Sprintf("e.ends_at >= %s", arg(*scope.DateRangeStart)))
	case scope.DateRangeEnd != nil:
		conditions = append(conditions, fmt.Sprintf("e.starts_at <= %s", arg(*scope.DateRangeEnd)))
	default:
		conditions = append(conditions, "e.ends_at >= NOW()")
	}

	if len(scope.CategoryIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("e.category_id = ANY(%s)", arg(pq.Array(scope.CategoryIDs))))
	}
	if len(scope.VenueIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("e.venue_id = ANY(%s)", arg(pq.Array(scope.VenueIDs))))
	}
	if scope.OnlineOnly {
		conditions = append(conditions, "e.is_online = TRUE")
	}
	if scope.EditorsChoiceOnly {
		conditions = append(conditions, "e.editors_choice = TRUE")
	}

	query := `SELECT e.id, e.title, e.description, e.starts_at, e.ends_at, e.category_id, e.editors_choice,
		e.banner_desktop, e.banner_mobile, e.address, e.city, e.country, e.venue_id,
		ST_AsGeoJSON(e.location), e.is_online, e.is_published,
		v.name, ST_AsGeoJSON(v.location), v.address, v.banner
		FROM events e
		LEFT JOIN venues v ON v.id = e.venue_id
		WHERE ` + strings.Join(conditions, " AND ")

	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("地図用イベントデータの取得失敗: %w", err)
	}
	defer rows.Close()

	var result []model.MapEventRow
	for rows.Next() {
		var mr mapEventResult
		err := rows.Scan(&mr.ID, &mr.Title, &mr.Description, &mr.StartsAt, &mr.EndsAt,
			&mr.CategoryID, &mr.EditorsChoice, &mr.BannerDesktop, &mr.BannerMobile,
			&mr.Address, &mr.City, &mr.Country, &mr.VenueID,
			&mr.Location, &mr.IsOnline, &mr.IsPublished,
			&mr.VenueName, &mr.VenueLocation, &mr.VenueAddress, &mr.VenueBanner)
		if err != nil {
			return nil, fmt.Errorf("地図用イベントデータの読み取り失敗: %w", err)
		}

		row, err := mr.ToRow()
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("地図用イベントデータの走査失敗: %w", err)
	}

	return result, nil
}
