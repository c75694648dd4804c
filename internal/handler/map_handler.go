package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"EventMap-App/internal/domain/model"
	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/usecase"
)

// ズームレベルの受け付け範囲
const (
	minZoomLevel = 0
	maxZoomLevel = 22
)

// MapEventsHandler 地図クエリAPIのハンドラー
type MapEventsHandler struct {
	mapUseCase     usecase.MapQueryUseCase
	viewerResolver repository.ViewerResolver
}

// NewMapEventsHandler 新しいMapEventsHandlerインスタンスを作成
func NewMapEventsHandler(mapUseCase usecase.MapQueryUseCase, viewerResolver repository.ViewerResolver) *MapEventsHandler {
	return &MapEventsHandler{
		mapUseCase:     mapUseCase,
		viewerResolver: viewerResolver,
	}
}

// ValidationError バリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// GetMapEvents GET /api/map/events - ビューポート内のPoint/Cluster一覧を取得
func (h *MapEventsHandler) GetMapEvents(c *gin.Context) {
	query, err := h.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": err.Error(),
		})
		return
	}

	// 閲覧者の解決（失敗は匿名として扱い、リクエストは継続する）
	query.ViewerID = h.resolveViewer(c)

	items, err := h.mapUseCase.QueryMapItems(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to query map events: " + err.Error(),
		})
		return
	}

	// いいねフラグで内容が閲覧者ごとに変わり、日付フィルターで時間にも依存するため
	// 中間キャッシュを禁止する
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

// parseQuery クエリパラメータの解析とバリデーション
func (h *MapEventsHandler) parseQuery(c *gin.Context) (*model.MapQuery, error) {
	zoomStr := c.Query("zoom")
	if zoomStr == "" {
		return nil, &ValidationError{Field: "zoom", Message: "zoom parameter is required"}
	}
	zoom, err := strconv.Atoi(zoomStr)
	if err != nil {
		return nil, &ValidationError{Field: "zoom", Message: "zoom must be an integer"}
	}
	if zoom < minZoomLevel || zoom > maxZoomLevel {
		return nil, &ValidationError{Field: "zoom", Message: "zoom must be between 0 and 22"}
	}

	filter := model.MapFilter{
		SearchTerm: strings.TrimSpace(c.Query("q")),
	}

	if filter.CategoryIDs, err = parseIDList("categories", c.Query("categories")); err != nil {
		return nil, err
	}
	if filter.VenueIDs, err = parseIDList("venues", c.Query("venues")); err != nil {
		return nil, err
	}

	if filter.DateRangeStart, err = parseTimestamp("date_range_start", c.Query("date_range_start")); err != nil {
		return nil, err
	}
	if filter.DateRangeEnd, err = parseTimestamp("date_range_end", c.Query("date_range_end")); err != nil {
		return nil, err
	}
	if filter.DateRangeStart != nil && filter.DateRangeEnd != nil &&
		filter.DateRangeEnd.Before(*filter.DateRangeStart) {
		return nil, &ValidationError{Field: "date_range_end", Message: "date_range_end must not be before date_range_start"}
	}

	if filter.OnlineOnly, err = parseBoolParam("online_only", c.Query("online_only")); err != nil {
		return nil, err
	}
	if filter.EditorsChoiceOnly, err = parseBoolParam("editors_choice_only", c.Query("editors_choice_only")); err != nil {
		return nil, err
	}

	if filter.BoundingBox, err = parseBoundingBox(c); err != nil {
		return nil, err
	}

	includeDetail, err := parseBoolParam("detail", c.Query("detail"))
	if err != nil {
		return nil, err
	}

	return &model.MapQuery{
		Zoom:          zoom,
		Filter:        filter,
		IncludeDetail: includeDetail,
	}, nil
}

// resolveViewer Authorizationヘッダーから閲覧者IDを解決する（失敗は匿名）
func (h *MapEventsHandler) resolveViewer(c *gin.Context) string {
	token := bearerToken(c)
	if token == "" {
		return ""
	}

	viewerID, err := h.viewerResolver.ResolveViewerID(c.Request.Context(), token)
	if err != nil {
		log.Printf("⚠️ 閲覧者の解決に失敗したため匿名として処理します: %v", err)
		return ""
	}
	return viewerID
}

// bearerToken AuthorizationヘッダーからBearerトークンを取り出す
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseIDList カンマ区切りのUUIDリストを解析する（空は「絞り込みなし」）
func parseIDList(field, raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	var ids []string
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, &ValidationError{Field: field, Message: "invalid id: " + id}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseTimestamp RFC 3339形式のタイムスタンプを解析する
func parseTimestamp(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be an RFC 3339 timestamp"}
	}
	return &ts, nil
}

// parseBoolParam 真偽値パラメータを解析する（空はfalse）
func parseBoolParam(field, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ValidationError{Field: field, Message: "must be a boolean"}
	}
	return value, nil
}

// parseBoundingBox 境界ボックスの4パラメータを解析する（すべて指定かすべて未指定）
func parseBoundingBox(c *gin.Context) (*model.BoundingBox, error) {
	fields := []string{"min_lat", "max_lat", "min_lng", "max_lng"}
	values := make(map[string]string, len(fields))
	present := 0
	for _, field := range fields {
		values[field] = c.Query(field)
		if values[field] != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(fields) {
		return nil, &ValidationError{Field: "bounding_box", Message: "min_lat, max_lat, min_lng, max_lng must be provided together"}
	}

	parsed := make(map[string]float64, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(values[field], 64)
		if err != nil {
			return nil, &ValidationError{Field: field, Message: "must be a float"}
		}
		parsed[field] = value
	}

	bb := &model.BoundingBox{
		MinLat: parsed["min_lat"],
		MaxLat: parsed["max_lat"],
		MinLng: parsed["min_lng"],
		MaxLng: parsed["max_lng"],
	}
	if bb.MinLat < -90 || bb.MaxLat > 90 || bb.MinLat > bb.MaxLat {
		return nil, &ValidationError{Field: "min_lat", Message: "latitude range must satisfy -90 <= min_lat <= max_lat <= 90"}
	}
	if bb.MinLng < -180 || bb.MaxLng > 180 || bb.MinLng > bb.MaxLng {
		return nil, &ValidationError{Field: "min_lng", Message: "longitude range must satisfy -180 <= min_lng <= max_lng <= 180"}
	}

	return bb, nil
}
