package usecase

import (
	"context"
	"fmt"
	"log"

	"EventMap-App/internal/domain/model"
	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/domain/service"
)

// MapQueryUseCase 地図クエリ1回分のパイプラインを実行する
type MapQueryUseCase interface {
	// QueryMapItems フィルター・ズーム・閲覧者に基づいてPoint/Clusterの一覧を返す
	QueryMapItems(ctx context.Context, query *model.MapQuery) ([]model.MapItem, error)
}

// mapQueryUseCaseImpl MapQueryUseCaseの実装
type mapQueryUseCaseImpl struct {
	eventsRepo     repository.MapEventsRepository
	likedRepo      repository.LikedEventsRepository
	filterCompiler *service.MapFilterCompiler
	resolver       *service.CoordinateResolver
	clusterService *service.MapClusterService
	shaper         *service.MapItemShaper
}

// NewMapQueryUseCase 新しいMapQueryUseCaseインスタンスを作成
func NewMapQueryUseCase(
	eventsRepo repository.MapEventsRepository,
	likedRepo repository.LikedEventsRepository,
) MapQueryUseCase {
	return &mapQueryUseCaseImpl{
		eventsRepo:     eventsRepo,
		likedRepo:      likedRepo,
		filterCompiler: service.NewMapFilterCompiler(),
		resolver:       service.NewCoordinateResolver(),
		clusterService: service.NewMapClusterService(),
		shaper:         service.NewMapItemShaper(),
	}
}

// likedResult いいね済みイベントID取得の結果
type likedResult struct {
	ids map[string]bool
	err error
}

// QueryMapItems フィルタリング→座標解決→ビニング→整形→注釈付けを実行する
// いいね済みIDの取得は集計と独立しているため並行で発行し、最後の注釈段で合流する。
func (u *mapQueryUseCaseImpl) QueryMapItems(ctx context.Context, query *model.MapQuery) ([]model.MapItem, error) {
	// Step 1: いいね済みイベントIDを並行取得（匿名の場合は取得しない）
	likedChan := make(chan likedResult, 1)
	go func() {
		if query.ViewerID == "" {
			likedChan <- likedResult{ids: map[string]bool{}}
			return
		}
		ids, err := u.likedRepo.GetLikedEventIDs(ctx, query.ViewerID)
		likedChan <- likedResult{ids: ids, err: err}
	}()

	// Step 2: ストアへの1回のクエリでイベント＋会場の候補行を取得
	rows, err := u.eventsRepo.FindForMap(ctx, &query.Filter)
	if err != nil {
		// ストア障害はこのリクエストにとって致命的（内部リトライはしない）
		return nil, fmt.Errorf("イベントデータの取得失敗: %w", err)
	}

	// Step 3: 座標解決とコンパイル済み述語によるフィルタリング
	resolved := u.resolver.Resolve(rows)
	predicate := u.filterCompiler.Compile(&query.Filter)
	matched := make([]*model.MapEvent, 0, len(resolved))
	for _, ev := range resolved {
		if predicate(ev) {
			matched = append(matched, ev)
		}
	}

	// Step 4: グリッドビニングと整形
	bins := u.clusterService.Aggregate(matched, query.Zoom)
	items := u.shaper.Shape(bins, query.IncludeDetail)

	// Step 5: 閲覧者のいいね状態を注釈付け（取得失敗時は全件falseのまま返す）
	liked := <-likedChan
	if liked.err != nil {
		log.Printf("⚠️ いいね済みイベントの取得に失敗したため未いいね扱いで返します: %v", liked.err)
		liked.ids = map[string]bool{}
	}
	annotateLiked(items, liked.ids)

	return items, nil
}

// annotateLiked 出力に埋め込まれた全イベントペイロードへいいね状態を設定する
// 件数・並び順・座標は変更しない純粋な付加処理。
func annotateLiked(items []model.MapItem, liked map[string]bool) {
	for _, item := range items {
		switch v := item.(type) {
		case *model.MapPoint:
			v.Event.Liked = liked[v.Event.ID]
		case *model.MapCluster:
			for _, marker := range v.Events {
				marker.Liked = liked[marker.ID]
			}
		default:
			panic(fmt.Sprintf("map_query_usecase: unknown map item type %T", item))
		}
	}
}
