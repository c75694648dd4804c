package service

import (
	"strings"
	"time"

	"github.com/paulmach/orb"

	"EventMap-App/internal/domain/model"
)

// EventPredicate 座標解決済みイベント1件に対する真偽判定
type EventPredicate func(ev *model.MapEvent) bool

// MapFilterCompiler MapFilterを単一の合成述語へコンパイルする
// 各フィールドの述語を条件付きでリストへ追加し、ANDで合成する。
// 集合フィールド（カテゴリ・会場）内はORセマンティクス。
type MapFilterCompiler struct {
	now func() time.Time
}

// NewMapFilterCompiler MapFilterCompilerの新しいインスタンスを作成
func NewMapFilterCompiler() *MapFilterCompiler {
	return &MapFilterCompiler{now: time.Now}
}

// Compile フィルター条件と常時適用のベースライン制約を1つの述語へ合成する
// 入力は検証済みであることを前提とし、契約違反（nilイベント）はpanicで即座に失敗する。
func (c *MapFilterCompiler) Compile(filter *model.MapFilter) EventPredicate {
	preds := c.compilePredicates(filter)

	return func(ev *model.MapEvent) bool {
		if ev == nil {
			panic("map_filter_compiler: nil event passed to compiled predicate")
		}
		for _, pred := range preds {
			if !pred(ev) {
				return false
			}
		}
		return true
	}
}

// compilePredicates 指定されたフィールドのみを述語リストへ追加する
func (c *MapFilterCompiler) compilePredicates(filter *model.MapFilter) []EventPredicate {
	// ベースライン制約: 公開済みであること
	// （座標解決可能であることはCoordinateResolverが候補集合から除外済み）
	preds := []EventPredicate{
		func(ev *model.MapEvent) bool { return ev.Event.IsPublished },
	}

	if term := strings.TrimSpace(filter.SearchTerm); term != "" {
		lower := strings.ToLower(term)
		preds = append(preds, func(ev *model.MapEvent) bool {
			return strings.Contains(strings.ToLower(ev.Event.Title), lower) ||
				strings.Contains(strings.ToLower(ev.Event.Description), lower)
		})
	}

	if len(filter.CategoryIDs) > 0 {
		categorySet := toIDSet(filter.CategoryIDs)
		preds = append(preds, func(ev *model.MapEvent) bool {
			return categorySet[ev.Event.CategoryID]
		})
	}

	if len(filter.VenueIDs) > 0 {
		venueSet := toIDSet(filter.VenueIDs)
		preds = append(preds, func(ev *model.MapEvent) bool {
			return ev.Event.VenueID != nil && venueSet[*ev.Event.VenueID]
		})
	}

	preds = append(preds, c.compileDateRange(filter.DateRangeStart, filter.DateRangeEnd))

	if filter.OnlineOnly {
		preds = append(preds, func(ev *model.MapEvent) bool { return ev.Event.IsOnline })
	}

	if filter.EditorsChoiceOnly {
		preds = append(preds, func(ev *model.MapEvent) bool { return ev.Event.EditorsChoice })
	}

	if bb := filter.BoundingBox; bb != nil {
		bound := orb.Bound{
			Min: orb.Point{bb.MinLng, bb.MinLat},
			Max: orb.Point{bb.MaxLng, bb.MaxLat},
		}
		preds = append(preds, func(ev *model.MapEvent) bool {
			return bound.Contains(orb.Point{ev.Position.Lng, ev.Position.Lat})
		})
	}

	return preds
}

// compileDateRange 期間フィルターの述語を作成する（区間の重なりセマンティクス）
// 両端未指定の場合は「終了していないイベント」がデフォルト。
func (c *MapFilterCompiler) compileDateRange(start, end *time.Time) EventPredicate {
	switch {
	case start != nil && end != nil:
		s, e := *start, *end
		return func(ev *model.MapEvent) bool {
			// [starts_at, ends_at] と [s, e] が交差するか
			return !ev.Event.StartsAt.After(e) && !ev.Event.EndsAt.Before(s)
		}
	case start != nil:
		s := *start
		return func(ev *model.MapEvent) bool {
			return !ev.Event.EndsAt.Before(s)
		}
	case end != nil:
		e := *end
		return func(ev *model.MapEvent) bool {
			return !ev.Event.StartsAt.After(e)
		}
	default:
		now := c.now()
		return func(ev *model.MapEvent) bool {
			return !ev.Event.EndsAt.Before(now)
		}
	}
}

// toIDSet IDスライスを検索用のセットに変換
func toIDSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
